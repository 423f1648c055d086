package diagnostic

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type order struct{}

func TestError_Message(t *testing.T) {
	t.Parallel()

	owner := reflect.TypeFor[order]()
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "invalid property with matches",
			err:      &Error{Kind: KindInvalidProperty, Owner: owner, Path: "nmae", Reason: ReasonNotFound, Matches: []string{"name"}},
			expected: "invalid property 'nmae' of type diagnostic.order: not found (did you mean 'name'?)",
		},
		{
			name:     "malformed path",
			err:      InvalidProperty(nil, "items[", ReasonMalformedPath, cause),
			expected: "invalid property 'items[': malformed property path: boom",
		},
		{
			name:     "null in nested path",
			err:      NullValueInNestedPath(owner, "shipTo.city", "shipTo"),
			expected: "null value in nested path 'shipTo.city': 'shipTo' is nil",
		},
		{
			name:     "type mismatch",
			err:      &Error{Kind: KindTypeMismatch, Path: "age", Value: "old", Required: reflect.TypeFor[int](), Err: cause},
			expected: `type mismatch for property 'age': cannot convert "old" (string) to int: boom`,
		},
		{
			name:     "type mismatch from converter",
			err:      &Error{Kind: KindTypeMismatch, Path: "age", Value: 3, Required: reflect.TypeFor[int](), Converter: "ageConverter"},
			expected: "type mismatch for property 'age': cannot convert 3 (int) to int: converter ageConverter returned an incompatible value",
		},
		{
			name:     "conversion not supported",
			err:      &Error{Kind: KindConversionNotSupported, Path: "at", Value: nil, Required: reflect.TypeFor[bool]()},
			expected: "conversion not supported for property 'at': <nil> to bool",
		},
		{
			name:     "fatal introspection",
			err:      FatalIntrospection(owner, "code", ReasonDuplicateProperty),
			expected: "fatal introspection of type diagnostic.order at property 'code': property name claimed twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_IsAndKind(t *testing.T) {
	t.Parallel()

	cause := errors.New("bad input")

	tests := []struct {
		err      error
		sentinel error
		kind     Kind
	}{
		{InvalidProperty(nil, "x", ReasonNotFound, nil), ErrInvalidProperty, KindInvalidProperty},
		{NullValueInNestedPath(nil, "a.b", "a"), ErrNullValueInNestedPath, KindNullValueInNestedPath},
		{&Error{Kind: KindTypeMismatch, Err: cause}, ErrTypeMismatch, KindTypeMismatch},
		{&Error{Kind: KindConversionNotSupported}, ErrConversionNotSupported, KindConversionNotSupported},
		{FatalIntrospection(nil, "", ReasonTypeConflict), ErrFatalIntrospection, KindFatalIntrospection},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			t.Parallel()

			wrapped := fmt.Errorf("context: %w", tt.err)

			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.kind, KindOf(wrapped))

			for _, other := range sentinels {
				if other != tt.sentinel {
					assert.NotErrorIs(t, tt.err, other)
				}
			}
		})
	}

	assert.ErrorIs(t, &Error{Kind: KindTypeMismatch, Err: cause}, cause, "cause is unwrapped")
	assert.Equal(t, Kind(0), KindOf(nil))
	assert.Equal(t, Kind(0), KindOf(cause))
	assert.Equal(t, ReasonNotFound, ReasonOf(InvalidProperty(nil, "x", ReasonNotFound, nil)))
	assert.Empty(t, ReasonOf(cause))
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "KindInvalidProperty", KindInvalidProperty.String())
	assert.Equal(t, "KindComposite", KindComposite.String())
	assert.Equal(t, "Kind(0)", Kind(0).String())
}

func TestCompositeError(t *testing.T) {
	t.Parallel()

	first := &Error{Kind: KindTypeMismatch, Path: "age"}
	second := &Error{Kind: KindConversionNotSupported, Path: "at"}

	composite := NewComposite(first, nil)
	composite.Append(nil)
	composite.Append(second)

	require.Equal(t, 2, composite.Len())
	assert.Equal(t, []error{first, second}, composite.Errors())

	var err error = composite
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorIs(t, err, ErrConversionNotSupported)
	assert.NotErrorIs(t, err, ErrInvalidProperty)
	assert.Equal(t, KindComposite, KindOf(err))

	assert.Same(t, second, composite.Failure("at"))
	assert.NoError(t, composite.Failure("missing"))

	assert.Contains(t, composite.Error(), "2 property access failure(s)")
	assert.Contains(t, composite.Error(), "'age'")
	assert.Contains(t, composite.Error(), "'at'")
}

func TestCompositeError_ErrOrNil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NewComposite().ErrOrNil())

	var nilComposite *CompositeError
	assert.NoError(t, nilComposite.ErrOrNil())
}
