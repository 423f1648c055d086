package diagnostic

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind tags the category of a property access failure.
type Kind int

const (
	_ Kind = iota // zero value means "not a property access failure"

	KindInvalidProperty
	KindNullValueInNestedPath
	KindTypeMismatch
	KindConversionNotSupported
	KindFatalIntrospection
	KindComposite
)

var (
	ErrInvalidProperty        = errors.New("invalid property")
	ErrNullValueInNestedPath  = errors.New("null value in nested path")
	ErrTypeMismatch           = errors.New("type mismatch")
	ErrConversionNotSupported = errors.New("conversion not supported")
	ErrFatalIntrospection     = errors.New("fatal introspection")
)

var sentinels = map[Kind]error{
	KindInvalidProperty:        ErrInvalidProperty,
	KindNullValueInNestedPath:  ErrNullValueInNestedPath,
	KindTypeMismatch:           ErrTypeMismatch,
	KindConversionNotSupported: ErrConversionNotSupported,
	KindFatalIntrospection:     ErrFatalIntrospection,
}

// Reason refines invalid property and fatal introspection failures.
type Reason string

const (
	ReasonNotFound         Reason = "not found"
	ReasonNotReadable      Reason = "not readable"
	ReasonNotWritable      Reason = "not writable"
	ReasonIndexOutOfBounds Reason = "index out of bounds"
	ReasonInvalidKey       Reason = "invalid index or key"
	ReasonMalformedPath    Reason = "malformed property path"
	ReasonNotNestable      Reason = "nested paths are not supported"
	ReasonNotIndexable     Reason = "value is not indexable"

	ReasonDuplicateProperty Reason = "property name claimed twice"
	ReasonTypeConflict      Reason = "getter and setter disagree on type"
	ReasonInvalidSignature  Reason = "accessor method has an unusable signature"
)

// Error is a single property access failure.
type Error struct {
	// Kind of the failure.
	Kind Kind
	// Owner is the type the property was looked up on, if known.
	Owner reflect.Type
	// Path is the full property path of the access.
	Path string
	// Segment is the offending part of Path, for nested failures.
	Segment string
	// Value is the value that failed to convert.
	Value any
	// Required is the type the value had to be converted to.
	Required reflect.Type
	// Converter names the custom converter that produced a bad result.
	Converter string
	// Reason refines invalid property failures.
	Reason Reason
	// Matches are property names close to an unknown one.
	Matches []string
	// Err is the underlying cause.
	Err error
}

// Error formats the failure.
func (e *Error) Error() string {
	var b strings.Builder

	switch e.Kind {
	case KindInvalidProperty:
		fmt.Fprintf(&b, "invalid property '%s'", e.Path)
		if e.Owner != nil {
			fmt.Fprintf(&b, " of type %s", e.Owner)
		}
		if e.Reason != "" {
			b.WriteString(": " + string(e.Reason))
		}
		if len(e.Matches) > 0 {
			fmt.Fprintf(&b, " (did you mean '%s'?)", strings.Join(e.Matches, "', '"))
		}

	case KindNullValueInNestedPath:
		fmt.Fprintf(&b, "null value in nested path '%s'", e.Path)
		if e.Segment != "" {
			fmt.Fprintf(&b, ": '%s' is nil", e.Segment)
		}

	case KindTypeMismatch:
		fmt.Fprintf(&b, "type mismatch for property '%s': cannot convert %s to %s", e.Path, describeValue(e.Value), typeName(e.Required))
		if e.Converter != "" {
			fmt.Fprintf(&b, ": converter %s returned an incompatible value", e.Converter)
		}

	case KindConversionNotSupported:
		fmt.Fprintf(&b, "conversion not supported for property '%s': %s to %s", e.Path, describeValue(e.Value), typeName(e.Required))
		if e.Converter != "" {
			fmt.Fprintf(&b, " by converter %s", e.Converter)
		}

	case KindFatalIntrospection:
		fmt.Fprintf(&b, "fatal introspection of type %s", typeName(e.Owner))
		if e.Path != "" {
			fmt.Fprintf(&b, " at property '%s'", e.Path)
		}
		if e.Reason != "" {
			b.WriteString(": " + string(e.Reason))
		}

	default:
		fmt.Fprintf(&b, "property access failure at '%s'", e.Path)
	}

	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}

	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := sentinels[e.Kind]
	return ok && target == sentinel
}

// KindOf classifies err. Composite failures report KindComposite.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}

	var composite *CompositeError
	if errors.As(err, &composite) {
		return KindComposite
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}

// ReasonOf returns the Reason of an invalid property failure, if any.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}

	return ""
}

// InvalidProperty builds a KindInvalidProperty failure.
func InvalidProperty(owner reflect.Type, path string, reason Reason, cause error) *Error {
	return &Error{Kind: KindInvalidProperty, Owner: owner, Path: path, Reason: reason, Err: cause}
}

// NullValueInNestedPath builds a KindNullValueInNestedPath failure.
func NullValueInNestedPath(owner reflect.Type, path, segment string) *Error {
	return &Error{Kind: KindNullValueInNestedPath, Owner: owner, Path: path, Segment: segment}
}

// FatalIntrospection builds a KindFatalIntrospection failure.
func FatalIntrospection(owner reflect.Type, property string, reason Reason) *Error {
	return &Error{Kind: KindFatalIntrospection, Owner: owner, Path: property, Reason: reason}
}

func describeValue(v any) string {
	if v == nil {
		return "<nil>"
	}

	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q (string)", s)
	}

	return fmt.Sprintf("%v (%T)", v, v)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
