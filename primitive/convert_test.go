package primitive_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propwire/propwire/primitive"
)

type level int

func (l level) IsValid() bool { return l >= 0 && l < 3 }
func (l level) String() string { return [...]string{"low", "mid", "high"}[l] }

type flag bool

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  any
		dst  reflect.Type
		want any
	}{
		{"text to int", "42", reflect.TypeFor[int](), 42},
		{"text to uint8 trimmed", " 7 ", reflect.TypeFor[uint8](), uint8(7)},
		{"text to float", "2.5", reflect.TypeFor[float64](), 2.5},
		{"widening", int8(5), reflect.TypeFor[int64](), int64(5)},
		{"float truncated", 3.9, reflect.TypeFor[int](), 3},
		{"int to bool", 1, reflect.TypeFor[bool](), true},
		{"bool to int", true, reflect.TypeFor[int](), 1},
		{"textual bool", "Yes", reflect.TypeFor[bool](), true},
		{"bool to text", false, reflect.TypeFor[string](), "false"},
		{"float to text", 1.5, reflect.TypeFor[string](), "1.5"},
		{"text to duration", "2h45m", reflect.TypeFor[time.Duration](), 2*time.Hour + 45*time.Minute},
		{"duration to text", 90 * time.Second, reflect.TypeFor[string](), "1m30s"},
		{"seconds to duration", 1.5, reflect.TypeFor[time.Duration](), 1500 * time.Millisecond},
		{"duration to seconds", 2 * time.Second, reflect.TypeFor[float64](), 2.0},
		{"nanoseconds to duration", int64(1000), reflect.TypeFor[time.Duration](), time.Microsecond},
		{"int to enum", 2, reflect.TypeFor[level](), level(2)},
		{"enum to text", level(1), reflect.TypeFor[string](), "mid"},
		{"same kind", true, reflect.TypeFor[flag](), flag(true)},
		{"lowest int64 float", float64(-1 << 63), reflect.TypeFor[int64](), int64(-1 << 63)},
		{"float beyond int64 to uint64", float64(1 << 63), reflect.TypeFor[uint64](), uint64(1 << 63)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := primitive.Convert(reflect.ValueOf(tt.src), tt.dst, primitive.CategoryAll)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Interface())
		})
	}
}

func TestConvert_Time(t *testing.T) {
	t.Parallel()

	got, err := primitive.Convert(reflect.ValueOf("2024-01-02T03:04:05Z"), reflect.TypeFor[time.Time](), primitive.CategoryAll)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Equal(got.Interface().(time.Time)))

	got, err = primitive.Convert(reflect.ValueOf(int64(1700000000)), reflect.TypeFor[time.Time](), primitive.CategoryAll)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), got.Interface().(time.Time).Unix())

	got, err = primitive.Convert(reflect.ValueOf(time.Unix(60, 0)), reflect.TypeFor[int](), primitive.CategoryAll)
	require.NoError(t, err)
	assert.Equal(t, 60, got.Interface())
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     any
		dst     reflect.Type
		allowed primitive.CategoryEnum
		target  error
	}{
		{"overflow", "300", reflect.TypeFor[uint8](), primitive.CategoryAll, primitive.ErrOutOfRange},
		{"narrowing overflow", 300, reflect.TypeFor[int8](), primitive.CategoryAll, primitive.ErrOutOfRange},
		{"negative to unsigned", -1, reflect.TypeFor[uint](), primitive.CategoryAll, primitive.ErrOutOfRange},
		{"float at int64 bound", float64(1 << 63), reflect.TypeFor[int64](), primitive.CategoryAll, primitive.ErrOutOfRange},
		{"float at uint64 bound", float64(1 << 64), reflect.TypeFor[uint64](), primitive.CategoryAll, primitive.ErrOutOfRange},
		{"negative float to unsigned", -1.0, reflect.TypeFor[uint64](), primitive.CategoryAll, primitive.ErrOutOfRange},
		{"seconds beyond duration", 1e10, reflect.TypeFor[time.Duration](), primitive.CategoryAll, primitive.ErrOutOfRange},
		{"disabled category", "42", reflect.TypeFor[int](), primitive.CategorySafeNumber, primitive.ErrCategoryDisabled},
		{"unsafe disabled", 3.9, reflect.TypeFor[int](), primitive.CategorySafeNumber, primitive.ErrCategoryDisabled},
		{"unsupported pair", struct{}{}, reflect.TypeFor[int](), primitive.CategoryAll, primitive.ErrUnsupportedPair},
		{"invalid enum", 5, reflect.TypeFor[level](), primitive.CategoryAll, primitive.ErrInvalidEnum},
		{"enum check disabled", 1, reflect.TypeFor[level](), primitive.CategorySafeNumber, primitive.ErrCategoryDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := primitive.Convert(reflect.ValueOf(tt.src), tt.dst, tt.allowed)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestConvert_ParseFailures(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		src string
		dst reflect.Type
	}{
		{"abc", reflect.TypeFor[int]()},
		{"maybe", reflect.TypeFor[bool]()},
		{"soon", reflect.TypeFor[time.Duration]()},
		{"yesterday", reflect.TypeFor[time.Time]()},
	} {
		_, err := primitive.Convert(reflect.ValueOf(tc.src), tc.dst, primitive.CategoryAll)
		require.Error(t, err, tc.src)
		assert.NotErrorIs(t, err, primitive.ErrUnsupportedPair, tc.src)
	}

	_, err := primitive.Convert(reflect.ValueOf(2), reflect.TypeFor[bool](), primitive.CategoryAll)
	assert.ErrorContains(t, err, "only numbers 0 and 1")

	_, err = primitive.Convert(reflect.Value{}, reflect.TypeFor[int](), primitive.CategoryAll)
	assert.ErrorIs(t, err, primitive.ErrUnsupportedPair)
}

func TestSupports(t *testing.T) {
	t.Parallel()

	assert.True(t, primitive.Supports(reflect.TypeFor[string](), reflect.TypeFor[int]()))
	assert.True(t, primitive.Supports(reflect.TypeFor[bool](), reflect.TypeFor[flag]()))
	assert.True(t, primitive.Supports(reflect.TypeFor[float32](), reflect.TypeFor[time.Duration]()))
	assert.False(t, primitive.Supports(reflect.TypeFor[struct{}](), reflect.TypeFor[int]()))
	assert.False(t, primitive.Supports(reflect.TypeFor[uint64](), reflect.TypeFor[time.Duration]()))
}
