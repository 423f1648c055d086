package convert_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propwire/propwire/convert"
	"github.com/propwire/propwire/diagnostic"
)

func TestTo(t *testing.T) {
	t.Parallel()

	s := convert.NewSimpleConverter()

	n, err := convert.To[int](s, "7")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	c, err := convert.To[Color](s, "Blue")
	require.NoError(t, err)
	assert.Equal(t, Blue, c)

	list, err := convert.To[[]string](s, "a, b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list)

	p, err := convert.To[*int](s, nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	stringer, err := convert.To[fmt.Stringer](s, "Color.Green")
	require.NoError(t, err)
	assert.Equal(t, Green, stringer)

	_, err = convert.To[bool](s, "maybe")
	assert.ErrorIs(t, err, diagnostic.ErrTypeMismatch)

	_, err = convert.To[int64](s, float64(1<<63))
	assert.ErrorIs(t, err, diagnostic.ErrTypeMismatch)

	_, err = convert.To[uint64](s, float64(1<<64))
	assert.ErrorIs(t, err, diagnostic.ErrTypeMismatch)
}

func TestSimpleConverter_Registry(t *testing.T) {
	t.Parallel()

	s := convert.NewSimpleConverter()
	s.Registry().Register(reflect.TypeFor[string](), convert.ConverterFunc(func(_ convert.Context, value any) (any, error) {
		return fmt.Sprintf("<%v>", value), nil
	}))

	got, err := s.Convert(5, reflect.TypeFor[string]())
	require.NoError(t, err)
	assert.Equal(t, "<5>", got)

	// registries are not shared between converters
	got, err = convert.NewSimpleConverter().Convert(5, reflect.TypeFor[string]())
	require.NoError(t, err)
	assert.Equal(t, "5", got)
}

func ExampleSimpleConverter() {
	s := convert.NewSimpleConverter()

	ports, _ := convert.To[[]uint16](s, "80, 443")
	fmt.Println(ports)

	limits, _ := convert.To[map[string]int](s, map[string]string{"cpu": "2"})
	fmt.Println(limits)

	_, err := convert.To[uint8](s, "300")
	fmt.Println(err)

	// Output:
	// [80 443]
	// map[cpu:2]
	// type mismatch for property '': cannot convert "300" (string) to uint8: value out of range: 300 does not fit uint8
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  reflect.Type
		want convert.DispatcherEnum
	}{
		{nil, convert.DispatcherUnknown},
		{reflect.TypeFor[int](), convert.DispatcherPrimitive},
		{reflect.TypeFor[Color](), convert.DispatcherPrimitive},
		{reflect.TypeFor[fmt.Stringer](), convert.DispatcherInterface},
		{reflect.TypeFor[[2]int](), convert.DispatcherArray},
		{reflect.TypeFor[[]int](), convert.DispatcherSlice},
		{reflect.TypeFor[map[string]int](), convert.DispatcherMap},
		{reflect.TypeFor[*int](), convert.DispatcherPointer},
		{reflect.TypeFor[point](), convert.DispatcherStruct},
		{reflect.TypeFor[chan int](), convert.DispatcherUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, convert.Dispatch(tt.typ))
		})
	}
}
