package convert

import (
	"fmt"
	"reflect"

	"github.com/propwire/propwire/options"
)

// SimpleConverter converts standalone values, outside of any property.
// It owns its registry.
type SimpleConverter struct {
	engine *Engine
}

// NewSimpleConverter creates a converter with an empty registry.
func NewSimpleConverter(opts ...options.Option) *SimpleConverter {
	return &SimpleConverter{engine: NewEngine(NewRegistry(), opts...)}
}

// Registry returns the custom converter registry.
func (s *SimpleConverter) Registry() *Registry {
	return s.engine.Registry()
}

// Convert converts value to t.
func (s *SimpleConverter) Convert(value any, t reflect.Type) (any, error) {
	ctx := Context{Required: t}
	ctx.hint()

	return s.engine.Convert(ctx, value)
}

// To converts value to T.
func To[T any](s *SimpleConverter, value any) (T, error) {
	var result T

	out, err := s.Convert(value, reflect.TypeFor[T]())
	if err != nil || out == nil {
		return result, err
	}

	rv := reflect.ValueOf(out)
	if !rv.Type().AssignableTo(reflect.TypeFor[T]()) {
		return result, fmt.Errorf("converted value %T is not %s", out, reflect.TypeFor[T]())
	}

	reflect.ValueOf(&result).Elem().Set(rv)

	return result, nil
}
