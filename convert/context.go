package convert

import (
	"errors"
	"reflect"

	"github.com/propwire/propwire/primitive"
)

// ErrUnsupported is returned (possibly wrapped) by converters that cannot
// handle a value. Custom converters failing with it are reported as
// ConversionNotSupported; default converters failing with it fall through
// to the built-in rules.
var ErrUnsupported = errors.New("conversion not supported")

// Context describes a single conversion call.
type Context struct {
	// Path is the property path being written, empty for standalone conversions.
	Path string
	// OldValue is the current property value when it was extracted.
	OldValue any
	// Required is the type the value must be converted to.
	Required reflect.Type
	// Elem and Key are container element hints.
	Elem reflect.Type
	Key  reflect.Type
	// Categories are the enabled primitive conversion categories.
	Categories primitive.CategoryEnum
}

// For returns a context for required with container hints derived from it.
func For(path string, required reflect.Type) Context {
	ctx := Context{Path: path, Required: required, Categories: primitive.CategoryAll}
	ctx.hint()

	return ctx
}

func (c *Context) hint() {
	if c.Required == nil {
		return
	}

	switch c.Required.Kind() {
	case reflect.Map:
		c.Key, c.Elem = c.Required.Key(), c.Required.Elem()
	case reflect.Slice, reflect.Array, reflect.Pointer:
		c.Key, c.Elem = nil, c.Required.Elem()
	default:
		c.Key, c.Elem = nil, nil
	}
}

// nested returns the context of an element at path converted to required.
func (c Context) nested(path string, required reflect.Type) Context {
	n := Context{Path: path, Required: required, Categories: c.Categories}
	n.hint()

	return n
}

// Converter converts a value for a context.
type Converter interface {
	Convert(ctx Context, value any) (any, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx Context, value any) (any, error)

// Convert calls f.
func (f ConverterFunc) Convert(ctx Context, value any) (any, error) {
	return f(ctx, value)
}
