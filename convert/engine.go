package convert

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/propwire/propwire/diagnostic"
	"github.com/propwire/propwire/options"
	"github.com/propwire/propwire/primitive"
)

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	stringerType        = reflect.TypeFor[fmt.Stringer]()
)

// listSeparator splits string scalars converted to slices and arrays.
const listSeparator = ","

// Engine converts values using a registry of custom converters, the
// default converters and the built-in rules.
type Engine struct {
	registry   *Registry
	categories primitive.CategoryEnum
	logger     *zap.Logger
}

// NewEngine creates an engine over registry; a nil registry is replaced by
// an empty one. Only Categories and Logger of the options are used.
func NewEngine(registry *Registry, opts ...options.Option) *Engine {
	o := options.New(opts...)

	if registry == nil {
		registry = NewRegistry()
	}

	return &Engine{
		registry:   registry,
		categories: o.Categories,
		logger:     o.Logger,
	}
}

// Registry returns the custom converter registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Convert converts value to ctx.Required. A nil Required returns value
// unchanged. Values already assignable to Required are returned as is.
func (e *Engine) Convert(ctx Context, value any) (any, error) {
	if ctx.Required == nil {
		return value, nil
	}

	ctx.Categories = e.categories

	out, err := e.convert(ctx, value)
	if err != nil {
		return nil, err
	}

	if !out.IsValid() {
		return nil, nil
	}

	return out.Interface(), nil
}

// ConvertValue is Convert for reflect values: the result is always valid and
// assignable to ctx.Required.
func (e *Engine) ConvertValue(ctx Context, value any) (reflect.Value, error) {
	ctx.Categories = e.categories

	out, err := e.convert(ctx, value)
	if err != nil {
		return reflect.Value{}, err
	}

	if !out.IsValid() {
		return reflect.Zero(ctx.Required), nil
	}

	return out, nil
}

func (e *Engine) convert(ctx Context, value any) (reflect.Value, error) {
	req := ctx.Required

	if conv, name, ok := e.registry.Find(ctx.Path, req); ok {
		return e.custom(ctx, value, conv, name)
	}

	if value == nil {
		return reflect.Zero(req), nil
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(req) {
		return v, nil
	}

	if conv, _, ok := defaults.Find("", req); ok {
		out, err := conv.Convert(ctx, value)
		switch {
		case err == nil:
			return e.assign(ctx, value, reflect.ValueOf(out), "")
		case !errors.Is(err, ErrUnsupported):
			return reflect.Value{}, mismatch(ctx, value, "", err)
		}
	}

	switch Dispatch(req) {
	case DispatcherInterface:
		if v.Kind() == reflect.String {
			if out, ok := qualifiedEnum(req, v.String()); ok {
				return out, nil
			}
		}

		return reflect.Value{}, mismatch(ctx, value, "", nil)

	case DispatcherArray:
		return e.convertArray(ctx, v)

	case DispatcherSlice:
		return e.convertSlice(ctx, v)

	case DispatcherMap:
		return e.convertMap(ctx, v)

	case DispatcherPointer:
		return e.convertPointer(ctx, v)

	default:
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Zero(req), nil
			}

			return e.convert(ctx, v.Elem().Interface())
		}

		return e.convertScalar(ctx, v)
	}
}

// custom applies a registered converter.
func (e *Engine) custom(ctx Context, value any, conv Converter, name string) (reflect.Value, error) {
	out, err := conv.Convert(ctx, value)
	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			return reflect.Value{}, &diagnostic.Error{
				Kind:      diagnostic.KindConversionNotSupported,
				Path:      ctx.Path,
				Value:     value,
				Required:  ctx.Required,
				Converter: name,
				Err:       err,
			}
		}

		return reflect.Value{}, mismatch(ctx, value, "", err)
	}

	e.logger.Debug("custom converter applied",
		zap.String("path", ctx.Path),
		zap.String("converter", name),
		zap.Stringer("required", ctx.Required))

	return e.assign(ctx, value, reflect.ValueOf(out), name)
}

// assign checks that a converter result fits the required type.
func (e *Engine) assign(ctx Context, value any, out reflect.Value, converter string) (reflect.Value, error) {
	req := ctx.Required

	switch {
	case !out.IsValid():
		return reflect.Zero(req), nil
	case out.Type().AssignableTo(req):
		return out, nil
	case out.Type().ConvertibleTo(req) && out.Kind() == req.Kind() && primitive.Underlying(req) != 0:
		return out.Convert(req), nil
	}

	return reflect.Value{}, mismatch(ctx, value, converter, nil)
}

func (e *Engine) convertPointer(ctx Context, v reflect.Value) (reflect.Value, error) {
	req := ctx.Required

	source := v
	if v.Kind() == reflect.Pointer {
		switch {
		case v.IsNil():
			return reflect.Zero(req), nil
		case v.Type().Elem().AssignableTo(req):
			return v.Elem(), nil
		}

		source = v.Elem()
	}

	elem, err := e.convert(ctx.nested(ctx.Path, req.Elem()), source.Interface())
	if err != nil {
		return reflect.Value{}, err
	}

	ptr := reflect.New(req.Elem())
	if elem.IsValid() {
		ptr.Elem().Set(elem)
	}

	return ptr, nil
}

func (e *Engine) convertScalar(ctx Context, v reflect.Value) (reflect.Value, error) {
	req := ctx.Required
	value := v.Interface()

	if v.Kind() == reflect.String {
		if enum, ok := lookupEnum(req); ok {
			out, err := enum.parse(v.String())
			if err != nil {
				return reflect.Value{}, mismatch(ctx, value, "", err)
			}

			return out, nil
		}
	}

	if v.Kind() == reflect.String && !isBuiltin(req) && reflect.PointerTo(req).Implements(textUnmarshalerType) {
		ptr := reflect.New(req)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(v.String())); err != nil {
			return reflect.Value{}, mismatch(ctx, value, "", err)
		}

		return ptr.Elem(), nil
	}

	out, err := primitive.Convert(v, req, ctx.Categories)
	switch {
	case err == nil:
		return out, nil
	case !errors.Is(err, primitive.ErrUnsupportedPair):
		return reflect.Value{}, mismatch(ctx, value, "", err)
	}

	if req.Kind() == reflect.String {
		if text, ok, err := formatText(v); ok {
			if err != nil {
				return reflect.Value{}, mismatch(ctx, value, "", err)
			}

			return reflect.ValueOf(text).Convert(req), nil
		}
	}

	if v.Kind() == req.Kind() && v.Type().ConvertibleTo(req) {
		return v.Convert(req), nil
	}

	return reflect.Value{}, mismatch(ctx, value, "", nil)
}

// isBuiltin reports whether t is a predeclared type or a time type, whose
// text forms are governed by the conversion categories.
func isBuiltin(t reflect.Type) bool {
	kind := primitive.FromReflectType(t)
	return kind != 0 && kind != primitive.KindPrimitiveEnum
}

// formatText renders v through encoding.TextMarshaler or fmt.Stringer,
// including methods declared on the pointer receiver.
func formatText(v reflect.Value) (string, bool, error) {
	if !v.Type().Implements(textMarshalerType) && !v.Type().Implements(stringerType) {
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		v = ptr
	}

	switch x := v.Interface().(type) {
	case encoding.TextMarshaler:
		text, err := x.MarshalText()
		return string(text), true, err
	case fmt.Stringer:
		return x.String(), true, nil
	default:
		return "", false, nil
	}
}

// elements returns the source elements of a container conversion: the
// elements of slices and arrays, the comma separated parts of a string,
// or the value itself as a single element.
func elements(v reflect.Value) []reflect.Value {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		result := make([]reflect.Value, v.Len())
		for i := range result {
			result[i] = v.Index(i)
		}

		return result

	case reflect.String:
		s := strings.TrimSpace(v.String())
		if s == "" {
			return nil
		}

		parts := strings.Split(s, listSeparator)

		result := make([]reflect.Value, len(parts))
		for i, part := range parts {
			result[i] = reflect.ValueOf(strings.TrimSpace(part))
		}

		return result

	default:
		return []reflect.Value{v}
	}
}

func (e *Engine) convertElements(ctx Context, source []reflect.Value, elemType reflect.Type, into func(i int, out reflect.Value)) error {
	for i, elem := range source {
		var value any
		if elem.IsValid() && (elem.Kind() != reflect.Interface || !elem.IsNil()) {
			value = elem.Interface()
		}

		out, err := e.convert(ctx.nested(fmt.Sprintf("%s[%d]", ctx.Path, i), elemType), value)
		if err != nil {
			return err
		}

		if out.IsValid() {
			into(i, out)
		}
	}

	return nil
}

func (e *Engine) convertSlice(ctx Context, v reflect.Value) (reflect.Value, error) {
	req := ctx.Required
	if v.Kind() == reflect.Map {
		return reflect.Value{}, mismatch(ctx, v.Interface(), "", nil)
	}

	source := elements(v)

	out := reflect.MakeSlice(req, len(source), len(source))
	err := e.convertElements(ctx, source, req.Elem(), func(i int, elem reflect.Value) {
		out.Index(i).Set(elem)
	})
	if err != nil {
		return reflect.Value{}, err
	}

	return out, nil
}

func (e *Engine) convertArray(ctx Context, v reflect.Value) (reflect.Value, error) {
	req := ctx.Required
	if v.Kind() == reflect.Map {
		return reflect.Value{}, mismatch(ctx, v.Interface(), "", nil)
	}

	source := elements(v)

	category := primitive.CategorySafeArray
	if len(source) != req.Len() {
		category = primitive.CategoryUnsafeArray
	}

	if !ctx.Categories.Has(category) {
		cause := fmt.Errorf("%w: %s (%d elements into %s)", primitive.ErrCategoryDisabled, category, len(source), req)
		return reflect.Value{}, mismatch(ctx, v.Interface(), "", cause)
	}

	if len(source) > req.Len() {
		source = source[:req.Len()]
	}

	out := reflect.New(req).Elem()
	err := e.convertElements(ctx, source, req.Elem(), func(i int, elem reflect.Value) {
		out.Index(i).Set(elem)
	})
	if err != nil {
		return reflect.Value{}, err
	}

	return out, nil
}

func (e *Engine) convertMap(ctx Context, v reflect.Value) (reflect.Value, error) {
	req := ctx.Required
	if v.Kind() != reflect.Map {
		return reflect.Value{}, mismatch(ctx, v.Interface(), "", nil)
	}

	out := reflect.MakeMapWithSize(req, v.Len())

	iter := v.MapRange()
	for iter.Next() {
		keyPath := fmt.Sprintf("%s[%v]", ctx.Path, iter.Key().Interface())

		key, err := e.convert(ctx.nested(keyPath, req.Key()), iter.Key().Interface())
		if err != nil {
			return reflect.Value{}, err
		}

		var value any
		if elem := iter.Value(); elem.Kind() != reflect.Interface || !elem.IsNil() {
			value = elem.Interface()
		}

		elem, err := e.convert(ctx.nested(keyPath, req.Elem()), value)
		if err != nil {
			return reflect.Value{}, err
		}

		if !key.IsValid() {
			key = reflect.Zero(req.Key())
		}

		if !elem.IsValid() {
			elem = reflect.Zero(req.Elem())
		}

		out.SetMapIndex(key, elem)
	}

	return out, nil
}

func mismatch(ctx Context, value any, converter string, cause error) error {
	return &diagnostic.Error{
		Kind:      diagnostic.KindTypeMismatch,
		Path:      ctx.Path,
		Value:     value,
		Required:  ctx.Required,
		Converter: converter,
		Err:       cause,
	}
}
