package accessor

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/propwire/propwire/convert"
	"github.com/propwire/propwire/diagnostic"
	"github.com/propwire/propwire/meta"
	"github.com/propwire/propwire/options"
	"github.com/propwire/propwire/propath"
)

var ErrInvalidTarget = errors.New("target must be a non-nil pointer")

// PropertyAccessor reads and writes properties of a wrapped target.
type PropertyAccessor interface {
	// IsReadable returns true if the path can be read.
	IsReadable(path string) bool
	// IsWritable returns true if the path can be written. The target is
	// not modified.
	IsWritable(path string) bool
	// PropertyType returns the declared type of the property at path.
	PropertyType(path string) (reflect.Type, error)
	// Value reads the property at path.
	Value(path string) (any, error)
	// SetValue converts value to the property type and writes it.
	SetValue(path string, value any) error
	// SetValues writes a batch of values, see BeanAccessor.SetValues.
	SetValues(values []PropertyValue) (*diagnostic.Report, error)
	// Registry returns the custom converters of the accessor.
	Registry() *convert.Registry
}

var (
	_ PropertyAccessor = (*BeanAccessor)(nil)
	_ PropertyAccessor = (*FieldAccessor)(nil)
)

// BeanAccessor accesses properties through getter and setter methods,
// falling back to exported fields, and supports nested paths.
type BeanAccessor struct {
	base
}

// NewBeanAccessor wraps target, a non-nil pointer. Old values are not
// extracted for converters unless options.WithExtractOldValue(true) is
// given, so getters only run when a path is read or traversed.
func NewBeanAccessor(target any, opts ...options.Option) (*BeanAccessor, error) {
	b, err := newBase(target, meta.StyleMethods, true, false, opts)
	if err != nil {
		return nil, err
	}

	return &BeanAccessor{base: b}, nil
}

// FieldAccessor accesses the exported fields of its target directly.
// Keyed paths ("tags[0]", "labels[env]") are supported, dotted paths are not.
type FieldAccessor struct {
	base
}

// NewFieldAccessor wraps target, a non-nil pointer. Field reads have no
// side effects, so old values are extracted for converters by default.
func NewFieldAccessor(target any, opts ...options.Option) (*FieldAccessor, error) {
	b, err := newBase(target, meta.StyleFields, false, true, opts)
	if err != nil {
		return nil, err
	}

	return &FieldAccessor{base: b}, nil
}

type base struct {
	root     reflect.Value
	style    meta.Style
	nested   bool
	extract  bool
	opts     options.Options
	cache    *meta.Cache
	registry *convert.Registry
	engine   *convert.Engine
	logger   *zap.Logger
}

func newBase(target any, style meta.Style, nested, extract bool, opts []options.Option) (base, error) {
	root := reflect.ValueOf(target)
	if !root.IsValid() || root.Kind() != reflect.Pointer || root.IsNil() {
		return base{}, fmt.Errorf("%w, got %T", ErrInvalidTarget, target)
	}

	o := options.New(opts...)
	registry := convert.NewRegistry()

	return base{
		root:     root,
		style:    style,
		nested:   nested,
		extract:  o.ExtractOldValue(extract),
		opts:     o,
		cache:    meta.Default,
		registry: registry,
		engine:   convert.NewEngine(registry, options.WithCategories(o.Categories), options.WithLogger(o.Logger)),
		logger:   o.Logger,
	}, nil
}

// Target returns the wrapped pointer.
func (a *base) Target() any {
	return a.root.Interface()
}

// Registry returns the custom converters of the accessor.
func (a *base) Registry() *convert.Registry {
	return a.registry
}

// Options returns the configuration of the accessor.
func (a *base) Options() options.Options {
	return a.opts
}

// Introspection returns the property metadata of the target type.
func (a *base) Introspection() (*meta.Introspection, error) {
	return a.cache.ForType(a.root.Type(), a.style)
}

// Value reads the property at path. Missing map entries read as nil;
// nil intermediates fail with a null value in nested path error.
func (a *base) Value(path string) (any, error) {
	p, err := a.parse(path)
	if err != nil {
		return nil, err
	}

	s, err := a.resolve(steps(p), p.String(), modeRead)
	if err != nil {
		return nil, err
	}

	if s.kind == slotProperty && !s.desc.Readable() {
		return nil, diagnostic.InvalidProperty(s.desc.Owner, p.String(), diagnostic.ReasonNotReadable, nil)
	}

	v, err := s.get()
	if err != nil {
		return nil, a.accessError(s, p.String(), nil, err)
	}

	if !v.IsValid() {
		return nil, nil
	}

	return v.Interface(), nil
}

// SetValue converts value to the declared type of the property at path and
// writes it, growing nil intermediates when AutoGrowNestedPaths is set.
func (a *base) SetValue(path string, value any) error {
	p, err := a.parse(path)
	if err != nil {
		return err
	}

	full := p.String()

	s, err := a.resolve(steps(p), full, modeWrite)
	if err != nil {
		return err
	}

	if s.kind == slotProperty && !s.desc.Writable() {
		return diagnostic.InvalidProperty(s.desc.Owner, full, diagnostic.ReasonNotWritable, nil)
	}

	ctx := convert.For(full, s.typ)
	if a.extract && (s.kind != slotProperty || s.desc.Readable()) {
		if old, err := s.get(); err == nil && old.IsValid() && !isNil(old) {
			ctx.OldValue = old.Interface()
		}
	}

	converted, err := a.engine.ConvertValue(ctx, value)
	if err != nil {
		return err
	}

	if err := s.set(converted); err != nil {
		return a.accessError(s, full, value, err)
	}

	return nil
}

// IsReadable returns true if Value would succeed for path.
func (a *base) IsReadable(path string) bool {
	_, err := a.Value(path)
	return err == nil
}

// IsWritable returns true if the property at path can be written. The
// check follows declared types, so nil intermediates are not inspected.
func (a *base) IsWritable(path string) bool {
	p, err := a.parse(path)
	if err != nil {
		return false
	}

	t, d, err := a.typeOf(p)
	if err != nil {
		return false
	}

	if d != nil {
		return d.Writable()
	}

	return t != nil
}

// PropertyType returns the declared type of the property at path without
// reading it. Interface typed intermediates are resolved from their value.
func (a *base) PropertyType(path string) (reflect.Type, error) {
	p, err := a.parse(path)
	if err != nil {
		return nil, err
	}

	t, _, err := a.typeOf(p)

	return t, err
}

func (a *base) parse(path string) (propath.Path, error) {
	p, err := propath.Parse(path)
	if err != nil {
		return propath.Path{}, err
	}

	if !a.nested && p.IsNested() {
		return propath.Path{}, diagnostic.InvalidProperty(a.root.Type().Elem(), p.String(), diagnostic.ReasonNotNestable, nil)
	}

	return p, nil
}

// accessError classifies a failure to read or write slot s.
func (a *base) accessError(s *slot, path string, value any, err error) error {
	var derr *diagnostic.Error
	if errors.As(err, &derr) {
		return err
	}

	owner := a.root.Type().Elem()
	if s.kind == slotProperty {
		owner = s.desc.Owner
	}

	switch {
	case errors.Is(err, meta.ErrNotWritable):
		return diagnostic.InvalidProperty(owner, path, diagnostic.ReasonNotWritable, err)
	case errors.Is(err, meta.ErrNotReadable):
		return diagnostic.InvalidProperty(owner, path, diagnostic.ReasonNotReadable, err)
	case errors.Is(err, meta.ErrNilTarget), errors.Is(err, errNilValue):
		return diagnostic.NullValueInNestedPath(a.root.Type().Elem(), path, s.path)
	}

	// a setter rejected the value
	return &diagnostic.Error{
		Kind:     diagnostic.KindTypeMismatch,
		Owner:    owner,
		Path:     path,
		Value:    value,
		Required: s.typ,
		Err:      err,
	}
}
