package meta

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/propwire/propwire/diagnostic"
)

var (
	ErrNilType     = errors.New("nil type")
	ErrNilTarget   = errors.New("nil target")
	ErrNotReadable = errors.New("property is not readable")
	ErrNotWritable = errors.New("property is not writable")

	errConflict = errors.New("conflicting members")
)

// Style selects how properties are discovered.
type Style int

const (
	// StyleMethods discovers getter/setter methods, falling back to fields.
	StyleMethods Style = iota
	// StyleFields discovers exported fields only.
	StyleFields
)

// String returns a human-readable style name.
func (s Style) String() string {
	switch s {
	case StyleMethods:
		return "methods"
	case StyleFields:
		return "fields"
	default:
		return "unknown"
	}
}

// Introspection is the property metadata of one type in one style.
// It is read-only after construction and safe for concurrent use.
type Introspection struct {
	// Type is the introspected type, never a pointer.
	Type reflect.Type
	// Style used to discover properties.
	Style Style
	// Scope is the package path of Type.
	Scope string
	// Durable is true when the entry belongs to an accepted scope, the
	// standard library or an unnamed type.
	Durable bool

	properties map[string]*PropertyDescriptor
	names      []string
}

// Property looks up a property by its name or its capitalized Go name.
func (i *Introspection) Property(name string) (*PropertyDescriptor, bool) {
	if d, ok := i.properties[name]; ok {
		return d, true
	}

	d, ok := i.properties[Decapitalize(name)]

	return d, ok
}

// Names returns the property names in sorted order.
func (i *Introspection) Names() []string {
	return append([]string(nil), i.names...)
}

// Properties returns the descriptors sorted by name.
func (i *Introspection) Properties() []*PropertyDescriptor {
	result := make([]*PropertyDescriptor, 0, len(i.names))
	for _, name := range i.names {
		result = append(result, i.properties[name])
	}

	return result
}

// Len returns the number of properties.
func (i *Introspection) Len() int {
	return len(i.names)
}

// introspect builds the introspection of t, which must not be a pointer.
func introspect(t reflect.Type, style Style) (*Introspection, error) {
	b := builder{owner: t, properties: map[string]*PropertyDescriptor{}}

	if style == StyleMethods {
		if err := b.collectMethods(); err != nil {
			return nil, err
		}
	}

	if t.Kind() == reflect.Struct {
		if err := b.collectFields(style == StyleMethods); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(b.properties))
	for name := range b.properties {
		names = append(names, name)
	}

	sort.Strings(names)

	return &Introspection{
		Type:       t,
		Style:      style,
		Scope:      t.PkgPath(),
		properties: b.properties,
		names:      names,
	}, nil
}

type builder struct {
	owner      reflect.Type
	properties map[string]*PropertyDescriptor
}

type methodInfo struct {
	index int
	name  string
	typ   reflect.Type
	err   bool
}

func (b *builder) collectMethods() error {
	ptr := reflect.PointerTo(b.owner)

	getters := map[string]methodInfo{}
	plain := map[string]methodInfo{}
	setters := map[string]methodInfo{}
	broken := map[string]string{}

	for i := range ptr.NumMethod() {
		m := ptr.Method(i)
		name, role := accessorName(m.Name)

		switch role {
		case roleSetter:
			if setter, ok := setterShape(m, i); ok {
				setters[name] = setter
			} else {
				broken[name] = m.Name
			}

		case roleGetter, roleBoolGetter:
			getter, ok := getterShape(m, i)
			if !ok || (role == roleBoolGetter && getter.typ.Kind() != reflect.Bool) {
				continue
			}

			if prev, dup := getters[name]; dup {
				return b.fatal(name, diagnostic.ReasonDuplicateProperty, prev.name, m.Name)
			}

			getters[name] = getter

		case rolePlain:
			if getter, ok := getterShape(m, i); ok {
				plain[name] = getter
			}
		}
	}

	// Name() counts as a getter when paired with a setter or backed by an
	// unexported field of the same name.
	for name, getter := range plain {
		_, hasSetter := setters[name]
		if !hasSetter && !b.hasHiddenField(name) {
			continue
		}

		if prev, dup := getters[name]; dup {
			return b.fatal(name, diagnostic.ReasonDuplicateProperty, prev.name, getter.name)
		}

		getters[name] = getter
	}

	for name, method := range broken {
		if _, ok := getters[name]; ok {
			return b.fatal(name, diagnostic.ReasonInvalidSignature, method)
		}
	}

	for name, getter := range getters {
		d := newDescriptor(b.owner, name, getter.typ)
		d.Getter, d.getterName = getter.index, getter.name
		b.properties[name] = d
	}

	for name, setter := range setters {
		d, ok := b.properties[name]
		switch {
		case !ok:
			d = newDescriptor(b.owner, name, setter.typ)
			b.properties[name] = d
		case d.Type != setter.typ:
			return b.fatal(name, diagnostic.ReasonTypeConflict, d.getterName, setter.name)
		}

		d.Setter, d.setterName, d.setterErr = setter.index, setter.name, setter.err
	}

	return nil
}

// collectFields adds exported fields. With fallback set, properties already
// claimed by methods win over fields.
func (b *builder) collectFields(fallback bool) error {
	claimed := map[string]string{}

	for _, f := range reflect.VisibleFields(b.owner) {
		if !f.IsExported() || isEmbeddedStruct(f) {
			continue
		}

		// skip shadowed and ambiguous promoted fields
		if visible, ok := b.owner.FieldByName(f.Name); !ok || !sameIndex(visible.Index, f.Index) {
			continue
		}

		name, hidden := fieldName(f)
		if hidden {
			continue
		}

		if prev, dup := claimed[name]; dup {
			return b.fatal(name, diagnostic.ReasonDuplicateProperty, prev, f.Name)
		}

		claimed[name] = f.Name

		if d, ok := b.properties[name]; ok && fallback {
			if d.FieldIndex == nil && d.Type == f.Type {
				d.FieldIndex = f.Index
			}

			continue
		}

		d := newDescriptor(b.owner, name, f.Type)
		d.FieldIndex = f.Index
		b.properties[name] = d
	}

	return nil
}

func (b *builder) fatal(name string, reason diagnostic.Reason, members ...string) error {
	err := diagnostic.FatalIntrospection(b.owner, name, reason)
	err.Err = fmt.Errorf("%w: %s", errConflict, strings.Join(members, ", "))

	return err
}

func (b *builder) hasHiddenField(name string) bool {
	if b.owner.Kind() != reflect.Struct {
		return false
	}

	for i := range b.owner.NumField() {
		f := b.owner.Field(i)
		if !f.IsExported() && f.Name == name {
			return true
		}
	}

	return false
}

func getterShape(m reflect.Method, index int) (methodInfo, bool) {
	if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
		return methodInfo{}, false
	}

	return methodInfo{index: index, name: m.Name, typ: m.Type.Out(0)}, true
}

func setterShape(m reflect.Method, index int) (methodInfo, bool) {
	if m.Type.NumIn() != 2 || m.Type.IsVariadic() {
		return methodInfo{}, false
	}

	switch m.Type.NumOut() {
	case 0:
		return methodInfo{index: index, name: m.Name, typ: m.Type.In(1)}, true
	case 1:
		if m.Type.Out(0) == errorType {
			return methodInfo{index: index, name: m.Name, typ: m.Type.In(1), err: true}, true
		}
	}

	return methodInfo{}, false
}

func isEmbeddedStruct(f reflect.StructField) bool {
	if !f.Anonymous {
		return false
	}

	t := f.Type
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Kind() == reflect.Struct
}

func sameIndex(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
