package meta

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeFor[error]()

// PropertyDescriptor describes one named property of a type and how to
// read or write it. Descriptors are immutable once built.
type PropertyDescriptor struct {
	// Name is unique within the owning type.
	Name string
	// Owner is the introspected type.
	Owner reflect.Type
	// Type is the declared property type.
	Type reflect.Type
	// ElemType is the element type of slice, array, map and pointer
	// properties, resolved from the instantiated owner type.
	ElemType reflect.Type
	// KeyType is the key type of map properties.
	KeyType reflect.Type

	// Getter and Setter are method indexes on the pointer method set, -1 if absent.
	Getter int
	Setter int
	// FieldIndex locates a backing exported field, nil if absent.
	FieldIndex []int

	getterName string
	setterName string
	setterErr  bool
}

func newDescriptor(owner reflect.Type, name string, typ reflect.Type) *PropertyDescriptor {
	d := &PropertyDescriptor{
		Name:   name,
		Owner:  owner,
		Type:   typ,
		Getter: -1,
		Setter: -1,
	}

	switch typ.Kind() {
	case reflect.Map:
		d.KeyType = typ.Key()
		d.ElemType = typ.Elem()
	case reflect.Slice, reflect.Array, reflect.Pointer:
		d.ElemType = typ.Elem()
	default:
	}

	return d
}

// Readable returns true if a getter or a field backs the property.
func (d *PropertyDescriptor) Readable() bool {
	return d.Getter >= 0 || d.FieldIndex != nil
}

// Writable returns true if a setter or a field backs the property.
func (d *PropertyDescriptor) Writable() bool {
	return d.Setter >= 0 || d.FieldIndex != nil
}

// IsField returns true if the property is backed by a field only.
func (d *PropertyDescriptor) IsField() bool {
	return d.Getter < 0 && d.Setter < 0 && d.FieldIndex != nil
}

// GetterName returns the getter method name, if any.
func (d *PropertyDescriptor) GetterName() string {
	return d.getterName
}

// SetterName returns the setter method name, if any.
func (d *PropertyDescriptor) SetterName() string {
	return d.setterName
}

// Get reads the property from target, a value of the owner type. Getters
// run on an addressable copy when target is not addressable.
func (d *PropertyDescriptor) Get(target reflect.Value) (reflect.Value, error) {
	target = d.deref(target)
	if !target.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: nil %s", ErrNilTarget, d.Owner)
	}

	if d.Getter >= 0 {
		if !target.CanAddr() {
			tmp := reflect.New(d.Owner).Elem()
			tmp.Set(target)
			target = tmp
		}

		return target.Addr().Method(d.Getter).Call(nil)[0], nil
	}

	if d.FieldIndex == nil {
		return reflect.Value{}, ErrNotReadable
	}

	field, err := target.FieldByIndexErr(d.FieldIndex)
	if err != nil {
		// a nil embedded pointer leaves promoted fields at their zero value
		return reflect.Zero(d.Type), nil
	}

	return field, nil
}

// Set writes value, already converted to Type, into target. Target must be
// addressable. Embedded pointers on the way to a promoted field are allocated.
func (d *PropertyDescriptor) Set(target reflect.Value, value reflect.Value) error {
	target = d.deref(target)
	if !target.IsValid() {
		return fmt.Errorf("%w: nil %s", ErrNilTarget, d.Owner)
	}

	if !target.CanAddr() {
		return fmt.Errorf("%w: %s value is not addressable", ErrNotWritable, d.Owner)
	}

	if !value.IsValid() {
		value = reflect.Zero(d.Type)
	}

	if d.Setter >= 0 {
		out := target.Addr().Method(d.Setter).Call([]reflect.Value{value})
		if d.setterErr && !out[0].IsNil() {
			return out[0].Interface().(error)
		}

		return nil
	}

	if d.FieldIndex == nil {
		return ErrNotWritable
	}

	field := target
	for i, x := range d.FieldIndex {
		if i > 0 && field.Kind() == reflect.Pointer {
			if field.IsNil() {
				if !field.CanSet() {
					return fmt.Errorf("%w: embedded %s is nil", ErrNotWritable, field.Type())
				}

				field.Set(reflect.New(field.Type().Elem()))
			}

			field = field.Elem()
		}

		field = field.Field(x)
	}

	if !field.CanSet() {
		return fmt.Errorf("%w: field of %s cannot be set", ErrNotWritable, d.Owner)
	}

	field.Set(value)

	return nil
}

func (d *PropertyDescriptor) deref(target reflect.Value) reflect.Value {
	for target.IsValid() && target.Kind() == reflect.Pointer && target.Type() != d.Owner {
		if target.IsNil() {
			return reflect.Value{}
		}

		target = target.Elem()
	}

	return target
}

// String returns a formatted descriptor string.
func (d *PropertyDescriptor) String() string {
	access := ""
	if d.Readable() {
		access += "r"
	}

	if d.Writable() {
		access += "w"
	}

	return fmt.Sprintf("%s %s (%s)", d.Name, d.Type, access)
}
