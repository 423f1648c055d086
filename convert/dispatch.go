package convert

import (
	"reflect"

	"github.com/propwire/propwire/primitive"
)

//go:generate go tool stringer -type=DispatcherEnum -output=dispatcher_string.go

// DispatcherEnum selects the conversion strategy for a required type.
type DispatcherEnum int

const (
	DispatcherUnknown DispatcherEnum = iota
	DispatcherPrimitive
	DispatcherInterface
	DispatcherArray
	DispatcherSlice
	DispatcherMap
	DispatcherPointer
	DispatcherStruct

	// DispatcherTotal is a constant that represents the total number of strategies defined
	DispatcherTotal = int(iota)
)

// Dispatch classifies the required type dst.
func Dispatch(dst reflect.Type) DispatcherEnum {
	if dst == nil {
		return DispatcherUnknown
	}

	switch dst.Kind() {
	case reflect.Interface:
		return DispatcherInterface
	case reflect.Array:
		return DispatcherArray
	case reflect.Slice:
		return DispatcherSlice
	case reflect.Map:
		return DispatcherMap
	case reflect.Pointer:
		return DispatcherPointer
	default:
	}

	if primitive.Underlying(dst) != 0 {
		return DispatcherPrimitive
	}

	if dst.Kind() == reflect.Struct {
		return DispatcherStruct
	}

	return DispatcherUnknown
}
