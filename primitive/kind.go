package primitive

import (
	"math/bits"
	"reflect"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies the scalar types the conversion tables know about.
type KindEnum int

const (
	_ KindEnum = iota // zero means "not a primitive"

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named int or string type

	// KindTotal is the number of kinds, the zero value included.
	KindTotal = int(iota)
)

var exactKinds = map[reflect.Type]KindEnum{
	reflect.TypeFor[int]():           KindInt,
	reflect.TypeFor[int8]():          KindInt8,
	reflect.TypeFor[int16]():         KindInt16,
	reflect.TypeFor[int32]():         KindInt32,
	reflect.TypeFor[int64]():         KindInt64,
	reflect.TypeFor[uint]():          KindUint,
	reflect.TypeFor[uint8]():         KindUint8,
	reflect.TypeFor[uint16]():        KindUint16,
	reflect.TypeFor[uint32]():        KindUint32,
	reflect.TypeFor[uint64]():        KindUint64,
	reflect.TypeFor[float32]():       KindFloat32,
	reflect.TypeFor[float64]():       KindFloat64,
	reflect.TypeFor[bool]():          KindBool,
	reflect.TypeFor[string]():        KindString,
	reflect.TypeFor[time.Time]():     KindTime,
	reflect.TypeFor[time.Duration](): KindDuration,
}

var representations = map[reflect.Kind]KindEnum{
	reflect.Int:     KindInt,
	reflect.Int8:    KindInt8,
	reflect.Int16:   KindInt16,
	reflect.Int32:   KindInt32,
	reflect.Int64:   KindInt64,
	reflect.Uint:    KindUint,
	reflect.Uint8:   KindUint8,
	reflect.Uint16:  KindUint16,
	reflect.Uint32:  KindUint32,
	reflect.Uint64:  KindUint64,
	reflect.Float32: KindFloat32,
	reflect.Float64: KindFloat64,
	reflect.Bool:    KindBool,
	reflect.String:  KindString,
}

func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k KindEnum) IsSigned() bool {
	return k >= KindInt && k <= KindInt64
}

func (k KindEnum) IsUnsigned() bool {
	return k >= KindUint && k <= KindUint64
}

// Bits returns the size of a numeric kind. It panics for other kinds.
func (k KindEnum) Bits() int {
	switch k {
	case KindInt, KindUint:
		return bits.UintSize
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	default:
		panic("bit size requested for a non-numeric kind: " + k.String())
	}
}

// FromReflectType returns the exact kind of a predeclared or time type,
// KindPrimitiveEnum for other int and string types, and zero otherwise.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	if kind, ok := exactKinds[rtype]; ok {
		return kind
	}

	switch rtype.Kind() {
	case reflect.Int, reflect.String:
		return KindPrimitiveEnum
	default:
		return 0
	}
}

// Underlying classifies rtype by its representation: exact builtin types and
// time types keep their kind, named types report the kind of their
// underlying numeric, boolean or string type.
func Underlying(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	if kind, ok := exactKinds[rtype]; ok {
		return kind
	}

	return representations[rtype.Kind()]
}
