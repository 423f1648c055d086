package primitive

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/propwire/propwire/utils"
)

var (
	ErrUnsupportedPair  = errors.New("no primitive conversion between these types")
	ErrCategoryDisabled = errors.New("conversion category is disabled")
	ErrOutOfRange       = errors.New("value out of range")
	ErrInvalidEnum      = errors.New("invalid enum value")
)

var (
	stringerType = reflect.TypeFor[fmt.Stringer]()
	validType    = reflect.TypeFor[interface{ IsValid() bool }]()
	durationType = reflect.TypeFor[time.Duration]()
)

// Supports reports whether a conversion from src to dst is known to the
// primitive tables, regardless of which categories are enabled.
func Supports(src, dst reflect.Type) bool {
	_, category := lookup(src, dst)
	return category != CategoryNone || sameKind(src, dst)
}

// Convert converts src into a value of type dst using the conversion
// categories enabled in allowed.
//
// ErrUnsupportedPair is returned when the pair is not a primitive conversion
// at all, so callers can fall through to other strategies. Parse failures and
// overflows are wrapped with the offending value.
func Convert(src reflect.Value, dst reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	if !src.IsValid() || dst == nil {
		return reflect.Value{}, ErrUnsupportedPair
	}

	srcType := src.Type()
	pair, category := lookup(srcType, dst)

	switch {
	case category == CategoryNone && sameKind(srcType, dst):
		// bool, string and time kinds convert freely into their own kind
	case category == CategoryNone:
		return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrUnsupportedPair, srcType, dst)
	case allowed&category == 0:
		return reflect.Value{}, fmt.Errorf("%w: %s (%s to %s)", ErrCategoryDisabled, category, srcType, dst)
	}

	out, err := convertPair(src, dst, pair)
	if err != nil {
		return reflect.Value{}, err
	}

	if FromReflectType(dst) == KindPrimitiveEnum && dst.Implements(validType) {
		if allowed&CategoryEnumString == 0 {
			return reflect.Value{}, fmt.Errorf("%w: %s (%s to %s)", ErrCategoryDisabled, CategoryEnumString, srcType, dst)
		}

		if !out.Interface().(interface{ IsValid() bool }).IsValid() {
			return reflect.Value{}, fmt.Errorf("%w: %v is not a valid %s", ErrInvalidEnum, src.Interface(), dst)
		}
	}

	return out, nil
}

// lookup finds the category of a pair, first by exact kinds (so enums and
// time types are recognised), then by underlying representation.
func lookup(src, dst reflect.Type) (ConversionPair, CategoryEnum) {
	pair := ConversionPair{FromReflectType(src), FromReflectType(dst)}
	if category := CategoryOf(pair); category != CategoryNone {
		return ConversionPair{Underlying(src), Underlying(dst)}, category
	}

	pair = ConversionPair{Underlying(src), Underlying(dst)}
	if pair.From == 0 || pair.To == 0 {
		return pair, CategoryNone
	}

	return pair, CategoryOf(pair)
}

func sameKind(src, dst reflect.Type) bool {
	from, to := Underlying(src), Underlying(dst)
	return from != 0 && from == to && !from.IsNumber()
}

func convertPair(src reflect.Value, dst reflect.Type, pair ConversionPair) (reflect.Value, error) {
	from, to := pair.From, pair.To

	switch {
	case from == to && !from.IsNumber():
		return src.Convert(dst), nil

	case from.IsNumber() && to.IsNumber():
		return convertNumber(src, dst, to)

	case from == KindString && to.IsNumber():
		return parseNumber(src.String(), dst, to)

	case from.IsNumber() && to == KindString:
		if src.Type().Implements(stringerType) {
			return reflect.ValueOf(src.Interface().(fmt.Stringer).String()).Convert(dst), nil
		}

		return reflect.ValueOf(formatNumber(src, from)).Convert(dst), nil

	case from.IsInteger() && to == KindBool:
		n, err := convertNumber(src, reflect.TypeFor[int64](), KindInt64)
		if err != nil {
			return reflect.Value{}, err
		}

		switch n.Int() {
		case 0:
			return reflect.ValueOf(false).Convert(dst), nil
		case 1:
			return reflect.ValueOf(true).Convert(dst), nil
		default:
			return reflect.Value{}, fmt.Errorf("only numbers 0 and 1 are allowed for bool, got: %d", n.Int())
		}

	case from == KindBool && to.IsInteger():
		out := reflect.New(dst).Elem()
		if src.Bool() {
			return setNumber(out, 1)
		}

		return out, nil

	case from == KindString && to == KindBool:
		switch strings.ToLower(strings.TrimSpace(src.String())) {
		case "true", "yes", "on":
			return reflect.ValueOf(true).Convert(dst), nil
		case "false", "no", "off":
			return reflect.ValueOf(false).Convert(dst), nil
		default:
			return reflect.Value{}, fmt.Errorf("only strings true/false, yes/no, on/off are allowed for bool, got: %s", src.String())
		}

	case from == KindBool && to == KindString:
		return reflect.ValueOf(strconv.FormatBool(src.Bool())).Convert(dst), nil

	case from == KindString && to == KindTime:
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(src.String()))
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(t), nil

	case from == KindTime && to == KindString:
		return reflect.ValueOf(src.Interface().(time.Time).Format(time.RFC3339Nano)).Convert(dst), nil

	case from.IsInteger() && to == KindTime:
		secs, err := convertNumber(src, reflect.TypeFor[int64](), KindInt64)
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(time.Unix(secs.Int(), 0)), nil

	case from == KindTime && to.IsInteger():
		return convertNumber(reflect.ValueOf(src.Interface().(time.Time).Unix()), dst, to)

	case from == KindString && to == KindDuration:
		d, err := time.ParseDuration(strings.TrimSpace(src.String()))
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(d).Convert(dst), nil

	case from == KindDuration && to == KindString:
		return reflect.ValueOf(time.Duration(src.Int()).String()).Convert(dst), nil

	case from.IsInteger() && to == KindDuration:
		n, err := convertNumber(src, durationType, KindInt64)
		if err != nil {
			return reflect.Value{}, err
		}

		return n.Convert(dst), nil

	case from == KindDuration && to.IsInteger():
		return convertNumber(reflect.ValueOf(src.Int()), dst, to)

	case from.IsFloat() && to == KindDuration:
		secs := src.Float() * float64(time.Second)
		if !utils.IsInHalfOpen(-twoTo63, secs, twoTo63) {
			return reflect.Value{}, fmt.Errorf("%w: %v seconds", ErrOutOfRange, src.Float())
		}

		return reflect.ValueOf(time.Duration(secs)).Convert(dst), nil

	case from == KindDuration && to.IsFloat():
		out := reflect.New(dst).Elem()
		out.SetFloat(time.Duration(src.Int()).Seconds())
		return out, nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrUnsupportedPair, src.Type(), dst)
}

// Exact float64 bounds of int64 and uint64. math.MaxInt64 and math.MaxUint64
// round up to these values, so upper bounds are exclusive.
const (
	twoTo63 float64 = 1 << 63
	twoTo64 float64 = 1 << 64
)

func convertNumber(src reflect.Value, dst reflect.Type, to KindEnum) (reflect.Value, error) {
	out := reflect.New(dst).Elem()

	switch {
	case to.IsSigned():
		var n int64
		switch {
		case src.CanInt():
			n = src.Int()
		case src.CanUint():
			if src.Uint() > math.MaxInt64 {
				return reflect.Value{}, fmt.Errorf("%w: %d does not fit %s", ErrOutOfRange, src.Uint(), dst)
			}
			n = int64(src.Uint())
		case src.CanFloat():
			f := math.Trunc(src.Float())
			if math.IsNaN(f) || !utils.IsInHalfOpen(-twoTo63, f, twoTo63) {
				return reflect.Value{}, fmt.Errorf("%w: %v does not fit %s", ErrOutOfRange, src.Float(), dst)
			}
			n = int64(f)
		}

		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%w: %d does not fit %s", ErrOutOfRange, n, dst)
		}
		out.SetInt(n)

	case to.IsUnsigned():
		var n uint64
		switch {
		case src.CanInt():
			if src.Int() < 0 {
				return reflect.Value{}, fmt.Errorf("%w: %d does not fit %s", ErrOutOfRange, src.Int(), dst)
			}
			n = uint64(src.Int())
		case src.CanUint():
			n = src.Uint()
		case src.CanFloat():
			f := math.Trunc(src.Float())
			if math.IsNaN(f) || !utils.IsInHalfOpen(0, f, twoTo64) {
				return reflect.Value{}, fmt.Errorf("%w: %v does not fit %s", ErrOutOfRange, src.Float(), dst)
			}
			n = uint64(f)
		}

		if out.OverflowUint(n) {
			return reflect.Value{}, fmt.Errorf("%w: %d does not fit %s", ErrOutOfRange, n, dst)
		}
		out.SetUint(n)

	case to.IsFloat():
		var f float64
		switch {
		case src.CanInt():
			f = float64(src.Int())
		case src.CanUint():
			f = float64(src.Uint())
		case src.CanFloat():
			f = src.Float()
		}

		if out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%w: %v does not fit %s", ErrOutOfRange, f, dst)
		}
		out.SetFloat(f)

	default:
		return reflect.Value{}, fmt.Errorf("%w: %s is not a number", ErrUnsupportedPair, dst)
	}

	return out, nil
}

func parseNumber(text string, dst reflect.Type, to KindEnum) (reflect.Value, error) {
	text = strings.TrimSpace(text)

	var src reflect.Value
	switch {
	case to.IsSigned():
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		src = reflect.ValueOf(n)
	case to.IsUnsigned():
		n, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		src = reflect.ValueOf(n)
	default:
		f, err := strconv.ParseFloat(text, to.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		src = reflect.ValueOf(f)
	}

	return convertNumber(src, dst, to)
}

func formatNumber(src reflect.Value, from KindEnum) string {
	switch {
	case from.IsSigned():
		return strconv.FormatInt(src.Int(), 10)
	case from.IsUnsigned():
		return strconv.FormatUint(src.Uint(), 10)
	default:
		return strconv.FormatFloat(src.Float(), 'f', -1, from.Bits())
	}
}

func setNumber(out reflect.Value, n int64) (reflect.Value, error) {
	switch {
	case out.CanInt():
		out.SetInt(n)
	case out.CanUint():
		out.SetUint(uint64(n))
	case out.CanFloat():
		out.SetFloat(float64(n))
	}

	return out, nil
}
