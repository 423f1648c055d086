package primitive

import (
	"fmt"
	"strings"
)

// CategoryEnum is a bit set of conversion categories.
type CategoryEnum int

// ConversionPair is a source and destination kind.
type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with precision loss
	CategoryTextNumber                            // int, uint, float <-> string: textual number representation
	CategoryNumericBool                           // int <-> bool: 0, 1 representation of boolean values
	CategoryTextualBool                           // string <-> bool: yes, no, on, off, true, false representation of boolean values
	CategoryDatetime                              // string(RFC3339Nano) <-> time.Time: textual date and time representation
	CategoryTimestamp                             // int(Unix seconds) <-> time.Time: Unix timestamp representation
	CategoryDuration                              // string(2h45m) <-> time.Duration: textual duration representation
	CategoryNanoseconds                           // int(nanoseconds) <-> time.Duration: numerical (integer) duration representation
	CategorySeconds                               // float(seconds) <-> time.Duration: numerical (floating-point) duration representation
	CategoryEnumString                            // string <-> enum: textual representation of an enum type (uses parse/isValid/string methods)
	CategorySafeArray                             // slice <-> array: slice perfectly fits into an array
	CategoryUnsafeArray                           // slice <-> array: slice does not fit into an array, slices are cut, arrays leaved with zero values

	CategoryAll  = (1 << iota) - 1 // all categories combined
	CategoryNone = 0               // no categories selected
)

type pairSet map[ConversionPair]struct{}

var conversionPairs = map[CategoryEnum]pairSet{}

func init() {
	numbers := kinds(KindEnum.IsNumber)
	integers := kinds(KindEnum.IsInteger)
	floats := kinds(KindEnum.IsFloat)

	safe, unsafe := pairSet{}, pairSet{}
	for _, from := range numbers {
		for _, to := range numbers {
			if isSafeNumber(from, to) {
				safe.add(from, to)
			} else {
				unsafe.add(from, to)
			}
		}
	}

	nanoseconds := pairSet{}
	for _, k := range integers {
		if k != KindUint64 {
			nanoseconds.both(k, KindDuration)
		}
	}

	conversionPairs[CategorySafeNumber] = safe
	conversionPairs[CategoryUnsafeNumber] = unsafe
	conversionPairs[CategoryTextNumber] = pairSet{}.both(KindString, numbers...)
	conversionPairs[CategoryNumericBool] = pairSet{}.both(KindBool, integers...)
	conversionPairs[CategoryTextualBool] = pairSet{}.both(KindString, KindBool)
	conversionPairs[CategoryDatetime] = pairSet{}.both(KindString, KindTime)
	conversionPairs[CategoryTimestamp] = pairSet{}.both(KindTime, integers...)
	conversionPairs[CategoryDuration] = pairSet{}.both(KindString, KindDuration)
	conversionPairs[CategoryNanoseconds] = nanoseconds
	conversionPairs[CategorySeconds] = pairSet{}.both(KindDuration, floats...)
	conversionPairs[CategoryEnumString] = pairSet{}.
		both(KindString, KindPrimitiveEnum).
		add(KindPrimitiveEnum, KindPrimitiveEnum)
}

func (s pairSet) add(from, to KindEnum) pairSet {
	s[ConversionPair{from, to}] = struct{}{}
	return s
}

// both adds k <-> other for every kind in others.
func (s pairSet) both(k KindEnum, others ...KindEnum) pairSet {
	for _, other := range others {
		s.add(k, other).add(other, k)
	}

	return s
}

func kinds(pred func(KindEnum) bool) []KindEnum {
	var result []KindEnum
	for k := KindEnum(1); int(k) < KindTotal; k++ {
		if pred(k) {
			result = append(result, k)
		}
	}

	return result
}

// widths returns the smallest and largest size of a numeric kind; int and
// uint are 32 or 64 bits wide depending on the platform.
func widths(k KindEnum) (int, int) {
	if k == KindInt || k == KindUint {
		return 32, 64
	}

	return k.Bits(), k.Bits()
}

// isSafeNumber reports whether every value of from is representable in to
// on every platform.
func isSafeNumber(from, to KindEnum) bool {
	if from == to {
		return true
	}

	_, fromMax := widths(from)
	toMin, _ := widths(to)

	switch {
	case from.IsFloat():
		return to.IsFloat() && fromMax <= toMin
	case to.IsFloat():
		return fromMax <= mantissa(to)
	case from.IsSigned() == to.IsSigned():
		return fromMax <= toMin
	case from.IsUnsigned():
		return fromMax < toMin
	default:
		return false
	}
}

func mantissa(k KindEnum) int {
	if k == KindFloat32 {
		return 24
	}

	return 53
}

var categoryNames = []struct {
	category CategoryEnum
	name     string
}{
	{CategorySafeNumber, "safe_number"},
	{CategoryUnsafeNumber, "unsafe_number"},
	{CategoryTextNumber, "text_number"},
	{CategoryNumericBool, "numeric_bool"},
	{CategoryTextualBool, "textual_bool"},
	{CategoryDatetime, "datetime"},
	{CategoryTimestamp, "timestamp"},
	{CategoryDuration, "duration"},
	{CategoryNanoseconds, "nanoseconds"},
	{CategorySeconds, "seconds"},
	{CategoryEnumString, "enum_string"},
	{CategorySafeArray, "safe_array"},
	{CategoryUnsafeArray, "unsafe_array"},
}

// CategoryOf returns the single category a kind pair belongs to, or CategoryNone.
func CategoryOf(pair ConversionPair) CategoryEnum {
	for _, entry := range categoryNames {
		if _, ok := conversionPairs[entry.category][pair]; ok {
			return entry.category
		}
	}

	return CategoryNone
}

// Has reports whether every category of other is enabled in c.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}

// Names returns the snake_case names of the enabled categories.
func (c CategoryEnum) Names() []string {
	var names []string
	for _, entry := range categoryNames {
		if c&entry.category != 0 {
			names = append(names, entry.name)
		}
	}

	return names
}

// String renders the set as names joined by "|".
func (c CategoryEnum) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryAll:
		return "all"
	}

	return strings.Join(c.Names(), "|")
}

// ParseCategory parses a category name; "all" and "none" are accepted as well.
func ParseCategory(name string) (CategoryEnum, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "all":
		return CategoryAll, nil
	case "none":
		return CategoryNone, nil
	}

	for _, entry := range categoryNames {
		if entry.name == name {
			return entry.category, nil
		}
	}

	return CategoryNone, fmt.Errorf("unknown conversion category %q", name)
}
