package convert

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"runtime"
	"strings"

	"github.com/propwire/propwire/utils"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
)

var errorType = reflect.TypeFor[error]()

// Func is a converter backed by a plain conversion function.
type Func struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseFunc inspects the provided function and returns a Func if it is a
// valid caster function.
//
// Supports interfaces:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func ParseFunc(fn any) (Func, error) {
	if fn == nil {
		return Func{}, ErrCasterIsNotAFunction
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return Func{}, ErrCasterIsNotAFunction
	}

	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return Func{}, ErrIsNotACaster
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Pointer && src.Elem().Kind() == reflect.Pointer {
		return Func{}, ErrDoublePointer
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Pointer && dst.Elem().Kind() == reflect.Pointer {
		return Func{}, ErrDoublePointer
	}

	alias, name := funcName(fnVal)

	caster := Func{
		Src:          src,
		Dst:          dst,
		Name:         name,
		PackageAlias: alias,
		fn:           fnVal,
	}

	switch fnType.NumOut() {
	default:
		return Func{}, ErrIsNotACaster

	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Func{}, ErrIsNotACaster
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case isError(last):
			caster.HasErr = true
		}

		return caster, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !isError(terr) {
			return Func{}, ErrIsNotACaster
		}

		caster.HasBool = true
		caster.HasErr = true

		return caster, nil
	}
}

// MustParseFunc is like ParseFunc but panics on error.
func MustParseFunc(fn any) Func {
	f, err := ParseFunc(fn)
	if err != nil {
		panic(err)
	}

	return f
}

// Convert calls the function. Values not assignable to Src and a false
// bool result are reported as ErrUnsupported.
func (f Func) Convert(_ Context, value any) (any, error) {
	var arg reflect.Value
	switch {
	case value == nil:
		arg = reflect.Zero(f.Src)
	case reflect.TypeOf(value).AssignableTo(f.Src):
		arg = reflect.ValueOf(value)
	default:
		return nil, fmt.Errorf("%w: %s accepts %s, got %T", ErrUnsupported, f, f.Src, value)
	}

	out := f.fn.Call([]reflect.Value{arg})

	if f.HasErr {
		if err := out[len(out)-1]; !err.IsNil() {
			return nil, err.Interface().(error)
		}
	}

	if f.HasBool && !out[1].Bool() {
		return nil, fmt.Errorf("%w: %s rejected %v", ErrUnsupported, f, value)
	}

	return out[0].Interface(), nil
}

// String returns the qualified function name.
func (f Func) String() string {
	if f.PackageAlias == "" {
		return f.Name
	}

	return f.PackageAlias + "." + f.Name
}

// funcName splits the runtime name of fn into its package alias and name.
func funcName(fn reflect.Value) (string, string) {
	fnPC := runtime.FuncForPC(fn.Pointer())
	if fnPC == nil {
		return "", "func"
	}

	dir, file := path.Split(fnPC.Name())
	alias, name := utils.Unpack2(strings.SplitN(file, ".", 2))

	if name == "" {
		return utils.Second(path.Split(strings.TrimSuffix(dir, "/"))), alias
	}

	return alias, name
}

// isError reports whether t is an error type that can be nil. Value types
// implementing error have no "no error" state and are rejected.
func isError(t reflect.Type) bool {
	if t == nil || !t.Implements(errorType) {
		return false
	}

	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
