package convert

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

var ErrUnknownConstant = errors.New("unknown enum constant")

type enumType struct {
	typ    reflect.Type
	byName map[string]reflect.Value
	names  []string
}

var enums = struct {
	sync.RWMutex
	byType map[reflect.Type]*enumType
}{byType: map[reflect.Type]*enumType{}}

// RegisterEnum registers the constants of an enum type under the names
// returned by their String methods.
func RegisterEnum[T fmt.Stringer](values ...T) {
	names := make(map[string]T, len(values))
	for _, v := range values {
		names[v.String()] = v
	}

	RegisterEnumNames(names)
}

// RegisterEnumNames registers the constants of an enum type under explicit
// names. Registering a type again replaces its constants.
func RegisterEnumNames[T any](names map[string]T) {
	e := &enumType{
		typ:    reflect.TypeFor[T](),
		byName: make(map[string]reflect.Value, len(names)),
	}

	for name, v := range names {
		e.byName[name] = reflect.ValueOf(v)
		e.names = append(e.names, name)
	}

	sort.Strings(e.names)

	enums.Lock()
	defer enums.Unlock()

	enums.byType[e.typ] = e
}

// EnumNames returns the sorted constant names registered for t.
func EnumNames(t reflect.Type) []string {
	e, ok := lookupEnum(t)
	if !ok {
		return nil
	}

	return append([]string(nil), e.names...)
}

func lookupEnum(t reflect.Type) (*enumType, bool) {
	enums.RLock()
	defer enums.RUnlock()

	e, ok := enums.byType[t]

	return e, ok
}

// parse resolves text by exact constant name, then as "<Type>.<NAME>".
// Empty text is the zero value.
func (e *enumType) parse(text string) (reflect.Value, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return reflect.Zero(e.typ), nil
	}

	if v, ok := e.byName[text]; ok {
		return v, nil
	}

	if rest, ok := strings.CutPrefix(text, e.typ.Name()+"."); ok {
		if v, ok := e.byName[rest]; ok {
			return v, nil
		}
	}

	return reflect.Value{}, fmt.Errorf("%w %q for %s (known: %s)", ErrUnknownConstant, text, e.typ, strings.Join(e.names, ", "))
}

// qualifiedEnum resolves "<Type>.<NAME>" against every registered enum
// whose type is assignable to the interface iface.
func qualifiedEnum(iface reflect.Type, text string) (reflect.Value, bool) {
	typeName, constant, ok := strings.Cut(strings.TrimSpace(text), ".")
	if !ok {
		return reflect.Value{}, false
	}

	enums.RLock()
	defer enums.RUnlock()

	for t, e := range enums.byType {
		if t.Name() != typeName || !t.AssignableTo(iface) {
			continue
		}

		if v, ok := e.byName[constant]; ok {
			return v, true
		}
	}

	return reflect.Value{}, false
}
