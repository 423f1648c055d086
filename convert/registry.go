package convert

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/propwire/propwire/propath"
)

// Registry maps target types, optionally scoped to a property path, to
// converters. Registration is expected at setup time; lookups are safe
// for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	global map[reflect.Type]entry
	scoped map[scopedKey]entry
}

type entry struct {
	name      string
	converter Converter
}

type scopedKey struct {
	path string
	typ  reflect.Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		global: map[reflect.Type]entry{},
		scoped: map[scopedKey]entry{},
	}
}

// Register registers c for every conversion to t.
func (r *Registry) Register(t reflect.Type, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.global[t] = entry{name: converterName(c), converter: c}
}

// RegisterFor registers c for conversions of the property at path. A nil t
// matches any required type; otherwise t must equal the required type.
// Keys in path are ignored, so "items" also covers "items[3]".
func (r *Registry) RegisterFor(path string, t reflect.Type, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scoped[scopedKey{path: propath.Canonical(path), typ: t}] = entry{name: converterName(c), converter: c}
}

// RegisterFunc parses fn with ParseFunc and registers it for its result type.
func (r *Registry) RegisterFunc(fn any) error {
	f, err := ParseFunc(fn)
	if err != nil {
		return err
	}

	r.Register(f.Dst, f)

	return nil
}

// Find returns the converter for a property path and required type:
// the exact path first, then the path without keys, then the type-global
// converter. The name identifies the converter in error messages.
func (r *Registry) Find(path string, t reflect.Type) (Converter, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if path != "" && len(r.scoped) > 0 {
		canonical := propath.Canonical(path)
		for _, p := range []string{canonical, propath.StripKeys(canonical)} {
			if e, ok := r.scoped[scopedKey{path: p, typ: t}]; ok {
				return e.converter, e.name, true
			}

			if e, ok := r.scoped[scopedKey{path: p}]; ok {
				return e.converter, e.name, true
			}
		}
	}

	if e, ok := r.global[t]; ok {
		return e.converter, e.name, true
	}

	return nil, "", false
}

// Has returns true if a converter is registered for t or for the path.
func (r *Registry) Has(path string, t reflect.Type) bool {
	_, _, ok := r.Find(path, t)
	return ok
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.global) + len(r.scoped)
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := NewRegistry()
	for k, v := range r.global {
		c.global[k] = v
	}

	for k, v := range r.scoped {
		c.scoped[k] = v
	}

	return c
}

func converterName(c Converter) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%T", c)
}
