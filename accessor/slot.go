package accessor

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"go.uber.org/zap"

	"github.com/propwire/propwire/convert"
	"github.com/propwire/propwire/diagnostic"
	"github.com/propwire/propwire/internal/match"
	"github.com/propwire/propwire/meta"
	"github.com/propwire/propwire/propath"
)

var errNilValue = errors.New("nil value")

// maxGrowBytes caps the memory a single slice growth may allocate.
const maxGrowBytes = 1 << 30

type mode int

const (
	modeRead mode = iota
	modeWrite
)

// step is one hop of a path: a property name or a single key.
type step struct {
	name  string
	key   string
	keyed bool
	// path is the canonical path up to and including this step.
	path string
}

func steps(p propath.Path) []step {
	var (
		result []step
		prefix string
	)

	join := func(s string) string {
		if prefix == "" {
			return s
		}

		return prefix + "." + s
	}

	for _, seg := range p.Segments {
		result = append(result, step{name: seg.Name, path: join(seg.Name)})

		for k, key := range seg.Keys {
			partial := propath.Segment{Name: seg.Name, Keys: seg.Keys[:k+1]}
			result = append(result, step{key: key, keyed: true, path: join(partial.String())})
		}

		prefix = join(seg.String())
	}

	return result
}

type slotKind int

const (
	slotRoot slotKind = iota
	slotProperty
	slotIndex
	slotKey
)

// slot is a location reached while walking a path. A slot rereads its value
// through its parents, so replacements written by one slot are seen by the
// slots below it. Writes into values that are not addressable (struct
// values held in maps or returned by getters, values in interfaces) update a
// copy that is written back to the parent.
type slot struct {
	kind   slotKind
	parent *slot
	path   string
	typ    reflect.Type

	root  reflect.Value
	desc  *meta.PropertyDescriptor
	index int
	key   reflect.Value
}

func (s *slot) get() (reflect.Value, error) {
	if s.kind == slotRoot {
		return s.root, nil
	}

	h, _, err := s.parent.holder()
	if err != nil {
		return reflect.Value{}, err
	}

	switch s.kind {
	case slotProperty:
		return s.desc.Get(h)
	case slotIndex:
		if s.index >= h.Len() {
			return reflect.Value{}, nil
		}

		return h.Index(s.index), nil
	default:
		return h.MapIndex(s.key), nil
	}
}

// holder returns the value of s with pointers and interfaces removed, and a
// function replacing that value.
func (s *slot) holder() (reflect.Value, func(reflect.Value) error, error) {
	v, err := s.get()
	if err != nil {
		return reflect.Value{}, nil, err
	}

	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, nil, errNilValue
		}

		v = v.Elem()
	}

	if !v.IsValid() {
		return reflect.Value{}, nil, errNilValue
	}

	store := func(replacement reflect.Value) error {
		if v.CanSet() {
			v.Set(replacement)
			return nil
		}

		return s.set(replacement)
	}

	return v, store, nil
}

func (s *slot) set(v reflect.Value) error {
	if s.kind == slotRoot {
		return meta.ErrNotWritable
	}

	h, store, err := s.parent.holder()
	if err != nil {
		return err
	}

	switch s.kind {
	case slotProperty:
		if h.CanAddr() {
			return s.desc.Set(h, v)
		}

		tmp := copyOf(h)
		if err := s.desc.Set(tmp, v); err != nil {
			return err
		}

		return store(tmp)

	case slotIndex:
		if s.index >= h.Len() {
			return fmt.Errorf("index %d out of range [0:%d]", s.index, h.Len())
		}

		if h.Kind() == reflect.Slice || h.CanAddr() {
			h.Index(s.index).Set(v)
			return nil
		}

		tmp := copyOf(h)
		tmp.Index(s.index).Set(v)

		return store(tmp)

	default:
		if h.IsNil() {
			m := reflect.MakeMap(h.Type())
			m.SetMapIndex(s.key, v)

			return store(m)
		}

		h.SetMapIndex(s.key, v)

		return nil
	}
}

// resolve walks all from the root and returns the terminal slot. Every
// intermediate slot is made usable first, growing nil values in write mode
// when AutoGrowNestedPaths is set.
func (a *base) resolve(all []step, full string, m mode) (*slot, error) {
	cur := &slot{kind: slotRoot, root: a.root, typ: a.root.Type()}

	for i, st := range all {
		terminal := i == len(all)-1

		h, store, err := cur.holder()
		if err != nil {
			return nil, a.accessError(cur, full, nil, err)
		}

		var next *slot
		if st.keyed {
			next, err = a.keySlot(cur, h, store, st, full, m, terminal)
		} else {
			next, err = a.propertySlot(cur, h, st, full, terminal)
		}

		if err != nil {
			return nil, err
		}

		if !terminal {
			if err := a.ensure(next, full, m); err != nil {
				return nil, err
			}
		}

		cur = next
	}

	return cur, nil
}

func (a *base) propertySlot(parent *slot, h reflect.Value, st step, full string, terminal bool) (*slot, error) {
	intro, err := a.cache.ForType(h.Type(), a.style)
	if err != nil {
		return nil, err
	}

	d, ok := intro.Property(st.name)
	if !ok {
		return nil, unknownProperty(intro, full, st.name)
	}

	if !terminal && !d.Readable() {
		return nil, diagnostic.InvalidProperty(intro.Type, full, diagnostic.ReasonNotReadable, nil)
	}

	return &slot{kind: slotProperty, parent: parent, path: st.path, typ: d.Type, desc: d}, nil
}

// keySlot resolves a key into the container h. Slices are extended up to
// the index when the write ends there, or when auto-growth is enabled, as
// long as the index stays below AutoGrowCollectionLimit.
func (a *base) keySlot(parent *slot, h reflect.Value, store func(reflect.Value) error, st step, full string, m mode, terminal bool) (*slot, error) {
	switch h.Kind() {
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(st.key)
		if err != nil || i < 0 {
			return nil, diagnostic.InvalidProperty(h.Type(), full, diagnostic.ReasonInvalidKey, err)
		}

		s := &slot{kind: slotIndex, parent: parent, path: st.path, typ: h.Type().Elem(), index: i}
		if i < h.Len() {
			return s, nil
		}

		growable := m == modeWrite && h.Kind() == reflect.Slice && (terminal || a.opts.AutoGrowNestedPaths)
		if !growable || i >= a.opts.AutoGrowCollectionLimit {
			cause := fmt.Errorf("index %d, length %d", i, h.Len())
			if growable {
				cause = fmt.Errorf("index %d reaches the auto-grow limit %d", i, a.opts.AutoGrowCollectionLimit)
			}

			return nil, diagnostic.InvalidProperty(h.Type(), full, diagnostic.ReasonIndexOutOfBounds, cause)
		}

		if size := h.Type().Elem().Size(); size > 0 && uint64(i) >= maxGrowBytes/uint64(size) {
			cause := fmt.Errorf("index %d would grow %s beyond %d bytes", i, h.Type(), maxGrowBytes)
			return nil, diagnostic.InvalidProperty(h.Type(), full, diagnostic.ReasonIndexOutOfBounds, cause)
		}

		grown := reflect.MakeSlice(h.Type(), i+1, i+1)
		reflect.Copy(grown, h)

		if err := store(grown); err != nil {
			return nil, a.accessError(parent, full, nil, err)
		}

		a.logger.Debug("grew collection",
			zap.String("path", full),
			zap.String("segment", st.path),
			zap.Int("length", i+1))

		return s, nil

	case reflect.Map:
		key, err := a.engine.ConvertValue(convert.For("", h.Type().Key()), st.key)
		if err != nil {
			return nil, diagnostic.InvalidProperty(h.Type(), full, diagnostic.ReasonInvalidKey, err)
		}

		return &slot{kind: slotKey, parent: parent, path: st.path, typ: h.Type().Elem(), key: key}, nil

	default:
		return nil, diagnostic.InvalidProperty(h.Type(), full, diagnostic.ReasonNotIndexable, nil)
	}
}

// ensure makes the value of an intermediate slot usable, replacing a nil or
// missing value with a fresh one in write mode when auto-growth is enabled.
func (a *base) ensure(s *slot, full string, m mode) error {
	v, err := s.get()
	if err != nil {
		return a.accessError(s, full, nil, err)
	}

	if v.IsValid() && !isNil(v) {
		return nil
	}

	null := diagnostic.NullValueInNestedPath(a.root.Type().Elem(), full, s.path)
	if m == modeRead || !a.opts.AutoGrowNestedPaths {
		return null
	}

	fresh, ok := instantiate(s.typ)
	if !ok || (s.kind == slotProperty && !s.desc.Writable()) {
		return null
	}

	if err := s.set(fresh); err != nil {
		return a.accessError(s, full, nil, err)
	}

	a.logger.Debug("auto-grew nested path",
		zap.String("path", full),
		zap.String("segment", s.path),
		zap.Stringer("type", s.typ))

	return nil
}

// typeOf resolves the declared type at the end of p from declared types
// alone. Interface typed intermediates are resolved from their value. The
// descriptor is returned when p ends with a property name.
func (a *base) typeOf(p propath.Path) (reflect.Type, *meta.PropertyDescriptor, error) {
	full := p.String()
	all := steps(p)
	t := a.root.Type()

	var d *meta.PropertyDescriptor
	for i, st := range all {
		t = indirect(t)

		if t.Kind() == reflect.Interface {
			dynamic, err := a.dynamicType(all[:i], full)
			if err != nil {
				return nil, nil, err
			}

			t = dynamic
		}

		if st.keyed {
			d = nil

			switch t.Kind() {
			case reflect.Slice, reflect.Map:
			case reflect.Array:
				if index, err := strconv.Atoi(st.key); err != nil || index < 0 || index >= t.Len() {
					return nil, nil, diagnostic.InvalidProperty(t, full, diagnostic.ReasonIndexOutOfBounds, err)
				}
			default:
				return nil, nil, diagnostic.InvalidProperty(t, full, diagnostic.ReasonNotIndexable, nil)
			}

			t = t.Elem()

			continue
		}

		intro, err := a.cache.ForType(t, a.style)
		if err != nil {
			return nil, nil, err
		}

		var ok bool
		if d, ok = intro.Property(st.name); !ok {
			return nil, nil, unknownProperty(intro, full, st.name)
		}

		t = d.Type
	}

	return t, d, nil
}

// dynamicType reads the value at prefix and returns its concrete type.
func (a *base) dynamicType(prefix []step, full string) (reflect.Type, error) {
	s, err := a.resolve(prefix, full, modeRead)
	if err != nil {
		return nil, err
	}

	h, _, err := s.holder()
	if err != nil {
		return nil, a.accessError(s, full, nil, err)
	}

	return h.Type(), nil
}

func unknownProperty(intro *meta.Introspection, full, name string) error {
	err := diagnostic.InvalidProperty(intro.Type, full, diagnostic.ReasonNotFound, nil)
	err.Matches = match.PossibleMatches(name, intro.Names())

	return err
}

func instantiate(t reflect.Type) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.Interface:
		return reflect.Value{}, false
	case reflect.Pointer:
		return reflect.New(t.Elem()), true
	case reflect.Map:
		return reflect.MakeMap(t), true
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0), true
	default:
		return reflect.New(t).Elem(), true
	}
}

func copyOf(v reflect.Value) reflect.Value {
	tmp := reflect.New(v.Type()).Elem()
	tmp.Set(v)

	return tmp
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
