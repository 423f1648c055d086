package meta

import (
	"reflect"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Default is the process-wide cache used by accessors.
var Default = NewCache()

// ForType introspects t in the given style using the Default cache.
func ForType(t reflect.Type, style Style) (*Introspection, error) {
	return Default.ForType(t, style)
}

// AcceptScope marks a package path prefix as durable in the Default cache.
func AcceptScope(prefix string) {
	Default.AcceptScope(prefix)
}

// ClearScope drops a package path prefix from the Default cache.
func ClearScope(prefix string) int {
	return Default.ClearScope(prefix)
}

type cacheKey struct {
	t     reflect.Type
	style Style
}

// Cache memoizes introspection results per (type, style).
//
// Lookups are lock-free. Concurrent first lookups of the same type may both
// introspect it; the first stored result wins and the other is discarded.
// Fatal introspection failures are never cached.
type Cache struct {
	// entries maps cacheKey to *Introspection.
	entries sync.Map

	// mu guards scopes.
	mu     sync.RWMutex
	scopes map[string]struct{}

	logger atomic.Pointer[zap.Logger]

	hits      atomic.Int64
	misses    atomic.Int64
	discarded atomic.Int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries     int
	Durable     int
	Reclaimable int
	Hits        int64
	Misses      int64
	Discarded   int64
	Scopes      []string
}

// NewCache creates an empty cache logging to a no-op logger.
func NewCache() *Cache {
	c := &Cache{scopes: map[string]struct{}{}}
	c.logger.Store(zap.NewNop())

	return c
}

// SetLogger replaces the cache logger; nil restores the no-op logger.
func (c *Cache) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c.logger.Store(logger)
}

// ForType returns the introspection of t in the given style. Pointer types
// are introspected through their element type.
func (c *Cache) ForType(t reflect.Type, style Style) (*Introspection, error) {
	if t == nil {
		return nil, ErrNilType
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	key := cacheKey{t: t, style: style}
	if v, ok := c.entries.Load(key); ok {
		c.hits.Add(1)
		return v.(*Introspection), nil
	}

	c.misses.Add(1)

	result, err := introspect(t, style)
	if err != nil {
		c.logger.Load().Debug("introspection failed",
			zap.Stringer("type", t),
			zap.Stringer("style", style),
			zap.Error(err))

		return nil, err
	}

	result.Durable = c.isDurable(t)

	actual, loaded := c.entries.LoadOrStore(key, result)
	if loaded {
		c.discarded.Add(1)
		return actual.(*Introspection), nil
	}

	c.logger.Load().Debug("cached introspection",
		zap.Stringer("type", t),
		zap.Stringer("style", style),
		zap.Int("properties", result.Len()),
		zap.Bool("durable", result.Durable))

	return result, nil
}

// AcceptScope registers a package path prefix whose types are durable.
// Every call should be paired with a ClearScope on teardown.
func (c *Cache) AcceptScope(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.scopes[prefix] = struct{}{}
}

// ClearScope removes every entry whose package path is prefix or lies below
// it, deregisters prefix and returns the number of removed entries.
func (c *Cache) ClearScope(prefix string) int {
	c.mu.Lock()
	delete(c.scopes, prefix)
	c.mu.Unlock()

	removed := 0
	c.entries.Range(func(k, _ any) bool {
		if inScope(k.(cacheKey).t.PkgPath(), prefix) {
			c.entries.Delete(k)
			removed++
		}

		return true
	})

	c.logger.Load().Debug("cleared introspection scope",
		zap.String("scope", prefix),
		zap.Int("removed", removed))

	return removed
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})

	return n
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	s := Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Discarded: c.discarded.Load(),
	}

	c.entries.Range(func(_, v any) bool {
		s.Entries++
		if v.(*Introspection).Durable {
			s.Durable++
		} else {
			s.Reclaimable++
		}

		return true
	})

	c.mu.RLock()
	for scope := range c.scopes {
		s.Scopes = append(s.Scopes, scope)
	}
	c.mu.RUnlock()

	sort.Strings(s.Scopes)

	return s
}

func (c *Cache) isDurable(t reflect.Type) bool {
	pkg := t.PkgPath()
	if pkg == "" || isStandardLibrary(pkg) {
		return true
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for scope := range c.scopes {
		if inScope(pkg, scope) {
			return true
		}
	}

	return false
}

func inScope(pkg, prefix string) bool {
	if prefix == "" {
		return true
	}

	return pkg == prefix || strings.HasPrefix(pkg, prefix+"/")
}

// isStandardLibrary treats packages without a dot in their first path
// element as part of the standard library.
func isStandardLibrary(pkg string) bool {
	first, _, _ := strings.Cut(pkg, "/")
	return !strings.Contains(first, ".")
}
