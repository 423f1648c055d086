package meta

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/propwire/propwire/diagnostic"
)

const testScope = "github.com/propwire/propwire/meta"

func TestCache_ForTypeIsIdempotent(t *testing.T) {
	t.Parallel()

	c := NewCache()

	first, err := c.ForType(reflect.TypeFor[person](), StyleMethods)
	require.NoError(t, err)

	second, err := c.ForType(reflect.TypeFor[*person](), StyleMethods)
	require.NoError(t, err)

	assert.Same(t, first, second, "pointer types share the element entry")
	assert.Equal(t, reflect.TypeFor[person](), first.Type)
	assert.Equal(t, StyleMethods, first.Style)

	fields, err := c.ForType(reflect.TypeFor[person](), StyleFields)
	require.NoError(t, err)
	assert.NotSame(t, first, fields, "styles are cached separately")

	stats := c.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, 2, c.Len())
}

func TestCache_NilType(t *testing.T) {
	t.Parallel()

	_, err := NewCache().ForType(nil, StyleFields)
	assert.ErrorIs(t, err, ErrNilType)
}

func TestCache_FatalIsNotCached(t *testing.T) {
	t.Parallel()

	c := NewCache()

	for range 2 {
		_, err := c.ForType(reflect.TypeFor[conflicting](), StyleMethods)
		require.ErrorIs(t, err, diagnostic.ErrFatalIntrospection)
	}

	assert.Zero(t, c.Len())
	assert.Equal(t, int64(2), c.Stats().Misses)
}

func TestCache_Tiers(t *testing.T) {
	t.Parallel()

	c := NewCache()

	stdlib, err := c.ForType(reflect.TypeFor[time.Location](), StyleFields)
	require.NoError(t, err)
	assert.True(t, stdlib.Durable, "standard library types are durable")

	unnamed, err := c.ForType(reflect.TypeFor[struct{ A int }](), StyleFields)
	require.NoError(t, err)
	assert.True(t, unnamed.Durable, "unnamed types are durable")

	local, err := c.ForType(reflect.TypeFor[person](), StyleFields)
	require.NoError(t, err)
	assert.False(t, local.Durable)
	assert.Equal(t, testScope, local.Scope)

	c.AcceptScope("github.com/propwire/propwire")

	accepted, err := c.ForType(reflect.TypeFor[document](), StyleFields)
	require.NoError(t, err)
	assert.True(t, accepted.Durable, "types below an accepted prefix are durable")

	stats := c.Stats()
	assert.Equal(t, 4, stats.Entries)
	assert.Equal(t, 3, stats.Durable)
	assert.Equal(t, 1, stats.Reclaimable)
	assert.Equal(t, []string{"github.com/propwire/propwire"}, stats.Scopes)
}

func TestCache_ClearScope(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)

	c := NewCache()
	c.SetLogger(zap.New(core))
	c.AcceptScope(testScope)

	before, err := c.ForType(reflect.TypeFor[person](), StyleMethods)
	require.NoError(t, err)
	assert.True(t, before.Durable)

	_, err = c.ForType(reflect.TypeFor[document](), StyleFields)
	require.NoError(t, err)

	_, err = c.ForType(reflect.TypeFor[time.Location](), StyleFields)
	require.NoError(t, err)

	assert.Equal(t, 0, c.ClearScope("github.com/propwire/propwire/me"), "prefix must match whole path elements")
	assert.Equal(t, 2, c.ClearScope("github.com/propwire/propwire"))
	assert.Equal(t, 1, c.Len(), "other scopes are untouched")

	assert.Zero(t, c.ClearScope(testScope), "already cleared")
	assert.Empty(t, c.Stats().Scopes, "cleared scopes are deregistered")

	after, err := c.ForType(reflect.TypeFor[person](), StyleMethods)
	require.NoError(t, err)
	assert.NotSame(t, before, after, "cleared entries are introspected again")
	assert.False(t, after.Durable)

	assert.Equal(t, 4, logs.FilterMessage("cached introspection").Len())
	assert.Equal(t, 3, logs.FilterMessage("cleared introspection scope").Len())
}

func TestCache_ConcurrentPopulation(t *testing.T) {
	t.Parallel()

	const workers = 32

	c := NewCache()

	var wg sync.WaitGroup

	results := make([]*Introspection, workers)
	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			info, err := c.ForType(reflect.TypeFor[document](), StyleFields)
			assert.NoError(t, err)

			results[i] = info
		}()
	}

	wg.Wait()

	for _, info := range results {
		assert.Same(t, results[0], info, "the first stored result wins")
	}

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(workers), stats.Hits+stats.Misses)
	assert.Equal(t, stats.Misses-1, stats.Discarded)
}

func TestDefaultCache(t *testing.T) {
	info, err := ForType(reflect.TypeFor[Box[float64]](), StyleFields)
	require.NoError(t, err)

	again, err := Default.ForType(reflect.TypeFor[Box[float64]](), StyleFields)
	require.NoError(t, err)
	assert.Same(t, info, again)

	AcceptScope(testScope)
	assert.Contains(t, Default.Stats().Scopes, testScope)
	assert.GreaterOrEqual(t, ClearScope(testScope), 1)
	assert.NotContains(t, Default.Stats().Scopes, testScope)
}
