package utils_test

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propwire/propwire/utils"
)

func TestIsInRange(t *testing.T) {
	t.Parallel()

	assert.True(t, utils.IsInRange(0, 0, 10))
	assert.True(t, utils.IsInRange(0, 10, 10))
	assert.False(t, utils.IsInRange(0, 11, 10))
	assert.False(t, utils.IsInRange(-1.5, -2, 1.5))
}

func TestIsInHalfOpen(t *testing.T) {
	t.Parallel()

	assert.True(t, utils.IsInHalfOpen(0, 0, 10))
	assert.True(t, utils.IsInHalfOpen(0, 9, 10))
	assert.False(t, utils.IsInHalfOpen(0, 10, 10))
	assert.False(t, utils.IsInHalfOpen(-1.5, -2, 1.5))
}

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, utils.SortedKeys(map[string]int{"c": 3, "a": 1, "b": 2}))
	assert.Empty(t, utils.SortedKeys(map[int]bool(nil)))
}

func TestUnpack2(t *testing.T) {
	t.Parallel()

	a, b := utils.Unpack2(strings.SplitN("pkg.Func.inner", ".", 2))
	assert.Equal(t, "pkg", a)
	assert.Equal(t, "Func.inner", b)

	a, b = utils.Unpack2([]string{"only"})
	assert.Equal(t, "only", a)
	assert.Empty(t, b)

	assert.Equal(t, "file.go", utils.Second(path.Split("dir/file.go")))
}
