package options_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/propwire/propwire/options"
	"github.com/propwire/propwire/primitive"
)

func TestNew(t *testing.T) {
	t.Parallel()

	o := options.New()
	assert.False(t, o.AutoGrowNestedPaths)
	assert.Equal(t, options.DefaultAutoGrowCollectionLimit, o.AutoGrowCollectionLimit)
	assert.Equal(t, primitive.CategoryEnum(options.DefaultCategories), o.Categories)
	assert.NotNil(t, o.Logger)
	assert.True(t, o.ExtractOldValue(true))
	assert.False(t, o.ExtractOldValue(false))

	o = options.New(
		options.WithAutoGrow(true),
		options.WithAutoGrowLimit(16),
		options.WithExtractOldValue(false),
		options.WithIgnoreUnknownFields(true),
		options.WithIgnoreInvalidFields(true),
		options.WithCategories(primitive.CategorySafeNumber),
		options.WithLogger(nil),
	)
	assert.True(t, o.AutoGrowNestedPaths)
	assert.Equal(t, 16, o.AutoGrowCollectionLimit)
	assert.False(t, o.ExtractOldValue(true))
	assert.True(t, o.IgnoreUnknownFields)
	assert.True(t, o.IgnoreInvalidFields)
	assert.Equal(t, primitive.CategorySafeNumber, o.Categories)
	assert.NotNil(t, o.Logger)

	o = options.New(options.WithAutoGrowLimit(-1))
	assert.Equal(t, options.DefaultAutoGrowCollectionLimit, o.AutoGrowCollectionLimit)
}

func TestWithOptions(t *testing.T) {
	t.Parallel()

	logger := zap.NewExample()
	base := options.Options{AutoGrowNestedPaths: true, AutoGrowCollectionLimit: 4}

	o := options.New(options.WithLogger(logger), options.WithOptions(base))
	assert.True(t, o.AutoGrowNestedPaths)
	assert.Equal(t, 4, o.AutoGrowCollectionLimit)
	assert.Same(t, logger, o.Logger)

	o = options.New(options.WithOptions(base), options.WithIgnoreUnknownFields(true))
	assert.True(t, o.AutoGrowNestedPaths)
	assert.True(t, o.IgnoreUnknownFields)
}
