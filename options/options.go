// Package options holds the configuration shared by property accessors and
// the conversion engine.
package options

import (
	"math"

	"go.uber.org/zap"

	"github.com/propwire/propwire/primitive"
)

const (
	// DefaultAutoGrowCollectionLimit leaves slice growth unbounded.
	DefaultAutoGrowCollectionLimit = math.MaxInt
	// DefaultCategories enables every primitive conversion category.
	DefaultCategories = primitive.CategoryAll
)

// Options configures a property accessor.
type Options struct {
	// AutoGrowNestedPaths instantiates nil pointers, maps and slices met
	// while navigating a nested path instead of failing.
	AutoGrowNestedPaths bool
	// AutoGrowCollectionLimit bounds the length a slice may grow to.
	AutoGrowCollectionLimit int
	// ExtractOldValueForEditor reads the current value before a write so
	// converters can see it. Nil means the accessor's own default.
	ExtractOldValueForEditor *bool
	// IgnoreUnknownFields skips batch entries naming missing properties.
	IgnoreUnknownFields bool
	// IgnoreInvalidFields skips batch entries with unusable paths.
	IgnoreInvalidFields bool
	// Categories selects the primitive conversions the engine may apply.
	Categories primitive.CategoryEnum
	// Logger receives debug events; nil is replaced by a no-op logger.
	Logger *zap.Logger
}

// Option mutates Options during construction.
type Option func(*Options)

// Default returns the default configuration.
func Default() Options {
	return Options{
		AutoGrowCollectionLimit: DefaultAutoGrowCollectionLimit,
		Categories:              DefaultCategories,
		Logger:                  zap.NewNop(),
	}
}

// New builds Options from the defaults and the given options.
func New(opts ...Option) Options {
	o := Default()
	for _, opt := range opts {
		opt(&o)
	}

	if o.AutoGrowCollectionLimit < 0 {
		o.AutoGrowCollectionLimit = DefaultAutoGrowCollectionLimit
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	return o
}

// ExtractOldValue resolves ExtractOldValueForEditor against def.
func (o Options) ExtractOldValue(def bool) bool {
	if o.ExtractOldValueForEditor == nil {
		return def
	}

	return *o.ExtractOldValueForEditor
}

// WithAutoGrow toggles AutoGrowNestedPaths.
func WithAutoGrow(enabled bool) Option {
	return func(o *Options) {
		o.AutoGrowNestedPaths = enabled
	}
}

// WithAutoGrowLimit sets AutoGrowCollectionLimit. A negative limit resets to the default.
func WithAutoGrowLimit(limit int) Option {
	return func(o *Options) {
		if limit < 0 {
			limit = DefaultAutoGrowCollectionLimit
		}
		o.AutoGrowCollectionLimit = limit
	}
}

// WithExtractOldValue overrides the accessor default for ExtractOldValueForEditor.
func WithExtractOldValue(enabled bool) Option {
	return func(o *Options) {
		o.ExtractOldValueForEditor = &enabled
	}
}

// WithIgnoreUnknownFields toggles IgnoreUnknownFields.
func WithIgnoreUnknownFields(ignore bool) Option {
	return func(o *Options) {
		o.IgnoreUnknownFields = ignore
	}
}

// WithIgnoreInvalidFields toggles IgnoreInvalidFields.
func WithIgnoreInvalidFields(ignore bool) Option {
	return func(o *Options) {
		o.IgnoreInvalidFields = ignore
	}
}

// WithCategories replaces the enabled conversion categories.
func WithCategories(categories primitive.CategoryEnum) Option {
	return func(o *Options) {
		o.Categories = categories
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithOptions replaces the whole configuration, keeping the current logger
// when base carries none. Useful to start from a loaded file.
func WithOptions(base Options) Option {
	return func(o *Options) {
		logger := o.Logger
		*o = base
		if o.Logger == nil {
			o.Logger = logger
		}
	}
}
