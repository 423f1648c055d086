package options

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/propwire/propwire/primitive"
)

// File is the YAML shape of an options file:
//
//	auto_grow_nested_paths: true
//	auto_grow_collection_limit: 256
//	extract_old_value_for_editor: false
//	ignore_unknown_fields: true
//	ignore_invalid_fields: false
//	categories: [safe_number, text_number, textual_bool]
//
// Absent keys keep their defaults.
type File struct {
	AutoGrowNestedPaths      *bool        `yaml:"auto_grow_nested_paths,omitempty"`
	AutoGrowCollectionLimit  *int         `yaml:"auto_grow_collection_limit,omitempty"`
	ExtractOldValueForEditor *bool        `yaml:"extract_old_value_for_editor,omitempty"`
	IgnoreUnknownFields      *bool        `yaml:"ignore_unknown_fields,omitempty"`
	IgnoreInvalidFields      *bool        `yaml:"ignore_invalid_fields,omitempty"`
	Categories               CategoryList `yaml:"categories,omitempty"`
}

// CategoryList is a list of conversion category names.
// It accepts either a single string or an array of strings.
type CategoryList []string

// UnmarshalYAML implements custom YAML unmarshaling for CategoryList.
func (c *CategoryList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*c = CategoryList{str}
		} else {
			*c = CategoryList{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*c = arr

		return nil

	default:
		return fmt.Errorf("expected category name or list, got %v", node.Kind)
	}
}

// Resolve parses the names into a category set.
func (c CategoryList) Resolve() (primitive.CategoryEnum, error) {
	var set primitive.CategoryEnum
	for _, name := range c {
		category, err := primitive.ParseCategory(name)
		if err != nil {
			return primitive.CategoryNone, err
		}

		set |= category
	}

	return set, nil
}

// LoadFile loads and parses a YAML options file from the given path.
func LoadFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read options file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data on top of the defaults.
func Parse(data []byte) (Options, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return Options{}, fmt.Errorf("failed to parse options YAML: %w", err)
	}

	return f.Apply(Default())
}

// Apply overlays the keys present in f on top of base.
func (f File) Apply(base Options) (Options, error) {
	o := base

	if f.AutoGrowNestedPaths != nil {
		o.AutoGrowNestedPaths = *f.AutoGrowNestedPaths
	}

	if f.AutoGrowCollectionLimit != nil {
		if *f.AutoGrowCollectionLimit < 0 {
			return Options{}, fmt.Errorf("auto_grow_collection_limit must not be negative, got %d", *f.AutoGrowCollectionLimit)
		}

		o.AutoGrowCollectionLimit = *f.AutoGrowCollectionLimit
	}

	if f.ExtractOldValueForEditor != nil {
		extract := *f.ExtractOldValueForEditor
		o.ExtractOldValueForEditor = &extract
	}

	if f.IgnoreUnknownFields != nil {
		o.IgnoreUnknownFields = *f.IgnoreUnknownFields
	}

	if f.IgnoreInvalidFields != nil {
		o.IgnoreInvalidFields = *f.IgnoreInvalidFields
	}

	if f.Categories != nil {
		categories, err := f.Categories.Resolve()
		if err != nil {
			return Options{}, err
		}

		o.Categories = categories
	}

	return o, nil
}
