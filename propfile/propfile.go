package propfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/propwire/propwire/accessor"
)

var (
	ErrNotMapping = errors.New("property document must be a mapping")
	ErrEmptyKey   = errors.New("empty property key")
)

const nullTag = "!!null"

// LoadFile reads and flattens the YAML document at path.
func LoadFile(path string) ([]accessor.PropertyValue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read property file %s: %w", path, err)
	}

	values, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return values, nil
}

// Parse flattens the first YAML document in data. An empty document yields
// no values.
func Parse(data []byte) ([]accessor.PropertyValue, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse property YAML: %w", err)
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	return Flatten(doc.Content[0])
}

// Flatten turns a mapping node into property values.
func Flatten(node *yaml.Node) ([]accessor.PropertyValue, error) {
	node = resolve(node)
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %w", node.Line, ErrNotMapping)
	}

	var f flattener
	if err := f.mapping("", node); err != nil {
		return nil, err
	}

	return f.values, nil
}

type flattener struct {
	values []accessor.PropertyValue
}

func (f *flattener) add(path string, value any) {
	f.values = append(f.values, accessor.PropertyValue{Path: path, Value: value})
}

func (f *flattener) node(path string, n *yaml.Node) error {
	n = resolve(n)

	switch n.Kind {
	case yaml.MappingNode:
		return f.mapping(path, n)

	case yaml.SequenceNode:
		if !nested(n) {
			f.add(path, scalars(n))
			return nil
		}

		for i, item := range n.Content {
			if err := f.node(path+"["+strconv.Itoa(i)+"]", item); err != nil {
				return err
			}
		}

		return nil

	default:
		f.add(path, scalar(n))
		return nil
	}
}

func (f *flattener) mapping(prefix string, n *yaml.Node) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := resolve(n.Content[i]), n.Content[i+1]

		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: property keys must be scalars", key.Line)
		}

		name := strings.TrimSpace(key.Value)
		if name == "" {
			return fmt.Errorf("line %d: %w", key.Line, ErrEmptyKey)
		}

		if err := f.node(join(prefix, name), value); err != nil {
			return err
		}
	}

	return nil
}

func join(prefix, name string) string {
	if prefix == "" || strings.HasPrefix(name, "[") {
		return prefix + name
	}

	return prefix + "." + name
}

// nested reports whether a sequence holds mappings or sequences.
func nested(n *yaml.Node) bool {
	for _, item := range n.Content {
		if k := resolve(item).Kind; k == yaml.MappingNode || k == yaml.SequenceNode {
			return true
		}
	}

	return false
}

func scalars(n *yaml.Node) []any {
	out := make([]any, 0, len(n.Content))
	for _, item := range n.Content {
		out = append(out, scalar(resolve(item)))
	}

	return out
}

func scalar(n *yaml.Node) any {
	if n.ShortTag() == nullTag {
		return nil
	}

	return n.Value
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	return n
}
