// Package propath parses nested property expressions such as
// "order.items[2].attributes['color']" into segments.
package propath

import (
	"errors"
	"strings"
	"unicode"

	"github.com/propwire/propwire/diagnostic"
)

const (
	separator    = '.'
	keyOpen      = '['
	keyClose     = ']'
	singleQuoted = '\''
	doubleQuoted = '"'
)

var (
	ErrEmptyPath       = errors.New("empty path")
	ErrEmptySegment    = errors.New("empty segment")
	ErrEmptyKey        = errors.New("empty key")
	ErrUnbalanced      = errors.New("unbalanced bracket")
	ErrInvalidName     = errors.New("invalid property name")
	ErrUnexpectedToken = errors.New("unexpected character after key")
)

// Segment is one step of a path: a property name plus zero or more keys.
type Segment struct {
	// Name is the property name.
	Name string

	// Keys are index or map keys applied in order, e.g. "matrix[1][2]".
	Keys []string
}

// Path is a parsed property expression.
type Path struct {
	Segments []Segment
}

// Parse parses a property expression. Malformed input yields an invalid
// property error carrying diagnostic.ReasonMalformedPath.
func Parse(s string) (Path, error) {
	if s == "" {
		return Path{}, malformed(s, ErrEmptyPath)
	}

	var (
		segments []Segment
		current  Segment
		name     strings.Builder
		runes    = []rune(s)
	)

	flush := func() error {
		if current.Name == "" {
			current.Name = name.String()
		}

		if current.Name == "" {
			return ErrEmptySegment
		}

		if !isValidIdent(current.Name) {
			return ErrInvalidName
		}

		segments = append(segments, current)
		current = Segment{}
		name.Reset()

		return nil
	}

	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case separator:
			if err := flush(); err != nil {
				return Path{}, malformed(s, err)
			}

		case keyOpen:
			if current.Name == "" {
				current.Name = name.String()
				if current.Name == "" {
					return Path{}, malformed(s, ErrEmptySegment)
				}
			}

			key, next, err := readKey(runes, i+1)
			if err != nil {
				return Path{}, malformed(s, err)
			}

			current.Keys = append(current.Keys, key)
			i = next

			if i+1 < len(runes) && runes[i+1] != keyOpen && runes[i+1] != separator {
				return Path{}, malformed(s, ErrUnexpectedToken)
			}

		case keyClose:
			return Path{}, malformed(s, ErrUnbalanced)

		default:
			name.WriteRune(r)
		}
	}

	if err := flush(); err != nil {
		return Path{}, malformed(s, err)
	}

	return Path{Segments: segments}, nil
}

// readKey reads a key starting right after '[' and returns it together with
// the index of the closing bracket.
func readKey(runes []rune, start int) (string, int, error) {
	if start >= len(runes) {
		return "", 0, ErrUnbalanced
	}

	if q := runes[start]; q == singleQuoted || q == doubleQuoted {
		for end := start + 1; end < len(runes); end++ {
			if runes[end] != q {
				continue
			}

			if end+1 >= len(runes) || runes[end+1] != keyClose {
				return "", 0, ErrUnbalanced
			}

			key := string(runes[start+1 : end])
			if key == "" {
				return "", 0, ErrEmptyKey
			}

			return key, end + 1, nil
		}

		return "", 0, ErrUnbalanced
	}

	for end := start; end < len(runes); end++ {
		switch runes[end] {
		case keyOpen:
			return "", 0, ErrUnbalanced
		case keyClose:
			key := strings.TrimSpace(string(runes[start:end]))
			if key == "" {
				return "", 0, ErrEmptyKey
			}

			return key, end, nil
		}
	}

	return "", 0, ErrUnbalanced
}

func malformed(path string, cause error) error {
	return diagnostic.InvalidProperty(nil, path, diagnostic.ReasonMalformedPath, cause)
}

// isValidIdent checks if a string is a valid property identifier.
func isValidIdent(s string) bool {
	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return false
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return s != ""
}

// String returns the path in canonical form.
func (p Path) String() string {
	var sb strings.Builder

	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteRune(separator)
		}

		sb.WriteString(seg.String())
	}

	return sb.String()
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.Segments)
}

// IsEmpty returns true if the path has no segments.
func (p Path) IsEmpty() bool {
	return len(p.Segments) == 0
}

// IsNested returns true if the path spans more than one segment.
func (p Path) IsNested() bool {
	return len(p.Segments) > 1
}

// Root returns the first segment's name.
func (p Path) Root() string {
	if len(p.Segments) == 0 {
		return ""
	}

	return p.Segments[0].Name
}

// Last returns the terminal segment.
func (p Path) Last() Segment {
	if len(p.Segments) == 0 {
		return Segment{}
	}

	return p.Segments[len(p.Segments)-1]
}

// Parent returns the path without its terminal segment.
func (p Path) Parent() Path {
	if len(p.Segments) <= 1 {
		return Path{}
	}

	return Path{Segments: p.Segments[:len(p.Segments)-1]}
}

// Prefix returns the canonical text of the first n segments.
func (p Path) Prefix(n int) string {
	n = min(n, len(p.Segments))

	return Path{Segments: p.Segments[:n]}.String()
}

// StripKeys returns the path with every key removed, e.g. "items.name" for
// "items[0].name".
func (p Path) StripKeys() string {
	var sb strings.Builder

	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteRune(separator)
		}

		sb.WriteString(seg.Name)
	}

	return sb.String()
}

// Equals returns true if two paths are equal.
func (p Path) Equals(other Path) bool {
	if len(p.Segments) != len(other.Segments) {
		return false
	}

	for i, seg := range p.Segments {
		if !seg.Equals(other.Segments[i]) {
			return false
		}
	}

	return true
}

// String returns the segment in canonical form.
func (s Segment) String() string {
	var sb strings.Builder

	sb.WriteString(s.Name)

	for _, key := range s.Keys {
		sb.WriteRune(keyOpen)
		sb.WriteString(quoteKey(key))
		sb.WriteRune(keyClose)
	}

	return sb.String()
}

// Base returns the segment without its last key, so "matrix[1][2]" gives
// "matrix[1]".
func (s Segment) Base() Segment {
	if len(s.Keys) == 0 {
		return s
	}

	return Segment{Name: s.Name, Keys: s.Keys[:len(s.Keys)-1]}
}

// HasKeys returns true if the segment indexes into a container.
func (s Segment) HasKeys() bool {
	return len(s.Keys) > 0
}

// Equals returns true if two segments are equal.
func (s Segment) Equals(other Segment) bool {
	if s.Name != other.Name || len(s.Keys) != len(other.Keys) {
		return false
	}

	for i, key := range s.Keys {
		if key != other.Keys[i] {
			return false
		}
	}

	return true
}

// quoteKey quotes keys that would not survive re-parsing unquoted.
func quoteKey(key string) string {
	if !strings.ContainsAny(key, "[]'\"") && strings.TrimSpace(key) == key {
		return key
	}

	if strings.ContainsRune(key, singleQuoted) {
		return string(doubleQuoted) + key + string(doubleQuoted)
	}

	return string(singleQuoted) + key + string(singleQuoted)
}

// Canonical parses s and returns its canonical form; malformed input is
// returned unchanged.
func Canonical(s string) string {
	p, err := Parse(s)
	if err != nil {
		return s
	}

	return p.String()
}

// StripKeys removes every key from s, e.g. "items[0].name" gives
// "items.name". Malformed input is returned unchanged.
func StripKeys(s string) string {
	p, err := Parse(s)
	if err != nil {
		return s
	}

	return p.StripKeys()
}
