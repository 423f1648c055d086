package convert_test

import (
	"fmt"
	"strings"

	"github.com/propwire/propwire/convert"
)

type Color int

const (
	Red Color = iota
	Green
	Blue
)

func (c Color) String() string {
	switch c {
	case Red:
		return "Red"
	case Green:
		return "Green"
	case Blue:
		return "Blue"
	default:
		return fmt.Sprintf("Color(%d)", int(c))
	}
}

type Size string

const (
	Small Size = "S"
	Large Size = "L"
)

func init() {
	convert.RegisterEnum(Red, Green, Blue)
	convert.RegisterEnumNames(map[string]Size{"SMALL": Small, "LARGE": Large})
}

// level parses itself from text.
type level int

func (l *level) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "low":
		*l = 1
	case "high":
		*l = 2
	default:
		return fmt.Errorf("unknown level %q", text)
	}

	return nil
}

type point struct{ X, Y int }

func (p *point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

type money struct {
	Cents int64
}

func (m money) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d.%02d", m.Cents/100, m.Cents%100)), nil
}
