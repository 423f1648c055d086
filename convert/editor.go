package convert

import (
	"fmt"
	"sync"
)

// Editor is a stateful text/value editor: a value is loaded with SetValue
// or parsed with SetAsText and read back with Value.
type Editor interface {
	SetAsText(text string) error
	SetValue(value any)
	Value() any
}

// FromEditor adapts an editor to the Converter interface. Editors are not
// safe for concurrent use; a shared editor is serialized by a mutex held
// for the whole set-then-read sequence.
func FromEditor(e Editor, shared bool) Converter {
	c := &editorConverter{editor: e}
	if shared {
		c.mu = &sync.Mutex{}
	}

	return c
}

type editorConverter struct {
	editor Editor
	mu     *sync.Mutex
}

// Convert loads the old value first so text parsing can build on it.
func (c *editorConverter) Convert(ctx Context, value any) (any, error) {
	if c.mu != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
	}

	text, ok := value.(string)
	if !ok {
		c.editor.SetValue(value)
		return c.editor.Value(), nil
	}

	if ctx.OldValue != nil {
		c.editor.SetValue(ctx.OldValue)
	}

	if err := c.editor.SetAsText(text); err != nil {
		return nil, err
	}

	return c.editor.Value(), nil
}

// String names the adapted editor.
func (c *editorConverter) String() string {
	return fmt.Sprintf("%T", c.editor)
}
