package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/propwire/propwire/utils"
)

var ErrUnknownType = errors.New("unknown type")

var catalog = map[string]func() any{
	"address":  func() any { return &Address{} },
	"customer": func() any { return &Customer{} },
	"order":    func() any { return &Order{} },
	"item":     func() any { return &OrderItem{} },
	"product":  func() any { return &Product{} },
	"settings": func() any { return &Settings{} },
}

// Names returns the sorted names accepted by New.
func Names() []string {
	return utils.SortedKeys(catalog)
}

// New returns a pointer to a fresh value of the named type.
func New(name string) (any, error) {
	factory, ok := catalog[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownType, name, strings.Join(Names(), ", "))
	}

	return factory(), nil
}
