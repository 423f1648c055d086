package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// CompositeError collects the failures of a batch update. Every failure
// stays reachable through Errors, errors.Is and errors.As.
type CompositeError struct {
	err error
}

// NewComposite combines errs, skipping nils.
func NewComposite(errs ...error) *CompositeError {
	return &CompositeError{err: multierr.Combine(errs...)}
}

// Append adds a failure; nil is ignored.
func (c *CompositeError) Append(err error) {
	c.err = multierr.Append(c.err, err)
}

// Errors returns the individual failures in the order they were added.
func (c *CompositeError) Errors() []error {
	return multierr.Errors(c.err)
}

// Len returns the number of failures.
func (c *CompositeError) Len() int {
	return len(c.Errors())
}

// ErrOrNil returns c when it holds failures and nil otherwise.
func (c *CompositeError) ErrOrNil() error {
	if c == nil || c.err == nil {
		return nil
	}

	return c
}

// Failure returns the first failure recorded for path, or nil.
func (c *CompositeError) Failure(path string) error {
	for _, err := range c.Errors() {
		var e *Error
		if errors.As(err, &e) && e.Path == path {
			return err
		}
	}

	return nil
}

// Error lists every failure.
func (c *CompositeError) Error() string {
	errs := c.Errors()

	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}

	return fmt.Sprintf("%d property access failure(s): %s", len(errs), strings.Join(parts, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (c *CompositeError) Unwrap() []error {
	return c.Errors()
}
