package errors

import (
	"errors"
	"fmt"
)

// New returns an error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// ContextError annotates an error with the operation that caused it. The
// contexts compose as the error propagates up the call stack, so the final
// message reads like a path through the code.
type ContextError struct {
	Context string
	Err     error
}

func (err ContextError) Error() string {
	return fmt.Sprintf("%s: %s", err.Context, err.Err)
}

// Unwrap returns the wrapped error.
func (err ContextError) Unwrap() error {
	return err.Err
}

// WithContext wraps `err` with a message describing the operation that failed.
func WithContext(err error, context string) error {
	return ContextError{Context: context, Err: err}
}
