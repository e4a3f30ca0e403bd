package errors

import (
	"fmt"
)

// FriendlyError is an error whose message is meant to be shown directly to
// the user, without any of the wrapping context.
type FriendlyError interface {
	FriendlyMessage() string
}

type friendlyError struct {
	msg string
}

func (err friendlyError) Error() string {
	return err.msg
}

func (err friendlyError) FriendlyMessage() string {
	return err.msg
}

// NewFriendlyError creates a new error that will be printed to the user
// verbatim.
func NewFriendlyError(format string, args ...interface{}) error {
	return friendlyError{fmt.Sprintf(format, args...)}
}

// GetPrintableMessage returns the message that should be shown to the user
// for the given error. If any error in the chain is friendly, its message is
// used. Otherwise, the full error string is returned.
func GetPrintableMessage(err error) string {
	for curr := err; curr != nil; {
		if friendly, ok := curr.(FriendlyError); ok {
			return friendly.FriendlyMessage()
		}

		ctxErr, ok := curr.(ContextError)
		if !ok {
			break
		}
		curr = ctxErr.Err
	}
	return err.Error()
}
