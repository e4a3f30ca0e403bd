package errors

import (
	"fmt"
)

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// PublishError represents a write to the destination catalog API that was
// neither a success nor a conflict resolved by the update fallback.
type PublishError struct {
	ID         string
	StatusCode int
	Body       string
}

func (err PublishError) Error() string {
	return fmt.Sprintf("publish %q failed with status code %d and response text: %s",
		err.ID, err.StatusCode, err.Body)
}
