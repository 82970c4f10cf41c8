// Package api dispatches calls to the supported backend API families.
package api

import (
	"errors"
	"fmt"
)

// ErrMalformedParams indicates a parameter expression could not be parsed
// into a string-keyed mapping.
var ErrMalformedParams = errors.New("malformed params")

// ErrUnknownFamily indicates an API family outside the supported set.
var ErrUnknownFamily = errors.New("unknown api family")

// RemoteError is a typed failure from a backend API call.
type RemoteError struct {
	// Status is the HTTP-like status code, 0 when not available.
	Status int
	// Message describes the failure.
	Message string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("remote error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote error: %s", e.Message)
}
