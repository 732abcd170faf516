package service

import (
	"errors"
	"fmt"
)

// Callers branch on these tags, never on error strings. Anything a service
// method returns that is none of them is a storage failure and must be
// surfaced generically (the backend detail stays in the server log).
var (
	// ErrNotFound means the ref resolved to no document.
	ErrNotFound = errors.New("document not found")
	// ErrForbidden means the presented edit key did not match the stored
	// one. The message never hints at the real key.
	ErrForbidden = errors.New("invalid edit key")
)

// ValidationError reports a user-fixable problem with one input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
