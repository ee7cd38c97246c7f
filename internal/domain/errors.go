package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a quiz session has not been initialized.
var ErrSessionNotFound = errors.New("quiz session not found")

// ValidationError reports a missing or malformed input field. The caller
// can fix the request; validation stops at the first offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// StorageError wraps a read or write failure against the backing store.
// It is surfaced verbatim and never retried.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PreconditionError reports an action attempted outside its valid
// session state, e.g. submitting a rating before completion.
type PreconditionError struct {
	Action string
	State  SessionState
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s not allowed in session state %q", e.Action, e.State)
}
