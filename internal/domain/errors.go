package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is the store-level marker for a lookup with no match. Services
// translate it into a NotFoundError naming the resource.
var ErrNotFound = errors.New("not found")

var (
	// ErrMissingCredential is returned when no Authorization header is present.
	ErrMissingCredential = errors.New("authorization code is empty")
	// ErrMalformedCredential is returned when the scheme prefix is not "Bearer".
	ErrMalformedCredential = errors.New("authorization scheme must be Bearer")
	// ErrInvalidCredential covers bad signatures, expiry and malformed payloads.
	ErrInvalidCredential = errors.New("the userkey is invalid")
)

// ValidationError reports the first offending field of a malformed request.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError names the resource that a lookup (or a listing that treats
// zero matches as an error) failed to find.
type NotFoundError struct {
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ConflictError reports a uniqueness violation, e.g. a duplicate email.
type ConflictError struct {
	Field   string
	Message string
}

func NewConflictError(field, message string) *ConflictError {
	return &ConflictError{Field: field, Message: message}
}

func (e *ConflictError) Error() string {
	return e.Message
}

// PersistenceError wraps a store failure. Handlers map it to a generic 500;
// the wrapped cause is logged, never leaked.
type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
