// Package apperrors defines the error taxonomy shared by all services.
// Handlers translate these into HTTP statuses; callers can branch on them
// with errors.As.
package apperrors

import "fmt"

// NotFoundError reports that a referenced record does not exist. Not
// retryable.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// NewNotFound builds a NotFoundError for the given resource and id.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError reports malformed or missing input. The caller must fix
// the request before retrying.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidation builds a ValidationError with a formatted message.
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ForbiddenError reports that the requester is authenticated but not
// authorized for the operation. Not retryable without a role change.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string {
	return e.Msg
}

// NewForbidden builds a ForbiddenError with a formatted message.
func NewForbidden(format string, args ...interface{}) *ForbiddenError {
	return &ForbiddenError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports a stale write rejected by the version check.
// The caller should re-read and retry with fresh state.
type ConflictError struct {
	Resource string
	ID       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with ID %s was modified concurrently, stale write rejected", e.Resource, e.ID)
}

// NewConflict builds a ConflictError for the given resource and id.
func NewConflict(resource, id string) *ConflictError {
	return &ConflictError{Resource: resource, ID: id}
}

// TransientError wraps a store or network failure that is safe to retry.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransient wraps err as a TransientError for the named operation.
func NewTransient(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}
