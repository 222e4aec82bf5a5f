package utils

import (
	"errors"
	"fmt"
)

// ValidationError represents an error occurring during data validation.
type ValidationError struct {
	Message string
}

// Error returns the error message string.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError with a specific message.
//
// Parameters:
//   - message: The validation error message.
//
// Returns:
//   - An error interface wrapping the ValidationError.
func NewValidationError(message string) error {
	return &ValidationError{
		Message: message,
	}
}

// NewValidationErrorf creates a new ValidationError with a formatted message.
func NewValidationErrorf(format string, args ...interface{}) error {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
	}
}

// NotFoundError is returned when a player or prediction does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s with id %s not found", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError for the given resource and id.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// UpstreamFetchError is returned when the external roster source is
// unreachable or returns a payload that cannot be decoded.
type UpstreamFetchError struct {
	Source string
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("upstream fetch from %s failed: %v", e.Source, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// NewUpstreamFetchError wraps err as an UpstreamFetchError.
func NewUpstreamFetchError(source string, err error) error {
	return &UpstreamFetchError{Source: source, Err: err}
}

// PersistenceError is returned when a store read or write fails.
// It is fatal for the current operation and never retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err as a PersistenceError for the operation op.
func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsUpstreamFetch reports whether err is or wraps an UpstreamFetchError.
func IsUpstreamFetch(err error) bool {
	var target *UpstreamFetchError
	return errors.As(err, &target)
}

// IsPersistence reports whether err is or wraps a PersistenceError.
func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
