package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrStateConflict indicates the operation is not valid for the current state of a resource,
// e.g. paying more than the amount due.
var ErrStateConflict = errors.New("state conflict")

// ErrConfiguration indicates the system is missing reference data it needs, e.g. no active
// income category exists in a ledger domain.
var ErrConfiguration = errors.New("configuration error")

// ValidationError carries the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError is a shorthand for &ValidationError{...}.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError names the missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError is a shorthand for &NotFoundError{...}.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// StateConflictError describes why the entity cannot accept the operation.
type StateConflictError struct {
	Entity string
	ID     string
	Reason string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Reason)
}

func (e *StateConflictError) Unwrap() error { return ErrStateConflict }

// NewStateConflictError is a shorthand for &StateConflictError{...}.
func NewStateConflictError(entity, id, reason string) error {
	return &StateConflictError{Entity: entity, ID: id, Reason: reason}
}

// ConfigurationError reports missing reference data for a ledger domain.
type ConfigurationError struct {
	Domain string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in domain %s: %s", e.Domain, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// AppError wraps an underlying error with an HTTP-ish status code and a safe message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// IsNotFound reports whether err is any kind of not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
