package model

import (
	"errors"
	"fmt"
)

// ValidationError represents a validation failure: the operation is aborted
// and no state changes.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if an error is a validation error (including wrapped errors)
func IsValidationError(err error) bool {
	var validationErr ValidationError
	return errors.As(err, &validationErr)
}

// NotFoundError represents a missing pin, report item or stored value.
type NotFoundError struct {
	Field   string
	Message string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewNotFoundError constructs NotFoundError
func NewNotFoundError(field, message string) NotFoundError {
	return NotFoundError{Field: field, Message: message}
}

// IsNotFoundError checks if an error is a not-found error
func IsNotFoundError(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// PreconditionError represents an operation attempted outside its required
// mode, e.g. an admin mutation while in user mode.
type PreconditionError struct {
	Message string
}

func (e PreconditionError) Error() string { return e.Message }

// NewPreconditionError constructs PreconditionError
func NewPreconditionError(message string) PreconditionError {
	return PreconditionError{Message: message}
}

// IsPreconditionError checks if an error is a precondition error
func IsPreconditionError(err error) bool {
	var pe PreconditionError
	return errors.As(err, &pe)
}

// ErrBadPassphrase is returned when the admin passphrase does not match.
var ErrBadPassphrase = errors.New("wrong passphrase")
