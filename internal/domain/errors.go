package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// ValidationError is a local, field-level rejection raised before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Fields returns the error in the field -> message shape used by the API envelope.
func (e *ValidationError) Fields() map[string]string {
	return map[string]string{e.Field: e.Message}
}
