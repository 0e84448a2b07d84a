package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// NewEnumError creates a ValidationError naming the offending value and
// the allowed set for an enumerated field.
func NewEnumError[T fmt.Stringer](field, value string, allowed []T) *ValidationError {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = a.String()
	}
	return NewValidationError(field,
		fmt.Sprintf("unknown value %q, allowed: %s", value, strings.Join(names, ", ")))
}

// PosConflictError signals that a merge found more than one distinct
// part-of-speech tag and no decider was available to choose between them.
type PosConflictError struct {
	Title string
	Tags  []PartOfSpeech
}

func (e *PosConflictError) Error() string {
	names := make([]string, len(e.Tags))
	for i, t := range e.Tags {
		names[i] = t.String()
	}
	return fmt.Sprintf("pos conflict on %q: %s", e.Title, strings.Join(names, ", "))
}

func (e *PosConflictError) Unwrap() error { return ErrConflict }
