package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("request validation failed")
	ErrInvalidHSCode      = errors.New("invalid HS code")
	ErrCatalogUnavailable = errors.New("catalog is not loaded")
	ErrComputation        = errors.New("quote computation failed")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
)

// FieldError is one field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field-level problem found in a request.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ComputationError wraps an unexpected fault inside quote orchestration.
type ComputationError struct {
	Op  string
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrComputation.Error(), e.Op, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrComputation) match any ComputationError.
func (e *ComputationError) Is(target error) bool {
	return target == ErrComputation
}
