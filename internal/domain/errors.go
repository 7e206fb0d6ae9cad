package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrDuplicateTagName = errors.New("tag name already exists")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
)

// ValidationError reports field-level validation failures. It matches
// ErrInvalidInput under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for the given field messages.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
