package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common error types
var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("operation conflicts with current state")
)

// AppError represents an application-level error with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrInvalidInput creates a validation error
func ErrInvalidInput(message string) error {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
	}
}

// ErrNotFoundWithMsg creates a not found error with custom message
func ErrNotFoundWithMsg(message string) error {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
		Err:     ErrNotFound,
	}
}

// ErrConflictWithMsg creates a conflict error with custom message
func ErrConflictWithMsg(message string) error {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Err:     ErrConflict,
	}
}

// ErrorKind classifies a single field-level validation failure
type ErrorKind string

// Field error kinds
const (
	KindRequired          ErrorKind = "required"
	KindTooLong           ErrorKind = "too_long"
	KindInvalidCharacters ErrorKind = "invalid_characters"
	KindInvalidFormat     ErrorKind = "invalid_format"
	KindUnsafeContent     ErrorKind = "unsafe_content"
	KindDuplicateValue    ErrorKind = "duplicate_value"
)

// FieldError is one problem found with one field
type FieldError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ValidationError collects every field-level problem found in a candidate record.
// A nil or empty ValidationError means the candidate passed.
type ValidationError struct {
	Fields map[string][]FieldError
}

// NewValidationError returns an empty error ready to collect field problems
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]FieldError)}
}

// Add records a problem for field
func (e *ValidationError) Add(field string, kind ErrorKind, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]FieldError)
	}
	e.Fields[field] = append(e.Fields[field], FieldError{Kind: kind, Message: message})
}

// Has reports whether field failed with the given kind
func (e *ValidationError) Has(field string, kind ErrorKind) bool {
	if e == nil {
		return false
	}
	for _, fe := range e.Fields[field] {
		if fe.Kind == kind {
			return true
		}
	}
	return false
}

// Empty reports whether no problems were recorded
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Messages flattens the error to field -> messages for API responses
func (e *ValidationError) Messages() map[string][]string {
	out := make(map[string][]string, len(e.Fields))
	for field, errs := range e.Fields {
		msgs := make([]string, 0, len(errs))
		for _, fe := range errs {
			msgs = append(msgs, fe.Message)
		}
		out[field] = msgs
	}
	return out
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		for _, fe := range e.Fields[field] {
			parts = append(parts, fmt.Sprintf("%s: %s", field, fe.Message))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ErrDuplicateEmail builds the error returned when an email is already taken
func ErrDuplicateEmail() *ValidationError {
	verr := NewValidationError()
	verr.Add(FieldEmail, KindDuplicateValue, "A customer with this email already exists.")
	return verr
}
