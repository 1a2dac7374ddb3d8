// Package apperr provides coded application errors so callers can map
// failures to the proper transport response.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies the kind of an application error.
type Code string

const (
	ErrInternal     Code = "INTERNAL_ERROR"
	ErrValidation   Code = "VALIDATION_ERROR"
	ErrNotFound     Code = "NOT_FOUND"
	ErrImportFormat Code = "IMPORT_FORMAT_ERROR"
	ErrStorage      Code = "STORAGE_ERROR"
)

// Error is an application error with a code, a message and an optional
// wrapped cause. Validation errors additionally carry the per-field
// messages collected by the validator.
type Error struct {
	Code    Code
	Message string
	Fields  []string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case len(e.Fields) > 0:
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, strings.Join(e.Fields, "; "))
	case e.Err != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an application error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an existing error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Validation creates a validation error carrying field-level messages.
func Validation(fields []string) *Error {
	return &Error{Code: ErrValidation, Message: "validation failed", Fields: fields}
}

// CodeOf returns the code of err, or ErrInternal when err carries none.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// MessageOf returns the message of err, or its plain Error text when err
// is not an application error.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// FieldsOf returns the field messages of a validation error, or nil.
func FieldsOf(err error) []string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
