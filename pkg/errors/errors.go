// Package errors provides structured error types for statmap.
//
// Errors carry a machine-readable [Code] so that the CLI and the HTTP API can
// report misconfiguration consistently. Missing data is never an error in
// statmap: only configuration and I/O problems produce an [*Error].
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: configuration or input validation failures
//   - NOT_FOUND: resource not found
//   - NETWORK_ERROR: remote data retrieval failed
//   - INTERNAL_ERROR: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidClassCount, "class count must be positive, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidClassCount) {
//	    // Handle misconfiguration
//	}
//
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeInvalidClassCount Code = "INVALID_CLASS_COUNT"
	ErrCodeInvalidThresholds Code = "INVALID_THRESHOLDS"
	ErrCodeInvalidMethod     Code = "INVALID_METHOD"
	ErrCodeInvalidSizeRange  Code = "INVALID_SIZE_RANGE"
	ErrCodeInvalidColor      Code = "INVALID_COLOR"
	ErrCodeInvalidCategories Code = "INVALID_CATEGORIES"
	ErrCodeInvalidMapType    Code = "INVALID_MAP_TYPE"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"

	// Input errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidData  Code = "INVALID_DATA"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsConfig reports whether err is a misconfiguration error (any INVALID_* code).
func IsConfig(err error) bool {
	return strings.HasPrefix(string(GetCode(err)), "INVALID_")
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
