// Package errors provides structured error types for netblend.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, pipeline, and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (architecture, scale, format)
//   - EMPTY_*: Required collections that were empty
//   - *_NOT_FOUND: Missing resources
//   - INTERNAL_*: Unexpected internal errors
//
// Every code is a configuration or programmer error. None are transient and
// nothing in netblend retries them.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidLayerShape, "layer %d: width must be positive", i)
//	if errors.Is(err, errors.ErrCodeInvalidLayerShape) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Architecture and layout validation errors
	ErrCodeInvalidLayerShape Code = "INVALID_LAYER_SHAPE"
	ErrCodeEmptyArchitecture Code = "EMPTY_ARCHITECTURE"
	ErrCodeInvalidAxis       Code = "INVALID_AXIS"
	ErrCodeInvalidScale      Code = "INVALID_SCALE"

	// General input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Placement callback failures
	ErrCodePlacementFailed Code = "PLACEMENT_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// The outermost *Error in the chain decides.
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

// IsInputError reports whether err carries a code caused by bad caller input
// rather than an internal failure. Transport layers use it to pick between
// client and server error responses.
func IsInputError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidLayerShape, ErrCodeEmptyArchitecture, ErrCodeInvalidAxis,
		ErrCodeInvalidScale, ErrCodeInvalidInput, ErrCodeInvalidFormat,
		ErrCodeInvalidConfig, ErrCodeFileNotFound:
		return true
	}
	return false
}
