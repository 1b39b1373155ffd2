// Package errors provides structured error types for the raggedblocks
// application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND and *_NOT_FOUND: Resource not found
//   - INTERNAL_* and invariant codes: violations inside the layout core
//
// Invariant codes (MALFORMED_TOKEN_STREAM, NOT_RECTILINEAR,
// REGION_NOT_ADJACENT) are never produced for valid input trees; reaching one
// indicates a bug in the caller or the core itself, and the error propagates
// to the driver unchanged.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid document: %s", name)
//	if errors.HasCode(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "layout %s", algorithm)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidAlgorithm Code = "INVALID_ALGORITHM"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidDocument  Code = "INVALID_DOCUMENT"
	ErrCodeInvalidSetting   Code = "INVALID_SETTING"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeDocumentNotFound Code = "DOCUMENT_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

	// Internal invariant violations (never raised for valid input)
	ErrCodeInternal             Code = "INTERNAL_ERROR"
	ErrCodeMalformedTokenStream Code = "MALFORMED_TOKEN_STREAM"
	ErrCodeNotRectilinear       Code = "NOT_RECTILINEAR"
	ErrCodeRegionNotAdjacent    Code = "REGION_NOT_ADJACENT"

	// Cooperative cancellation
	ErrCodeAborted Code = "ABORTED"
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

// HasCode reports whether err or any error in its chain carries code.
func HasCode(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
		e = nil
	}
	return false
}

// CodeOf returns the code of the outermost structured error in the chain, or
// ErrCodeInternal if the chain carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// IsInternal reports whether err is an internal invariant violation.
func IsInternal(err error) bool {
	switch CodeOf(err) {
	case ErrCodeInternal, ErrCodeMalformedTokenStream, ErrCodeNotRectilinear, ErrCodeRegionNotAdjacent:
		return true
	}
	return false
}

// Is re-exports errors.Is so callers need a single errors import.
func Is(err, target error) bool { return errors.Is(err, target) }

// As re-exports errors.As so callers need a single errors import.
func As(err error, target any) bool { return errors.As(err, target) }
