// Package errors provides structured error types for sourcescout.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the pipeline stages and the CLI
//   - Machine-readable error codes for branching on failure classes
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes follow the failure taxonomy of the pipeline:
//   - TRANSPORT_EXHAUSTED: every retry of an outbound request failed
//   - ORACLE_CONTRACT: the completion endpoint replied with something unusable
//   - HTTP_STATUS: a content fetch returned a non-success status
//   - MISSING_DIRECTORY: a required input/output directory is absent
//   - INVALID_*: configuration or input validation failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeOracleContract, "no fenced json block in reply")
//	if errors.Is(err, errors.ErrCodeOracleContract) {
//	    // Drop this unit of work
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransportExhausted, origErr, "GET %s", url)
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
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidComponent Code = "INVALID_COMPONENT"
	ErrCodeInvalidFileName  Code = "INVALID_FILE_NAME"
	ErrCodeInvalidURL       Code = "INVALID_URL"

	// Filesystem precondition errors
	ErrCodeMissingDirectory Code = "MISSING_DIRECTORY"

	// Network errors
	ErrCodeTransportExhausted Code = "TRANSPORT_EXHAUSTED"
	ErrCodeHTTPStatus         Code = "HTTP_STATUS"

	// Oracle errors
	ErrCodeOracleContract Code = "ORACLE_CONTRACT"

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
// Only the outermost *Error is consulted.
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

// StatusError reports a non-success HTTP status on a content fetch.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Code returns the error code for this error type.
func (e *StatusError) Code() Code {
	return ErrCodeHTTPStatus
}

// NewStatusError wraps a StatusError in a coded Error so both errors.As and Is work.
func NewStatusError(url string, status int) *Error {
	return Wrap(ErrCodeHTTPStatus, &StatusError{URL: url, StatusCode: status}, "fetch %s", url)
}
