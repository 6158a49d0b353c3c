// Package errors provides structured error types for swarmcheck.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, HTTP server, and core API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes are grouped into four categories (see the constant block):
//   - input validation: malformed or ill-formed input
//   - not found: a resource is absent
//   - network: transport-related errors (registry, cache)
//   - internal: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedJSON, "invalid protocol JSON: %v", parseErr)
//	if errors.Is(err, errors.ErrCodeMalformedJSON) {
//	    // Handle parse failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRegistryUnreachable, origErr, "fetching protocol %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors: these never reach the public surface as
	// Go errors (check_swarm/check_projection report them as plain
	// strings per spec.md §6); of the packages here, only pkg/registry
	// returns errors built from this package.
	ErrCodeMalformedJSON   Code = "MALFORMED_JSON"
	ErrCodeInvalidRole     Code = "INVALID_ROLE"
	ErrCodeNotSelfLoop     Code = "NOT_SELF_LOOP"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeProtocolNotFound Code = "PROTOCOL_NOT_FOUND"
	ErrCodeCacheMiss        Code = "CACHE_MISS"

	// Network errors (pkg/registry, pkg/cache's Redis backend)
	ErrCodeRegistryUnreachable Code = "REGISTRY_UNREACHABLE"
	ErrCodeTimeout             Code = "TIMEOUT"
	ErrCodeRateLimited         Code = "RATE_LIMITED"

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

// RateLimitedError carries the retry-after hint a registry backend
// returns on a 429, surfaced separately from Error since it carries
// structured retry data rather than just a message.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
