// Package domainerrors defines coded errors that cross layer boundaries.
//
// Services return these so transport can translate them into HTTP responses
// without inspecting error strings. Infrastructure facts (not found, expired)
// live in pkg/platform/sentinel; stores return sentinels and services wrap
// them into coded errors here.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies an error category. The string value is the wire-visible
// error code in JSON envelopes.
type Code string

const (
	// CodeInvalidInput marks a caller contract violation: malformed call
	// arguments, missing required identity fields. Never swallowed silently.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest marks a malformed or semantically invalid request body.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks a missing entity.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a uniqueness or state conflict.
	CodeConflict Code = "conflict"
	// CodeUnauthorized marks missing or invalid credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks an authenticated caller without access.
	CodeForbidden Code = "forbidden"
	// CodeInternal marks an unexpected server-side failure. Descriptions are
	// never echoed to clients for this code.
	CodeInternal Code = "internal_error"
)

// Error carries a code plus a human-readable message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// New constructs a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap constructs a coded error that preserves its cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability:
// dErrors.Is(err, dErrors.CodeBadRequest).
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// uncoded errors.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
