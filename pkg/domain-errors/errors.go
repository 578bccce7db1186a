// Package dErrors defines the domain error taxonomy. Services return these
// so transports can translate codes into protocol responses without parsing
// message strings.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks malformed or missing input, rejected before any
	// lookup happens.
	CodeValidation Code = "validation_error"

	// CodeBadRequest marks a structurally valid request that cannot be
	// served as asked (unsupported value, wrong content type).
	CodeBadRequest Code = "bad_request"

	// CodeNotFound marks an absent record. Records outside the caller's
	// tenant report the same code so existence cannot be probed.
	CodeNotFound Code = "not_found"

	// CodeGuardViolation marks a business-rule precondition that blocked a
	// transition. The message is safe to surface to an authenticated caller.
	CodeGuardViolation Code = "guard_violation"

	// CodeUnauthorized marks a failed credential check. Messages carry no
	// detail about which check failed.
	CodeUnauthorized Code = "unauthorized"

	// CodeForbidden marks an authenticated caller acting outside its role.
	CodeForbidden Code = "forbidden"

	// CodeConflict marks a uniqueness or concurrent-modification conflict.
	CodeConflict Code = "conflict"

	// CodeInvariantViolation marks a broken aggregate invariant. These are
	// programming or data errors, not user errors.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeInternal marks an unexpected failure. Details are logged, never
	// returned to callers.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with a code and a caller-safe message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause. The cause stays
// reachable through errors.Is/As for infrastructure sentinel checks.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	for errors.As(err, &domainErr) {
		if domainErr.Code == code {
			return true
		}
		err = domainErr.cause
		domainErr = nil
	}
	return false
}

// Is is a readability alias for HasCode used in tests and handlers.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the outermost code carried by err, or CodeInternal when err
// is not a domain error.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost caller-safe message, or an empty string.
func MessageOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return ""
}
