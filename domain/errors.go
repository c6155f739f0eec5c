package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeExhausted    ErrorCode = "EXHAUSTED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrAccountNotFound = NewError(ErrCodeNotFound, "account not found")
	ErrSessionNotFound = NewError(ErrCodeNotFound, "session not found")
	ErrModuleNotFound  = NewError(ErrCodeNotFound, "module not found")

	// All authentication failures collapse into one message on purpose:
	// callers must not learn whether the identifier, the secret, or the
	// active flag was the problem.
	ErrAuthenticationFailed = NewError(ErrCodeUnauthorized, "invalid credentials or inactive account")
	ErrUnauthorized         = NewError(ErrCodeUnauthorized, "unauthorized")

	ErrAdminRequired    = NewError(ErrCodeForbidden, "admin role required")
	ErrSelfDeletion     = NewError(ErrCodeForbidden, "cannot delete your own account")
	ErrSelfDeactivation = NewError(ErrCodeForbidden, "cannot deactivate your own account")
	ErrModuleLocked     = NewError(ErrCodeForbidden, "subscription tier does not unlock this module")
	ErrCreditsExhausted = NewError(ErrCodeExhausted, "daily credit limit reached")
	ErrDuplicateAccount = NewError(ErrCodeConflict, "username or email already in use")
	ErrImmutableField   = NewError(ErrCodeInvalid, "field is immutable")
	ErrInvalidPayload   = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
