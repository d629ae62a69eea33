package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
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

// Common error codes
const (
	ErrAuthenticationRequired ErrorCode = iota + 1000
	ErrAuthorizationDenied
	ErrValidationFailed
	ErrNotFound
	ErrUpstreamFailure
	ErrOfflineQueued
)

// AuthenticationRequired means no authenticated session is present.
func AuthenticationRequired(err error) *AppError {
	return &AppError{
		Code:    ErrAuthenticationRequired,
		Message: "authentication required",
		Err:     err,
	}
}

// AuthorizationDenied means a session exists but has no usable clinic
// profile, or the profile's clinic does not own the target row.
func AuthorizationDenied(err error) *AppError {
	return &AppError{
		Code:    ErrAuthorizationDenied,
		Message: "not authorized",
		Err:     err,
	}
}

// ValidationFailed carries a field-keyed error map. It is resolved at the
// call boundary and never reaches the data-access layer.
func ValidationFailed(fields map[string]string) *AppError {
	return &AppError{
		Code:    ErrValidationFailed,
		Message: "validation failed",
		Fields:  fields,
	}
}

// NotFound covers both a genuinely absent row and a row outside the
// caller's clinic. The two are indistinguishable on purpose.
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

// Upstream wraps a backend or storage failure, preserving the original
// message for diagnostics.
func Upstream(op string, err error) *AppError {
	return &AppError{
		Code:    ErrUpstreamFailure,
		Message: fmt.Sprintf("%s failed", op),
		Err:     err,
	}
}

// OfflineQueued is a deferred-success state, not a failure: the mutation
// was recorded in the pending queue and will be replayed on reconnect.
func OfflineQueued(kind string) *AppError {
	return &AppError{
		Code:    ErrOfflineQueued,
		Message: fmt.Sprintf("%s change queued for sync", kind),
	}
}

// Code extracts the ErrorCode from err, or ErrUpstreamFailure when err is
// not an AppError.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrUpstreamFailure
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
