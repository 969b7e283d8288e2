package apperrors

import (
	"errors"
	"fmt"
)

// Store errors
var (
	// ErrStoreUnavailable means the database could not be reached or the schema could not be created.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrQueryFailed means a single operation's SQL failed.
	ErrQueryFailed = errors.New("query failed")
)

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
)

// Resource errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrUserNotFound     = errors.New("user not found")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrPermissionDenied   = errors.New("you don't have permission for this action")
)

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// NewValidationError reports a field constraint violation. The result matches ErrValidationFailed.
func NewValidationError(field, message string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}

// NewQueryError wraps a failed store call. Connection-level failures should be passed as
// ErrStoreUnavailable via cause so callers can tell transient outages from bad queries.
func NewQueryError(op string, cause error) *CustomError {
	kind := ErrQueryFailed
	if errors.Is(cause, ErrStoreUnavailable) {
		kind = ErrStoreUnavailable
	}
	wrapped := kind
	if cause != nil && cause != kind {
		wrapped = fmt.Errorf("%w: %w", kind, cause)
	}
	return &CustomError{
		Err:     wrapped,
		Message: op + ": " + kind.Error(),
		Details: map[string]interface{}{"op": op},
	}
}
