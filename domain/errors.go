package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeTeapot       ErrorCode = "TEAPOT"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

var codeStatus = map[ErrorCode]int{
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeInvalid:      http.StatusBadRequest,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTeapot:       http.StatusTeapot,
	ErrCodeInternal:     http.StatusInternalServerError,
}

// Error represents a domain-level error. Its StatusCode lets the response
// envelope pick the HTTP status without knowing about domain codes.
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

// StatusCode maps the error code to an HTTP status; unknown codes map to 500.
func (e *Error) StatusCode() int {
	if e == nil {
		return 0
	}
	if status, ok := codeStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
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
	ErrUnauthorized = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrTeapot       = NewError(ErrCodeTeapot, "I'm a teapot")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
