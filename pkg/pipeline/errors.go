package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/valyala/fasthttp"
)

// HTTPError is a handler error that carries the HTTP status it should be reported with.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

// NewHTTPError builds an HTTPError. An empty message falls back to the status text.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Code: status, Message: message}
}

// WrapHTTPError attaches a status to an existing error.
func WrapHTTPError(status int, err error) *HTTPError {
	return &HTTPError{Code: status, Err: err}
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fasthttp.StatusMessage(e.Code)
	}
}

// Status reports the HTTP status carried by the error.
func (e *HTTPError) Status() int {
	if e == nil {
		return 0
	}
	return e.Code
}

func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

type statusCarrier interface {
	Status() int
}

type statusCodeCarrier interface {
	StatusCode() int
}

// StatusOf returns the HTTP status carried by err, looking for a Status() method
// first and a StatusCode() method second anywhere in the chain. An expired
// request deadline without either maps to 504. Zero means the error carries
// no status.
func StatusOf(err error) int {
	if err == nil {
		return 0
	}
	var sc statusCarrier
	if errors.As(err, &sc) {
		if status := sc.Status(); status != 0 {
			return status
		}
	}
	var scc statusCodeCarrier
	if errors.As(err, &scc) {
		if status := scc.StatusCode(); status != 0 {
			return status
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fasthttp.StatusGatewayTimeout
	}
	return 0
}

// PanicError wraps a value recovered from a panicking handler.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// unhandledError marks a failure the error handler itself could not deal with.
// It bypasses every remaining chain level and ends as a plain 500.
type unhandledError struct {
	err error
}

func (e *unhandledError) Error() string { return e.err.Error() }

func (e *unhandledError) Unwrap() error { return e.err }
