package envelope

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid middleware configuration. It is returned at
// setup time, never while serving requests.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return e.Reason }

// ErrNoApp is returned by New when no pipeline is supplied.
var ErrNoApp = &ConfigError{Reason: "No app"}

// ErrAborted is returned when the request context is cancelled while an
// envelope is being built. Nothing is written in that case.
var ErrAborted = errors.New("envelope: request aborted")

// ResolverError wraps a failure of a user-supplied field or status resolver.
// It is not turned into a failure envelope; the pipeline reports it as unhandled.
type ResolverError struct {
	Field string
	Err   error
}

func (e *ResolverError) Error() string {
	return fmt.Sprintf("envelope: resolve %q: %v", e.Field, e.Err)
}

func (e *ResolverError) Unwrap() error { return e.Err }

// passthrough reports whether err was produced while building an envelope
// and must not be wrapped in another one.
func passthrough(err error) bool {
	var rerr *ResolverError
	return errors.As(err, &rerr) || errors.Is(err, ErrAborted)
}
