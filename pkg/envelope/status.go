package envelope

import (
	"github.com/valyala/fasthttp"

	"github.com/fastygo/envelope/pkg/pipeline"
)

// StatusFunc computes the outer HTTP status. On the success path err is nil.
type StatusFunc func(c *pipeline.Context, err error) (int, error)

// StatusResolver decides the transport status of an enveloped response. It is
// either a fixed code or a function; the zero value selects DefaultStatus.
// The status is resolved independently of any status-like envelope field.
type StatusResolver struct {
	fixed int
	fn    StatusFunc
}

// FixedStatus always answers with code.
func FixedStatus(code int) StatusResolver {
	return StatusResolver{fixed: code}
}

// DynamicStatus computes the status per request.
func DynamicStatus(fn StatusFunc) StatusResolver {
	return StatusResolver{fn: fn}
}

// DefaultStatus uses the error's status (500 when it carries none) or, with
// no error, the response's current status.
func DefaultStatus() StatusResolver {
	return DynamicStatus(func(c *pipeline.Context, err error) (int, error) {
		if err != nil {
			return errorStatus(err), nil
		}
		return c.StatusCode(), nil
	})
}

// IsZero reports whether the resolver is unset.
func (s StatusResolver) IsZero() bool { return s.fixed == 0 && s.fn == nil }

// Resolve returns the status for the current request.
func (s StatusResolver) Resolve(c *pipeline.Context, err error) (int, error) {
	if s.fn == nil {
		return s.fixed, nil
	}
	return s.fn(c, err)
}

func errorStatus(err error) int {
	if status := pipeline.StatusOf(err); status != 0 {
		return status
	}
	return fasthttp.StatusInternalServerError
}
