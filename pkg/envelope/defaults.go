package envelope

import "github.com/fastygo/envelope/pkg/pipeline"

// DefaultSuccess is {code: current status, data: decoded response body}.
func DefaultSuccess() Spec {
	return MustSpec(
		Resolve("code", func(c *pipeline.Context, _ error) (any, error) {
			return c.StatusCode(), nil
		}),
		Resolve("data", func(c *pipeline.Context, _ error) (any, error) {
			return DecodeBody(c)
		}),
	)
}

// DefaultFail is {code: error status or 500, message: error text}.
func DefaultFail() Spec {
	return MustSpec(
		Resolve("code", func(_ *pipeline.Context, err error) (any, error) {
			return errorStatus(err), nil
		}),
		Resolve("message", func(_ *pipeline.Context, err error) (any, error) {
			if err == nil {
				return "", nil
			}
			return err.Error(), nil
		}),
	)
}
