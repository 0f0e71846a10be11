package middleware

import (
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/envelope/pkg/pipeline"
)

// AccessLog logs one line per request once the rest of the chain, envelope included, has run.
func AccessLog() pipeline.Middleware {
	return func(c *pipeline.Context, next func() error) error {
		start := time.Now()
		err := next()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.Bool("raw", c.Raw()),
		}
		if c.Failed() {
			c.Logger().Warn("request failed", append(fields, zap.Error(c.Err()))...)
		} else {
			c.Logger().Info("request served", fields...)
		}
		return err
	}
}
