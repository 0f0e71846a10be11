package handler

import (
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/fastygo/envelope/domain"
	"github.com/fastygo/envelope/pkg/pipeline"
)

type baseHandler struct {
	logger *zap.Logger
}

func newBaseHandler(logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{logger: logger}
}

func (h baseHandler) respondJSON(c *pipeline.Context, status int, payload interface{}) error {
	c.Status(status)
	return c.JSON(payload)
}

func (h baseHandler) decode(c *pipeline.Context, dst interface{}) error {
	if err := json.Unmarshal(c.Request().Body(), dst); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
	}
	return nil
}
