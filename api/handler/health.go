package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/envelope/pkg/pipeline"
)

type HealthHandler struct {
	baseHandler
	appName     string
	environment string
	startedAt   time.Time
}

func NewHealthHandler(appName, environment string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(logger),
		appName:     appName,
		environment: environment,
		startedAt:   time.Now(),
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(c *pipeline.Context) error {
	return h.respondJSON(c, http.StatusOK, map[string]interface{}{
		"app":         h.appName,
		"environment": h.environment,
		"timestamp":   time.Now().UTC(),
		"uptime":      time.Since(h.startedAt).Round(time.Second).String(),
	})
}
