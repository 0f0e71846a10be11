package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/fastygo/envelope/pkg/pipeline"
)

// MetricsHandler exposes a Prometheus registry. Its output is text exposition
// format and is always served raw.
type MetricsHandler struct {
	serve fasthttp.RequestHandler
}

func NewMetricsHandler(gatherer prometheus.Gatherer) *MetricsHandler {
	return &MetricsHandler{
		serve: fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
	}
}

// @Summary Prometheus metrics
// @Router /metrics [get]
func (h *MetricsHandler) Serve(c *pipeline.Context) error {
	c.SetRaw(true)
	h.serve(c.RequestCtx())
	return nil
}
