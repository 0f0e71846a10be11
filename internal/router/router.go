package router

import (
	"github.com/fastygo/envelope/api/handler"
	"github.com/fastygo/envelope/pkg/pipeline"
)

type Handlers struct {
	Health *handler.HealthHandler
	Demo   *handler.DemoHandler
	// Metrics is optional; the route is skipped when nil.
	Metrics *handler.MetricsHandler
}

// Register mounts every route on app.
func Register(app *pipeline.App, handlers Handlers, authMiddleware func(pipeline.Handler) pipeline.Handler, metricsPath string) {
	app.GET("/health", handlers.Health.Check)

	app.GET("/hello", handlers.Demo.Hello)
	app.GET("/text", handlers.Demo.Text)
	app.POST("/echo", handlers.Demo.Echo)
	app.GET("/error", handlers.Demo.Fail)
	app.GET("/teapot", handlers.Demo.Teapot)
	app.GET("/_raw", handlers.Demo.Raw)

	// Protected routes
	app.GET("/me", authMiddleware(handlers.Demo.Me))

	if handlers.Metrics != nil && metricsPath != "" {
		app.GET(metricsPath, handlers.Metrics.Serve)
	}
}
