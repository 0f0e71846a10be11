package main

import (
	"context"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/envelope/api/handler"
	"github.com/fastygo/envelope/internal/config"
	"github.com/fastygo/envelope/internal/middleware"
	"github.com/fastygo/envelope/internal/router"
	"github.com/fastygo/envelope/internal/services/lifecycle"
	"github.com/fastygo/envelope/pkg/envelope"
	"github.com/fastygo/envelope/pkg/logger"
	"github.com/fastygo/envelope/pkg/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)

	app := pipeline.New(pipeline.Config{
		RequestTimeout: cfg.Context.RequestTimeout,
		Logger:         zapLogger,
	})
	app.Use(middleware.AccessLog())

	opts := envelope.Options{Logger: zapLogger}
	if cfg.Envelope.FixedStatus != 0 {
		opts.Status = envelope.FixedStatus(cfg.Envelope.FixedStatus)
	}

	handlers := router.Handlers{
		Health: apiHandler.NewHealthHandler(cfg.AppName, cfg.Environment, zapLogger),
		Demo:   apiHandler.NewDemoHandler(zapLogger),
	}
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		if opts.Metrics, err = envelope.NewMetrics(registry); err != nil {
			zapLogger.Fatal("metrics registration failed", zap.Error(err))
		}
		handlers.Metrics = apiHandler.NewMetricsHandler(registry)
	}

	mw, err := envelope.New(app, opts)
	if err != nil {
		zapLogger.Fatal("envelope setup failed", zap.Error(err))
	}
	app.Use(mw)

	if cfg.JWT.Secret == "" {
		zapLogger.Warn("JWT_SECRET is empty, /me accepts tokens signed with an empty key")
	}
	router.Register(app, handlers, middleware.JWTAuth(cfg.JWT.Secret, zapLogger), cfg.Metrics.Path)

	server := &fasthttp.Server{
		Handler:      app.Handler(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	manager.Go("http_server", func() error {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		return server.ListenAndServe(cfg.Address())
	})
	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	waitErr := manager.Wait(context.Background())

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
	if waitErr != nil {
		zapLogger.Fatal("server crashed", zap.Error(waitErr))
	}
}
