package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownFunc describes a graceful shutdown callback.
type ShutdownFunc func(ctx context.Context) error

type hook struct {
	name string
	fn   ShutdownFunc
}

// Manager runs long-lived components, waits for a stop condition and tears
// components down in reverse registration order.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	hooks []hook

	failures chan error
}

// New creates a lifecycle manager with the desired shutdown timeout.
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		timeout:  timeout,
		logger:   logger,
		failures: make(chan error, 1),
	}
}

// Register adds a shutdown hook.
func (m *Manager) Register(name string, fn ShutdownFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook{name: name, fn: fn})
}

// Go runs fn in the background. A non-nil return ends Wait; only the first failure is kept.
func (m *Manager) Go(name string, fn func() error) {
	go func() {
		if err := fn(); err != nil {
			select {
			case m.failures <- fmt.Errorf("%s: %w", name, err):
			default:
			}
		}
	}()
}

// Wait blocks until ctx is done, SIGINT/SIGTERM arrives or a component started with Go fails.
// It returns the component failure, if that was the cause.
func (m *Manager) Wait(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		m.logger.Info("context done, stopping")
		return nil
	case sig := <-sigCh:
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		return nil
	case err := <-m.failures:
		m.logger.Error("component failed", zap.Error(err))
		return err
	}
}

// Shutdown executes all registered hooks in reverse order within the configured timeout.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	var result error
	for i := len(m.hooks) - 1; i >= 0; i-- {
		h := m.hooks[i]
		if err := h.fn(ctx); err != nil {
			m.logger.Error("shutdown hook failed", zap.String("component", h.name), zap.Error(err))
			result = errors.Join(result, err)
			continue
		}
		m.logger.Info("component stopped", zap.String("component", h.name))
	}
	m.hooks = nil
	return result
}
