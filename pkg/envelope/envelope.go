// Package envelope wraps every response of a pipeline.App in a JSON object
// built from configurable success and failure field specs.
package envelope

import (
	"errors"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	appLogger "github.com/fastygo/envelope/pkg/logger"
	"github.com/fastygo/envelope/pkg/pipeline"
)

// Registrar is the part of the pipeline the middleware hooks its failure handler into.
type Registrar interface {
	OnError(h pipeline.ErrorHandler)
}

// Options configures New. Every zero field falls back to its default. A
// supplied spec replaces the default spec as a whole.
type Options struct {
	Status  StatusResolver
	Success Spec
	Fail    Spec
	Logger  *zap.Logger
	Metrics *Metrics
}

type envelope struct {
	status  StatusResolver
	success Spec
	fail    Spec
	logger  *zap.Logger
	metrics *Metrics
}

// New registers the failure handler on app and returns the success middleware.
// Calling it twice on the same app leaves the handler of the last call in
// place while both middlewares stay active.
func New(app Registrar, opts Options) (pipeline.Middleware, error) {
	if isNil(app) {
		return nil, ErrNoApp
	}
	e := &envelope{
		status:  opts.Status,
		success: opts.Success,
		fail:    opts.Fail,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if e.status.IsZero() {
		e.status = DefaultStatus()
	}
	if e.status.fn == nil && (e.status.fixed < 100 || e.status.fixed > 599) {
		return nil, &ConfigError{Reason: "envelope: fixed status out of range"}
	}
	if e.success.IsZero() {
		e.success = DefaultSuccess()
	}
	if e.fail.IsZero() {
		e.fail = DefaultFail()
	}

	app.OnError(e.handleFailure)
	return e.decorate, nil
}

// Must is New that panics on an invalid configuration.
func Must(app Registrar, opts Options) pipeline.Middleware {
	mw, err := New(app, opts)
	if err != nil {
		panic(err)
	}
	return mw
}

func (e *envelope) handleFailure(c *pipeline.Context, err error) error {
	if passthrough(err) {
		return err
	}
	log := e.requestLogger(c)

	body, berr := e.fail.Build(c, err)
	if berr != nil {
		return e.abort(log, outcomeFailure, berr)
	}
	status, serr := e.status.Resolve(c, err)
	if serr != nil {
		return e.abort(log, outcomeFailure, &ResolverError{Field: "status", Err: serr})
	}
	if werr := write(c, status, body); werr != nil {
		return werr
	}

	e.metrics.observeEnveloped(outcomeFailure)
	log.Debug("failure enveloped", zap.Int("status", status), zap.Error(err))
	return nil
}

func (e *envelope) decorate(c *pipeline.Context, next func() error) error {
	if err := next(); err != nil {
		return err
	}
	log := e.requestLogger(c)

	if reason := skipReason(c); reason != "" {
		e.metrics.observeSkipped(reason)
		log.Debug("response left raw", zap.String("reason", reason))
		return nil
	}

	body, err := e.success.Build(c, nil)
	if err != nil {
		return e.abort(log, outcomeSuccess, err)
	}
	status, err := e.status.Resolve(c, nil)
	if err != nil {
		return e.abort(log, outcomeSuccess, &ResolverError{Field: "status", Err: err})
	}
	if err := write(c, status, body); err != nil {
		return err
	}

	e.metrics.observeEnveloped(outcomeSuccess)
	return nil
}

func (e *envelope) abort(log *zap.Logger, outcome string, err error) error {
	if errors.Is(err, ErrAborted) {
		log.Debug("envelope construction aborted", zap.String("outcome", outcome), zap.Error(err))
		return err
	}
	e.metrics.observeResolverFailure(outcome)
	log.Error("envelope resolver failed", zap.String("outcome", outcome), zap.Error(err))
	return err
}

func (e *envelope) requestLogger(c *pipeline.Context) *zap.Logger {
	if e.logger == nil {
		return c.Logger()
	}
	return appLogger.WithRequestID(c.Context(), e.logger)
}

func skipReason(c *pipeline.Context) string {
	switch {
	case c.Raw():
		return skipRaw
	case c.Failed():
		return skipError
	case strings.EqualFold(c.Method(), fasthttp.MethodOptions),
		strings.EqualFold(c.Method(), fasthttp.MethodHead):
		return skipMethod
	default:
		return ""
	}
}

// write replaces status and body. Other response headers are kept.
func write(c *pipeline.Context, status int, body Body) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp := c.Response()
	resp.SetStatusCode(status)
	resp.Header.SetContentType("application/json")
	resp.SetBodyRaw(payload)
	return nil
}

func isNil(app Registrar) bool {
	if app == nil {
		return true
	}
	v := reflect.ValueOf(app)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Interface, reflect.Chan, reflect.Slice:
		return v.IsNil()
	}
	return false
}
