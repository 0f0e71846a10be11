package pipeline

import (
	"errors"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/envelope/pkg/httpcontext"
	appLogger "github.com/fastygo/envelope/pkg/logger"
)

// Handler serves a matched route.
type Handler func(c *Context) error

// Middleware wraps the rest of the chain. It must call next to run it.
type Middleware func(c *Context, next func() error) error

// ErrorHandler turns a failed request into a response. An error returned from
// it is treated as unhandled and answered with a plain 500.
type ErrorHandler func(c *Context, err error) error

// Config holds the settings App needs from the host process.
type Config struct {
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// App is a small request pipeline on top of fasthttp/router: global
// middleware, routes and a single global error handler.
// Configure it before serving; registration is not safe for concurrent use.
type App struct {
	router  *router.Router
	adapter *httpcontext.Adapter
	logger  *zap.Logger

	middleware []Middleware
	onError    ErrorHandler
	notFound   Handler
}

// New creates an App with the default not-found and error behaviour.
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		router:   router.New(),
		adapter:  httpcontext.NewAdapter(cfg.RequestTimeout),
		logger:   logger,
		notFound: notFound,
	}
	a.router.NotFound = func(ctx *fasthttp.RequestCtx) {
		a.serve(ctx, a.notFound)
	}
	a.router.MethodNotAllowed = func(ctx *fasthttp.RequestCtx) {
		a.serve(ctx, methodNotAllowed)
	}
	return a
}

// Use appends middleware. It runs for every request, matched or not, in registration order.
func (a *App) Use(mw ...Middleware) {
	for _, m := range mw {
		if m != nil {
			a.middleware = append(a.middleware, m)
		}
	}
}

// OnError sets the global error handler, replacing any previous one.
func (a *App) OnError(h ErrorHandler) {
	a.onError = h
}

// NotFound replaces the handler used for unmatched routes.
func (a *App) NotFound(h Handler) {
	if h != nil {
		a.notFound = h
	}
}

// Handle registers h for method and path.
func (a *App) Handle(method, path string, h Handler) {
	a.router.Handle(method, path, func(ctx *fasthttp.RequestCtx) {
		a.serve(ctx, h)
	})
}

// On registers h for every method in methods.
func (a *App) On(methods []string, path string, h Handler) {
	for _, m := range methods {
		a.Handle(m, path, h)
	}
}

func (a *App) GET(path string, h Handler)     { a.Handle(fasthttp.MethodGet, path, h) }
func (a *App) POST(path string, h Handler)    { a.Handle(fasthttp.MethodPost, path, h) }
func (a *App) HEAD(path string, h Handler)    { a.Handle(fasthttp.MethodHead, path, h) }
func (a *App) OPTIONS(path string, h Handler) { a.Handle(fasthttp.MethodOptions, path, h) }

// Handler returns the fasthttp entry point.
func (a *App) Handler() fasthttp.RequestHandler {
	return a.router.Handler
}

func (a *App) serve(fast *fasthttp.RequestCtx, h Handler) {
	std, cancel := a.adapter.Attach(fast)
	defer cancel()

	c := NewContext(fast, std, appLogger.WithRequestID(std, a.logger))
	if err := a.dispatch(c, 0, h); err != nil {
		a.unhandled(c, err)
	}
}

// dispatch runs chain level i. An error raised at a level is handled at that
// level, so the middleware above sees next() return nil.
func (a *App) dispatch(c *Context, i int, h Handler) error {
	var step func() error
	if i < len(a.middleware) {
		mw := a.middleware[i]
		step = func() error {
			return mw(c, func() error { return a.dispatch(c, i+1, h) })
		}
	} else {
		step = func() error { return h(c) }
	}

	err := guard(step)
	if err == nil {
		return nil
	}
	var u *unhandledError
	if errors.As(err, &u) {
		return err
	}
	return a.handleError(c, err)
}

func (a *App) handleError(c *Context, err error) error {
	c.markFailed(err)
	h := a.onError
	if h == nil {
		h = defaultErrorHandler
	}
	if herr := guard(func() error { return h(c, err) }); herr != nil {
		return &unhandledError{err: herr}
	}
	return nil
}

func (a *App) unhandled(c *Context, err error) {
	c.Logger().Error("unhandled request failure",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	resp := c.Response()
	resp.ResetBody()
	resp.SetStatusCode(fasthttp.StatusInternalServerError)
	_ = c.Text(fasthttp.StatusMessage(fasthttp.StatusInternalServerError))
}

func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn()
}

func notFound(c *Context) error {
	c.Status(fasthttp.StatusNotFound)
	return c.Text("404 Not Found")
}

func methodNotAllowed(c *Context) error {
	c.Status(fasthttp.StatusMethodNotAllowed)
	return c.Text("405 Method Not Allowed")
}

func defaultErrorHandler(c *Context, err error) error {
	status := StatusOf(err)
	if status == 0 {
		status = fasthttp.StatusInternalServerError
	}
	c.Status(status)

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return c.Text(httpErr.Error())
	}
	return c.Text(fasthttp.StatusMessage(status))
}
