package pipeline

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const (
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain; charset=utf-8"
)

// Context is the per-request state shared by middleware and handlers.
// It is owned by a single request and must not be retained after it completes.
type Context struct {
	fast   *fasthttp.RequestCtx
	std    context.Context
	logger *zap.Logger

	raw    bool
	failed bool
	err    error
}

// NewContext wraps a fasthttp request. App builds contexts itself; this is
// exported for code driving middleware outside an App, such as tests.
func NewContext(fast *fasthttp.RequestCtx, std context.Context, logger *zap.Logger) *Context {
	if std == nil {
		std = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{fast: fast, std: std, logger: logger}
}

// RequestCtx exposes the underlying fasthttp context.
func (c *Context) RequestCtx() *fasthttp.RequestCtx { return c.fast }

// Context returns the request-scoped stdlib context carrying the deadline and request ID.
func (c *Context) Context() context.Context { return c.std }

// Logger returns a logger scoped to the request.
func (c *Context) Logger() *zap.Logger { return c.logger }

func (c *Context) Method() string { return string(c.fast.Method()) }

func (c *Context) Path() string { return string(c.fast.Path()) }

// Param returns a route parameter captured by the router.
func (c *Context) Param(name string) string {
	v, _ := c.fast.UserValue(name).(string)
	return v
}

func (c *Context) Request() *fasthttp.Request { return &c.fast.Request }

func (c *Context) Response() *fasthttp.Response { return &c.fast.Response }

// Status sets the response status code.
func (c *Context) Status(code int) { c.fast.SetStatusCode(code) }

// StatusCode returns the current response status code.
func (c *Context) StatusCode() int { return c.fast.Response.StatusCode() }

// Header returns a response header.
func (c *Context) Header(key string) string {
	return string(c.fast.Response.Header.Peek(key))
}

// SetHeader sets a response header.
func (c *Context) SetHeader(key, value string) {
	c.fast.Response.Header.Set(key, value)
}

// JSON encodes v as the response body, keeping the current status.
func (c *Context) JSON(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.fast.Response.Header.SetContentType(contentTypeJSON)
	c.fast.Response.SetBodyRaw(body)
	return nil
}

// Text writes s as a plain-text response body, keeping the current status.
func (c *Context) Text(s string) error {
	c.fast.Response.Header.SetContentType(contentTypeText)
	c.fast.Response.SetBodyString(s)
	return nil
}

// SetRaw opts the request out of response decoration by wrapping middleware.
func (c *Context) SetRaw(raw bool) { c.raw = raw }

// Raw reports whether the request opted out of response decoration.
func (c *Context) Raw() bool { return c.raw }

// Failed reports whether an error was dispatched to the error handler for this request.
func (c *Context) Failed() bool { return c.failed }

// Err returns the error dispatched to the error handler, if any.
func (c *Context) Err() error { return c.err }

func (c *Context) markFailed(err error) {
	c.failed = true
	c.err = err
}
