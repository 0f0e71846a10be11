package httpcontext

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/envelope/pkg/logger"
)

func newRequestCtx(method, path string, headers map[string]string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	return &ctx
}

func TestAttach_GeneratesRequestID(t *testing.T) {
	fast := newRequestCtx(fasthttp.MethodGet, "/a", nil)

	ctx, cancel := NewAdapter(time.Second).Attach(fast)
	defer cancel()

	reqID := appLogger.RequestID(ctx)
	_, err := uuid.Parse(reqID)
	assert.NoError(t, err)
	assert.Equal(t, reqID, string(fast.Response.Header.Peek(HeaderRequestID)))
	assert.Equal(t, fasthttp.MethodGet, ctx.Value(KeyMethod))
	assert.Equal(t, "/a", ctx.Value(KeyPath))

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
}

func TestAttach_KeepsIncomingRequestIDAndUserAgent(t *testing.T) {
	fast := newRequestCtx(fasthttp.MethodPost, "/b", map[string]string{
		HeaderRequestID: "incoming",
		"User-Agent":    "tests/1.0",
	})

	ctx, cancel := NewAdapter(0).Attach(fast)
	defer cancel()

	assert.Equal(t, "incoming", appLogger.RequestID(ctx))
	assert.Equal(t, "tests/1.0", ctx.Value(KeyUserAgent))
	assert.Equal(t, 5*time.Second, NewAdapter(0).Timeout())
}
