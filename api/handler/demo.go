package handler

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/envelope/api/transport"
	"github.com/fastygo/envelope/domain"
	"github.com/fastygo/envelope/internal/middleware"
	"github.com/fastygo/envelope/pkg/pipeline"
)

const maxRepeat = 10

// DemoHandler serves the sample routes that show each envelope outcome.
type DemoHandler struct {
	baseHandler
}

func NewDemoHandler(logger *zap.Logger) *DemoHandler {
	return &DemoHandler{baseHandler: newBaseHandler(logger)}
}

// @Summary Sample JSON resource
// @Router /hello [get]
func (h *DemoHandler) Hello(c *pipeline.Context) error {
	return h.respondJSON(c, http.StatusCreated, transport.User{Username: "username", Gender: "male"})
}

// @Summary Plain text body, enveloped as a string
// @Router /text [get]
func (h *DemoHandler) Text(c *pipeline.Context) error {
	return c.Text("Hello, fasthttp!")
}

// @Summary Echo a message back
// @Router /echo [post]
func (h *DemoHandler) Echo(c *pipeline.Context) error {
	var req transport.EchoRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Message) == "" {
		return domain.NewError(domain.ErrCodeInvalid, "message is required")
	}
	if req.Repeat <= 0 {
		req.Repeat = 1
	}
	if req.Repeat > maxRepeat {
		return domain.NewError(domain.ErrCodeInvalid, "repeat must not exceed 10")
	}

	messages := make([]string, req.Repeat)
	for i := range messages {
		messages[i] = req.Message
	}
	return h.respondJSON(c, http.StatusOK, transport.EchoResponse{Messages: messages, Metadata: req.Metadata})
}

// @Summary Fails with an error that carries no status
// @Router /error [get]
func (h *DemoHandler) Fail(c *pipeline.Context) error {
	return errors.New("something went wrong")
}

// @Summary Fails with a coded domain error
// @Router /teapot [get]
func (h *DemoHandler) Teapot(c *pipeline.Context) error {
	return domain.ErrTeapot
}

// @Summary Same resource as /hello, left unwrapped
// @Router /_raw [get]
func (h *DemoHandler) Raw(c *pipeline.Context) error {
	c.SetRaw(true)
	return h.respondJSON(c, http.StatusOK, transport.User{Username: "username", Gender: "male"})
}

// @Summary Authenticated user
// @Router /me [get]
func (h *DemoHandler) Me(c *pipeline.Context) error {
	userID, _ := c.RequestCtx().UserValue(middleware.UserIDKey).(string)
	if userID == "" {
		return domain.ErrUnauthorized
	}
	h.logger.Debug("profile requested", zap.String("user_id", userID))
	return h.respondJSON(c, http.StatusOK, transport.User{ID: userID, Username: userID})
}
