package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/static-hub/static-hub/internal/logging"
	"github.com/static-hub/static-hub/internal/send"
)

// sendHeaders are the response headers the send pipeline may have written
// before it failed or declined the request.
var sendHeaders = []string{
	fiber.HeaderContentEncoding,
	fiber.HeaderContentLength,
	fiber.HeaderLastModified,
	fiber.HeaderCacheControl,
	fiber.HeaderContentType,
}

// Handler serves static files for a resolved SiteRoute.
type Handler struct {
	logger *logrus.Logger
}

// NewHandler constructs a Handler logging through logger.
func NewHandler(logger *logrus.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle runs the send pipeline against the undecoded request path. Requests
// the pipeline declines fall through to the next route (fiber answers 404).
func (h *Handler) Handle(c fiber.Ctx, route *SiteRoute) error {
	started := time.Now()
	rawPath := string(c.Request().URI().PathOriginal())
	fields := logging.RequestFields(route.Config.Name, route.Config.Domain, rawPath, route.Config.CacheMode())
	if reqID := RequestID(c); reqID != "" {
		fields["request_id"] = reqID
	}

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	served, err := send.Send(ctx, newExchange(c, ctx, route.Limiter), rawPath, route.Options)
	if err != nil {
		return h.renderError(c, fields, err, started)
	}
	if served == "" {
		clearSendHeaders(c)
		h.logger.WithFields(logging.ResultFields(fields, fiber.StatusNotFound, "", started)).Debug("send_not_handled")
		return c.Next()
	}

	h.logger.WithFields(logging.ResultFields(fields, c.Response().StatusCode(), served, started)).Info("send_completed")
	return nil
}

func (h *Handler) renderError(c fiber.Ctx, fields logrus.Fields, err error, started time.Time) error {
	status := send.StatusCode(err)
	kind := send.KindOf(err)

	entry := h.logger.WithFields(logging.ResultFields(fields, status, "", started)).WithError(err)
	if status >= fiber.StatusInternalServerError {
		entry.Error("send_failed")
	} else {
		entry.Warn("send_rejected")
	}

	clearSendHeaders(c)
	c.Response().ResetBody()
	return c.Status(status).JSON(fiber.Map{
		"error": string(kind),
	})
}

func clearSendHeaders(c fiber.Ctx) {
	for _, key := range sendHeaders {
		c.Response().Header.Del(key)
	}
	c.Response().Header.SetNoDefaultContentType(false)
}
