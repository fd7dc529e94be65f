package v1

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDCtxKey = "request_id"

	maxRequestIDLength = 128
)

func (h *handlerImpl) HandleRequestID(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" || len(requestID) > maxRequestIDLength {
		requestID = uuid.NewString()
	}

	c.Set(requestIDCtxKey, requestID)
	c.Header(requestIDHeader, requestID)
	c.Next()
}

func (h *handlerImpl) HandleAccessLog(c *gin.Context) {
	start := time.Now()
	path := c.Request.URL.Path

	c.Next()

	status := c.Writer.Status()
	var event *zerolog.Event
	switch {
	case status >= http.StatusInternalServerError:
		event = h.logger.Error()
	case status >= http.StatusBadRequest:
		event = h.logger.Warn()
	default:
		event = h.logger.Info()
	}

	event.
		Str("request_id", c.GetString(requestIDCtxKey)).
		Str("method", c.Request.Method).
		Str("path", path).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Str("client_ip", c.ClientIP()).
		Msg("handled request")
}

// HandleRecovery turns a panic in a single request into a 500 response
// and keeps the server running.
func (h *handlerImpl) HandleRecovery(c *gin.Context) {
	h.recovery(c)
}

func newRecovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, err any) {
		logger.Error().
			Str("request_id", c.GetString(requestIDCtxKey)).
			Interface("panic", err).
			Msg("recovered from panic")
		abort(c, newAPIError(http.StatusInternalServerError, msgInternalServerErr))
	})
}

func (h *handlerImpl) requestLogger(c *gin.Context) zerolog.Logger {
	return h.logger.With().
		Str("request_id", c.GetString(requestIDCtxKey)).
		Logger()
}
