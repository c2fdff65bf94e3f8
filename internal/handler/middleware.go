package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"playnote/backend/internal/auth"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

const contextRequestID = "requestID"

// RequestID adds a unique request ID to each request, keeping one supplied by the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(contextRequestID, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// AccessLog logs request details using structured logging.
func AccessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", c.GetString(contextRequestID)),
			slog.String("remote_addr", c.ClientIP()),
		}
		if claims, ok := auth.ClaimsFrom(c); ok {
			attrs = append(attrs, slog.String("subject", claims.Subject))
		}

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "request", attrs...)
	}
}
