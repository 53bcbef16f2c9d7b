package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/easeaico/moodtales/internal/handler"
)

const (
	requestIDHeader    = "X-Request-ID"
	sentryFlushTimeout = 2 * time.Second
)

// RequestTracking assigns a request id and logs every completed request.
func RequestTracking(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(handler.RequestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request failed with server error", attrs...)
		case status >= http.StatusBadRequest:
			logger.Warn("request failed with client error", attrs...)
		default:
			logger.Info("request completed", attrs...)
		}
	}
}

// SentryMiddleware attaches a Sentry hub to every request.
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         sentryFlushTimeout,
	})
}

// RecoverWithSentry turns panics into 500 responses and reports them.
func RecoverWithSentry(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				if hub := sentrygin.GetHubFromContext(c); hub != nil {
					hub.WithScope(func(scope *sentry.Scope) {
						scope.SetRequest(c.Request)
						scope.SetTag("request_id", c.GetString(handler.RequestIDKey))
						hub.RecoverWithContext(c.Request.Context(), err)
					})
				}

				logger.Error("panic recovered",
					"request_id", c.GetString(handler.RequestIDKey),
					"path", c.Request.URL.Path,
					"error", err)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "internal server error",
					"request_id": c.GetString(handler.RequestIDKey),
				})
			}
		}()
		c.Next()
	}
}
