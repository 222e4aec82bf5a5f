// Package middleware provides the HTTP middleware shared by all routes:
// admin authentication, CORS, request ids with access logging, and span
// helpers for handlers.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samparkk13/fantasyedge-ai/internal/logging"
	"github.com/samparkk13/fantasyedge-ai/internal/metrics"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	maxRequestIDLen = 128
)

// RequestMiddleware tags each request with an id, records its latency and
// status, and writes one access log line. Server spans come from otelgin,
// which must run before this middleware.
func RequestMiddleware(metricsManager *metrics.Manager, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		span := trace.SpanFromContext(c.Request.Context())
		span.SetAttributes(attribute.String("http.request_id", requestID))

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		metricsManager.RecordHTTPRequest(c.FullPath(), c.Request.Method, status, elapsed)
		if logger != nil {
			logger.LogAPIRequest(c.Request.Method, c.Request.URL.Path, status, elapsed.Milliseconds(), requestID)
		}
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
			if logger != nil {
				logger.WithRequestID(requestID).Warn("Request failed",
					"route", c.FullPath(),
					"status_code", status,
					"errors", c.Errors.String(),
				)
			}
		}
	}
}

// RequestID returns the id assigned by RequestMiddleware, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RecordError records an error on the current span
func RecordError(c *gin.Context, err error, description string) {
	span := trace.SpanFromContext(c.Request.Context())
	if span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, description)
	}
}

// AddSpanAttribute adds an attribute to the current span
func AddSpanAttribute(c *gin.Context, key string, value string) {
	span := trace.SpanFromContext(c.Request.Context())
	if span.IsRecording() {
		span.SetAttributes(attribute.String(key, value))
	}
}
