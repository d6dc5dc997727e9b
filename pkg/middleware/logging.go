// Package middleware holds the gin middleware shared by all routes.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/manzoomehweb/bookingcal/pkg/logger"
)

const requestIDKey = "request_id"

// RequestID tags every request with an id so a session's picker events can
// be correlated across log lines.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, if any.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLogger logs every request through the structured logger.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		statusCode := c.Writer.Status()
		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      path,
			"status":    statusCode,
			"latency":   time.Since(start),
			"client_ip": c.ClientIP(),
		}
		if id := GetRequestID(c); id != "" {
			fields["request_id"] = id
		}
		if raw != "" {
			fields["query"] = raw
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		msg := "http request"
		switch {
		case statusCode >= 500:
			logger.WithFields(fields).Error(msg)
		case statusCode >= 400:
			logger.WithFields(fields).Warn(msg)
		default:
			logger.WithFields(fields).Info(msg)
		}
	}
}

// Recovery logs panics through the structured logger and answers 500.
func Recovery() gin.HandlerFunc {
	return gin.RecoveryWithWriter(gin.DefaultWriter, func(c *gin.Context, recovered interface{}) {
		logger.WithFields(map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"client_ip": c.ClientIP(),
			"panic":     recovered,
		}).Error("panic recovered")
		c.AbortWithStatus(500)
	})
}
