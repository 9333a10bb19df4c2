package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ClauseMatch/internal/infrastructure/monitoring/logging"
)

// slowRequestThreshold marks requests worth a warning even when they succeed.
const slowRequestThreshold = 3 * time.Second

// RequestLogging logs one line per request: method, route, status, duration
// and correlation id.  skipPaths silences high-frequency probe endpoints.
func RequestLogging(log logging.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}
	log = log.Named("http")

	return func(c *gin.Context) {
		if skip[c.FullPath()] || skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Int64("duration_ms", duration.Milliseconds()),
			logging.Int("bytes", c.Writer.Size()),
			logging.String("client_ip", c.ClientIP()),
			logging.String("request_id", GetRequestID(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		case duration >= slowRequestThreshold:
			log.Warn("slow request", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}

//Personal.AI order the ending
