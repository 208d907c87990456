package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
	"github.com/rs/zerolog"
)

// RequestLogger returns a middleware that logs HTTP request details in JSON format.
// It logs: request ID, operator, method, route, status code, latency, IP, and user agent.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		statusCode := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		log := logger.WithContext(c.Request.Context()).With().
			Str("operator_id", GetOperatorID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", route).
			Int("status_code", statusCode).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Logger()

		log.WithLevel(levelFor(statusCode)).Msg("HTTP request")
	}
}

// levelFor returns the log level based on HTTP status code.
func levelFor(statusCode int) zerolog.Level {
	switch {
	case statusCode >= 500:
		return zerolog.ErrorLevel
	case statusCode >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
