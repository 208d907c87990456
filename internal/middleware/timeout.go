package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	"github.com/guttosm/kandypack-dispatch/internal/i18n"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
	"github.com/guttosm/kandypack-dispatch/internal/metrics"
)

// DefaultRequestTimeout applies when a non-positive timeout is configured.
const DefaultRequestTimeout = 30 * time.Second

// TimeoutConfig holds configuration for the timeout middleware.
type TimeoutConfig struct {
	// Timeout bounds request processing, ledger and store calls included.
	Timeout time.Duration
}

// RequestTimeout returns a timeout middleware bounded by timeout.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return Timeout(TimeoutConfig{Timeout: timeout})
}

// Timeout returns a middleware that puts a deadline on the request context
// and answers 504 when the handler has not written by then. Allocation and
// reconciliation pass the context down, so an abandoned request stops
// reserving capacity at its next ledger call.
func Timeout(cfg TimeoutConfig) gin.HandlerFunc {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRequestTimeout
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		var (
			mu       sync.Mutex
			finished bool
		)
		done := make(chan struct{})

		go func() {
			defer func() {
				recover() //nolint:errcheck
				close(done)
			}()
			c.Next()
			mu.Lock()
			finished = true
			mu.Unlock()
		}()

		select {
		case <-done:
		case <-ctx.Done():
			mu.Lock()
			defer mu.Unlock()
			if finished || c.Writer.Written() {
				return
			}
			route := c.FullPath()
			if route == "" {
				route = c.Request.URL.Path
			}
			metrics.RecordInterruptedRequest(route, "timeout")
			log := logger.WithContext(ctx)
			log.Warn().
				Str("operator_id", GetOperatorID(c)).
				Str("method", c.Request.Method).
				Str("route", route).
				Dur("timeout", cfg.Timeout).
				Msg("Request timed out")

			message := i18n.GetTranslator().Translate(i18n.ErrKeyTimeout, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusGatewayTimeout,
				dto.NewError(dto.ErrCodeTimeout, message).WithRequestID(GetRequestID(c)))
		}
	}
}
