package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	"github.com/guttosm/kandypack-dispatch/internal/i18n"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
	"github.com/guttosm/kandypack-dispatch/internal/metrics"
)

// Recovery returns a middleware that turns a handler panic into a 500.
// The panic value and stack are logged with the operator and request id.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			route := c.FullPath()
			if route == "" {
				route = c.Request.URL.Path
			}
			metrics.RecordInterruptedRequest(route, "panic")

			log := logger.WithContext(c.Request.Context())
			log.Error().
				Str("operator_id", GetOperatorID(c)).
				Str("method", c.Request.Method).
				Str("route", route).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("PANIC recovered")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			message := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewError(dto.ErrCodeInternal, message).WithRequestID(GetRequestID(c)))
		}()
		c.Next()
	}
}
