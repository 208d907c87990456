package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/i18n"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
	"github.com/rs/zerolog"
)

// ErrorHandler returns a middleware that handles gin context errors.
// Errors left unanswered by a handler are translated through the domain taxonomy.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		code := model.Code(err)
		status := dto.StatusForDomainCode(code)
		if c.Writer.Written() {
			status = c.Writer.Status()
		}

		level := zerolog.WarnLevel
		if status >= 500 {
			level = zerolog.ErrorLevel
		}
		log := logger.WithContext(c.Request.Context())
		log.WithLevel(level).
			Str("code", code).
			Str("error", err.Error()).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Request error")

		if !c.Writer.Written() {
			locale := i18n.GetLocale(c)
			message := i18n.GetTranslator().Translate(dto.MessageKeyForDomainCode(code), locale)
			errorResp := dto.NewError(dto.ErrCodeFromStatus(status), message).
				WithCode(code).
				WithRequestID(GetRequestID(c))
			c.JSON(status, errorResp)
		}
	}
}
