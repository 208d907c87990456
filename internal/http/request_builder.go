package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/circuitbreaker"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/i18n"
	"github.com/guttosm/kandypack-dispatch/internal/middleware"
	"go.opentelemetry.io/otel/trace"
)

// Envelopes are pooled; gin serializes synchronously, so an envelope can go
// back to its pool as soon as the response is written.
var (
	successPool = sync.Pool{New: func() any { return new(dto.SuccessResponse) }}
	errorPool   = sync.Pool{New: func() any { return new(dto.ErrorResponse) }}
)

// RequestBuilder decodes request bodies.
type RequestBuilder struct {
	c *gin.Context
}

// NewRequestBuilder creates a request builder for c.
func NewRequestBuilder(c *gin.Context) *RequestBuilder {
	return &RequestBuilder{c: c}
}

// Bind decodes the JSON body into v.
func (b *RequestBuilder) Bind(v any) error {
	return b.c.ShouldBindJSON(v)
}

// UnmarshalFromBytes decodes a JSON document into a new T.
func UnmarshalFromBytes[T any](data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// BuildRequest decodes the JSON body of c into a new T.
func BuildRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if err := NewRequestBuilder(c).Bind(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Validator is implemented by request DTOs that check their own fields.
type Validator interface {
	Validate() error
}

// BuildRequestAndValidate decodes like BuildRequest and then runs Validate
// when T implements Validator.
func BuildRequestAndValidate[T any](c *gin.Context) (*T, error) {
	req, err := BuildRequest[T](c)
	if err != nil {
		return nil, err
	}
	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// ResponseBuilder writes the API's success and error envelopes.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a response builder for c.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success wraps data in the success envelope.
func (b *ResponseBuilder) Success(statusCode int, data any) {
	resp := successPool.Get().(*dto.SuccessResponse)
	resp.Data = data
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now()

	b.c.JSON(statusCode, resp)

	*resp = dto.SuccessResponse{}
	successPool.Put(resp)
}

func (b *ResponseBuilder) SuccessOK(data any)       { b.Success(http.StatusOK, data) }
func (b *ResponseBuilder) SuccessCreated(data any)  { b.Success(http.StatusCreated, data) }
func (b *ResponseBuilder) SuccessAccepted(data any) { b.Success(http.StatusAccepted, data) }

// Error aborts with statusCode and the translation of messageKey. A non-nil
// err is attached to the context for the error logging middleware.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	b.abort(statusCode, "", messageKey, nil, err)
}

// DomainError aborts with the status that matches err's domain error code.
// Validation failures name the offending field in Details. Infrastructure
// failures (open breaker, expired deadline) map to 503 and 504.
func (b *ResponseBuilder) DomainError(err error) {
	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		b.abort(http.StatusServiceUnavailable, "", i18n.ErrKeyUnavailable, nil, err)
	case errors.Is(err, context.DeadlineExceeded):
		b.abort(http.StatusGatewayTimeout, "", i18n.ErrKeyTimeout, nil, err)
	default:
		code := model.Code(err)
		var details map[string]string
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			details = map[string]string{verr.Field: verr.Message}
		}
		b.abort(dto.StatusForDomainCode(code), code, dto.MessageKeyForDomainCode(code), details, err)
	}
}

func (b *ResponseBuilder) abort(status int, code, messageKey string, details map[string]string, err error) {
	resp := errorPool.Get().(*dto.ErrorResponse)
	resp.Error = dto.ErrCodeFromStatus(status)
	resp.Code = code
	resp.Message = i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(b.c))
	resp.Details = details
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now()
	resp.TraceID = b.traceID()

	if err != nil {
		_ = b.c.Error(err)
	}
	b.c.AbortWithStatusJSON(status, resp)

	*resp = dto.ErrorResponse{}
	errorPool.Put(resp)
}

func (b *ResponseBuilder) traceID() string {
	sc := trace.SpanContextFromContext(b.c.Request.Context())
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
