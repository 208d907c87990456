package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/i18n"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeUnauthorized indicates missing or invalid authentication.
	ErrCodeUnauthorized = "unauthorized"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeConflict indicates a conflict with current state.
	ErrCodeConflict = "conflict"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
	// ErrCodeUnavailable indicates the service cannot take more work right now.
	ErrCodeUnavailable = "service_unavailable"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data contains the actual response data
	Data interface{} `json:"data" swaggertype:"object"`
	// RequestID is the unique request identifier
	RequestID string `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Timestamp is when the response was generated
	Timestamp time.Time `json:"timestamp" example:"2026-01-05T08:00:00Z"`
} // @name SuccessResponse

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid_request"`
	// Code is the domain error code when the failure came from the dispatch engine
	Code    string `json:"code,omitempty" example:"VALIDATION_ERROR"`
	Message string `json:"message,omitempty" example:"items.quantity: must be at least 1"`
	// Details contains additional error details (optional)
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2026-01-05T08:00:00Z"`
	TraceID   string            `json:"trace_id,omitempty" example:"4bf92f3577b34da6a3ce929d0e0e4736"`
} // @name ErrorResponse

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// WithCode attaches a domain error code.
func (e ErrorResponse) WithCode(code string) ErrorResponse {
	e.Code = code
	return e
}

// WithTraceID attaches the trace id of the request span.
func (e ErrorResponse) WithTraceID(traceID string) ErrorResponse {
	e.TraceID = traceID
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	default:
		return ErrCodeInternal
	}
}

// StatusForDomainCode maps a domain error code to an HTTP status.
// NO_CAPACITY, UNSCHEDULABLE and NEEDS_STAFFING are outcomes, not failures, and
// only reach here when an operation cannot report them in its result.
func StatusForDomainCode(code string) int {
	switch code {
	case model.CodeValidation, model.CodeInvalidSchedule:
		return http.StatusBadRequest
	case model.CodeNotFound:
		return http.StatusNotFound
	case model.CodeConcurrentConflict, model.CodeOrderCancelled, model.CodeAlreadyExists,
		model.CodeNoCapacity, model.CodeUnschedulable, model.CodeNeedsStaffing:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// MessageKeyForDomainCode returns the translation key describing a domain error code.
func MessageKeyForDomainCode(code string) string {
	switch code {
	case model.CodeValidation:
		return i18n.ErrKeyValidation
	case model.CodeInvalidSchedule:
		return i18n.ErrKeyInvalidSchedule
	case model.CodeNotFound:
		return i18n.ErrKeyNotFound
	case model.CodeConcurrentConflict:
		return i18n.ErrKeyConcurrentConflict
	case model.CodeOrderCancelled:
		return i18n.ErrKeyOrderCancelled
	case model.CodeInvariantViolation:
		return i18n.ErrKeyInvariantViolation
	case model.CodeAlreadyExists:
		return i18n.ErrKeyAlreadyExists
	case model.CodeNoCapacity:
		return i18n.ErrKeyNoCapacity
	case model.CodeUnschedulable:
		return i18n.ErrKeyUnschedulable
	case model.CodeNeedsStaffing:
		return i18n.ErrKeyNeedsStaffing
	default:
		return i18n.ErrKeyInternalError
	}
}
