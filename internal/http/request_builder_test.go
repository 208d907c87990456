package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/circuitbreaker"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/i18n"
	"github.com/guttosm/kandypack-dispatch/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func jsonContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestRequestBuilder_Bind(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		body        string
		expectedQty int
		expectError bool
	}{
		{
			name:        "valid request",
			body:        `{"name":"Chocolate bar","space_consumption":"0.25","price":"3.50","available_quantity":1200}`,
			expectedQty: 1200,
		},
		{
			name:        "invalid JSON",
			body:        `{"available_quantity": invalid}`,
			expectError: true,
		},
		{
			name:        "empty body",
			body:        ``,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := jsonContext(tt.body)

			var request dto.ProductRequest
			err := NewRequestBuilder(c).Bind(&request)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedQty, request.AvailableQuantity)
			assert.True(t, request.SpaceConsumption.Equal(decimal.RequireFromString("0.25")))
		})
	}
}

func TestUnmarshalFromBytes(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name: "valid JSON",
			data: []byte(`{"capacity":"80"}`),
		},
		{
			name:        "invalid JSON",
			data:        []byte(`{"capacity": invalid}`),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := UnmarshalFromBytes[dto.CapacityRequest](tt.data)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, result.Capacity)
			assert.Equal(t, "80", result.Capacity.String())
		})
	}
}

func TestBuildRequestAndValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		body          string
		expectError   bool
		expectInvalid bool
	}{
		{
			name: "valid capacity",
			body: `{"capacity":"80"}`,
		},
		{
			name: "zero capacity takes the unit out of service",
			body: `{"capacity":"0"}`,
		},
		{
			name:          "negative capacity",
			body:          `{"capacity":"-1"}`,
			expectError:   true,
			expectInvalid: true,
		},
		{
			name:          "missing capacity",
			body:          `{}`,
			expectError:   true,
			expectInvalid: true,
		},
		{
			name:        "malformed body",
			body:        `{"capacity":`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := jsonContext(tt.body)

			result, err := BuildRequestAndValidate[dto.CapacityRequest](c)

			if !tt.expectError {
				require.NoError(t, err)
				require.NotNil(t, result)
				return
			}
			assert.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.expectInvalid, model.Code(err) == model.CodeValidation)
		})
	}
}

func TestResponseBuilder_ErrorWithKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	middleware.RequestID()(c)
	NewResponseBuilder(c).Error(http.StatusServiceUnavailable, i18n.ErrKeyQueueFull, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var errorResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errorResp))
	assert.Equal(t, dto.ErrCodeUnavailable, errorResp.Error)
	assert.NotEmpty(t, errorResp.Message)
	assert.NotEmpty(t, errorResp.RequestID)
	assert.Empty(t, errorResp.TraceID)
}

func TestResponseBuilder_DomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
		expectedCode   string
		expectedDetail map[string]string
	}{
		{
			name:           "validation error carries the field",
			err:            model.Invalid("items[0].quantity", "must be at least 1"),
			expectedStatus: http.StatusBadRequest,
			expectedError:  dto.ErrCodeInvalidRequest,
			expectedCode:   model.CodeValidation,
			expectedDetail: map[string]string{"items[0].quantity": "must be at least 1"},
		},
		{
			name:           "invalid schedule",
			err:            model.InvalidSchedule("operating_days", "must not be empty"),
			expectedStatus: http.StatusBadRequest,
			expectedError:  dto.ErrCodeInvalidRequest,
			expectedCode:   model.CodeInvalidSchedule,
			expectedDetail: map[string]string{"operating_days": "must not be empty"},
		},
		{
			name:           "wrapped not found",
			err:            fmt.Errorf("order ord-1: %w", model.ErrNotFound),
			expectedStatus: http.StatusNotFound,
			expectedError:  dto.ErrCodeNotFound,
			expectedCode:   model.CodeNotFound,
		},
		{
			name:           "cancelled order",
			err:            model.ErrOrderCancelled,
			expectedStatus: http.StatusConflict,
			expectedError:  dto.ErrCodeConflict,
			expectedCode:   model.CodeOrderCancelled,
		},
		{
			name:           "invariant violation",
			err:            model.ErrInvariantViolation,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  dto.ErrCodeInternal,
			expectedCode:   model.CodeInvariantViolation,
		},
		{
			name:           "open circuit",
			err:            fmt.Errorf("load order: %w", circuitbreaker.ErrCircuitOpen),
			expectedStatus: http.StatusServiceUnavailable,
			expectedError:  dto.ErrCodeUnavailable,
		},
		{
			name:           "deadline exceeded",
			err:            fmt.Errorf("reserve capacity: %w", context.DeadlineExceeded),
			expectedStatus: http.StatusGatewayTimeout,
			expectedError:  dto.ErrCodeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			middleware.RequestID()(c)

			NewResponseBuilder(c).DomainError(tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedError, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Code)
			assert.Equal(t, tt.expectedDetail, resp.Details)
			assert.NotEmpty(t, resp.Message)
			require.Len(t, c.Errors, 1)
			assert.ErrorIs(t, c.Errors.Last().Err, tt.err)
		})
	}
}

func TestResponseBuilder_TraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request = req.WithContext(trace.ContextWithSpanContext(req.Context(), sc))

	NewResponseBuilder(c).DomainError(model.ErrNotFound)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", resp.TraceID)
}

func TestResponseBuilder_PooledEnvelopesStartClean(t *testing.T) {
	gin.SetMode(gin.TestMode)

	send := func(err error) dto.ErrorResponse {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		NewResponseBuilder(c).DomainError(err)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	first := send(model.Invalid("items", "must not be empty"))
	require.NotEmpty(t, first.Details)

	second := send(model.ErrNotFound)
	assert.Empty(t, second.Details)
	assert.Equal(t, model.CodeNotFound, second.Code)
	assert.Empty(t, second.RequestID)
}
