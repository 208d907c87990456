package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	"github.com/guttosm/kandypack-dispatch/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		timeout      time.Duration
		handlerDelay time.Duration
		wantStatus   int
	}{
		{
			name:       "fast request completes",
			timeout:    time.Second,
			wantStatus: http.StatusOK,
		},
		{
			name:         "slow request completes inside the deadline",
			timeout:      time.Second,
			handlerDelay: 10 * time.Millisecond,
			wantStatus:   http.StatusOK,
		},
		{
			name:         "request past the deadline gets 504",
			timeout:      20 * time.Millisecond,
			handlerDelay: 200 * time.Millisecond,
			wantStatus:   http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), RequestTimeout(tt.timeout))
			router.GET("/api/orders/:id", func(c *gin.Context) {
				time.Sleep(tt.handlerDelay)
				if c.Request.Context().Err() == nil {
					c.Status(http.StatusOK)
				}
			})

			req := httptest.NewRequest(http.MethodGet, "/api/orders/ord-1", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusGatewayTimeout {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, dto.ErrCodeTimeout, resp.Error)
				assert.Equal(t, w.Header().Get(RequestIDHeader), resp.RequestID)
			}
		})
	}
}

func TestTimeout_RecordsAndLogsInterruption(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs(t)

	counter := metrics.RequestsInterruptedTotal.WithLabelValues("/api/trips/:id/crew", "timeout")
	before := testutil.ToFloat64(counter)

	router := gin.New()
	router.Use(RequestID(), func(c *gin.Context) {
		c.Set(string(OperatorIDKey), "dispatcher-7")
		c.Next()
	}, RequestTimeout(10*time.Millisecond))
	router.PUT("/api/trips/:id/crew", func(c *gin.Context) {
		time.Sleep(100 * time.Millisecond)
	})

	req := httptest.NewRequest(http.MethodPut, "/api/trips/t-1/crew", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	entry := decodeLine(t, buf)
	assert.Equal(t, "Request timed out", entry["message"])
	assert.Equal(t, "/api/trips/:id/crew", entry["route"])
	assert.Equal(t, "dispatcher-7", entry["operator_id"])
	assert.Equal(t, w.Header().Get(RequestIDHeader), entry["request_id"])
}

func TestTimeout_ContextHasDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{name: "configured timeout", timeout: time.Second, want: time.Second},
		{name: "non-positive timeout uses the default", timeout: 0, want: DefaultRequestTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()

			var remaining time.Duration
			hasDeadline := false
			router.Use(Timeout(TimeoutConfig{Timeout: tt.timeout}))
			router.GET("/test", func(c *gin.Context) {
				var deadline time.Time
				deadline, hasDeadline = c.Request.Context().Deadline()
				remaining = time.Until(deadline)
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			require.True(t, hasDeadline, "context should have deadline set")
			assert.LessOrEqual(t, remaining, tt.want)
			assert.Greater(t, remaining, tt.want-time.Second)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}
