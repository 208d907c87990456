package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	"github.com/guttosm/kandypack-dispatch/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// idempotencyRouter counts handler executions so replays are observable.
func idempotencyRouter(cfg IdempotencyConfig, calls *atomic.Int32) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if op := c.GetHeader("X-Test-Operator"); op != "" {
			c.Set(string(OperatorIDKey), op)
		}
		c.Next()
	})
	router.Use(Idempotency(cfg))
	handler := func(c *gin.Context) {
		n := calls.Add(1)
		if c.Query("fail") != "" {
			c.JSON(http.StatusConflict, gin.H{"n": n})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"n": n})
	}
	router.POST("/orders", handler)
	router.DELETE("/orders/:id", handler)
	router.GET("/orders", handler)
	return router
}

type idemRequest struct {
	method   string
	path     string
	key      string
	operator string
	body     string
}

func (r idemRequest) do(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(r.method, r.path, bytes.NewReader([]byte(r.body)))
	if r.key != "" {
		req.Header.Set(IdempotencyKeyHeader, r.key)
	}
	if r.operator != "" {
		req.Header.Set("X-Test-Operator", r.operator)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	tests := []struct {
		name          string
		first, second idemRequest
		expectedCalls int32
		replayed      bool
	}{
		{
			name:          "replays same key and body",
			first:         idemRequest{method: http.MethodPost, path: "/orders", key: "k1", operator: "op-1", body: `{"id":"o-1"}`},
			second:        idemRequest{method: http.MethodPost, path: "/orders", key: "k1", operator: "op-1", body: `{"id":"o-1"}`},
			expectedCalls: 1,
			replayed:      true,
		},
		{
			name:          "replays deletes",
			first:         idemRequest{method: http.MethodDelete, path: "/orders/o-1", key: "k1"},
			second:        idemRequest{method: http.MethodDelete, path: "/orders/o-1", key: "k1"},
			expectedCalls: 1,
			replayed:      true,
		},
		{
			name:          "same key on another path is a new request",
			first:         idemRequest{method: http.MethodDelete, path: "/orders/o-1", key: "k1"},
			second:        idemRequest{method: http.MethodDelete, path: "/orders/o-2", key: "k1"},
			expectedCalls: 2,
		},
		{
			name:          "different operator is a new request",
			first:         idemRequest{method: http.MethodPost, path: "/orders", key: "k1", operator: "op-1", body: `{}`},
			second:        idemRequest{method: http.MethodPost, path: "/orders", key: "k1", operator: "op-2", body: `{}`},
			expectedCalls: 2,
		},
		{
			name:          "no key never replays",
			first:         idemRequest{method: http.MethodPost, path: "/orders", body: `{}`},
			second:        idemRequest{method: http.MethodPost, path: "/orders", body: `{}`},
			expectedCalls: 2,
		},
		{
			name:          "GET is not cached",
			first:         idemRequest{method: http.MethodGet, path: "/orders", key: "k1"},
			second:        idemRequest{method: http.MethodGet, path: "/orders", key: "k1"},
			expectedCalls: 2,
		},
		{
			name:          "error responses are not cached",
			first:         idemRequest{method: http.MethodPost, path: "/orders?fail=1", key: "k1", body: `{}`},
			second:        idemRequest{method: http.MethodPost, path: "/orders?fail=1", key: "k1", body: `{}`},
			expectedCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			router := idempotencyRouter(DefaultIdempotencyConfig(), &calls)

			first := tt.first.do(router)
			second := tt.second.do(router)

			assert.Equal(t, tt.expectedCalls, calls.Load())
			if tt.replayed {
				assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
				assert.Equal(t, first.Code, second.Code)
				assert.Equal(t, first.Body.String(), second.Body.String())
			} else {
				assert.Empty(t, second.Header().Get("X-Idempotency-Replayed"))
			}
		})
	}
}

func TestIdempotency_KeyReusedWithDifferentBody(t *testing.T) {
	var calls atomic.Int32
	router := idempotencyRouter(DefaultIdempotencyConfig(), &calls)

	first := idemRequest{method: http.MethodPost, path: "/orders", key: "k1", operator: "op-1", body: `{"id":"o-1"}`}.do(router)
	second := idemRequest{method: http.MethodPost, path: "/orders", key: "k1", operator: "op-1", body: `{"id":"o-2"}`}.do(router)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, int32(1), calls.Load(), "the handler must not run for a reused key")

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, dto.ErrCodeConflict, body.Error)
	assert.Equal(t, i18n.GetTranslator().Translate(i18n.ErrKeyIdempotencyKeyReused, i18n.DefaultLocale), body.Message)
}

func TestIdempotency_ReplaysLocation(t *testing.T) {
	router := gin.New()
	router.Use(Idempotency(DefaultIdempotencyConfig()))
	router.POST("/orders", func(c *gin.Context) {
		c.Header("Location", "/orders/o-1")
		c.Header("X-Internal", "not replayed")
		c.JSON(http.StatusCreated, gin.H{"id": "o-1"})
	})

	req := idemRequest{method: http.MethodPost, path: "/orders", key: "k1", body: `{}`}
	req.do(router)
	second := req.do(router)

	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "/orders/o-1", second.Header().Get("Location"))
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Empty(t, second.Header().Get("X-Internal"))
}

func TestIdempotency_RedisStore(t *testing.T) {
	store, _ := newRedisStore(t, IdempotencyKeyTTL)
	var calls atomic.Int32
	router := idempotencyRouter(IdempotencyConfig{Cache: store, TTL: IdempotencyKeyTTL, Enabled: true}, &calls)

	req := idemRequest{method: http.MethodPost, path: "/orders", key: "k1", body: `{"id":"o-1"}`}
	first := req.do(router)
	second := req.do(router)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestIdempotency_Disabled(t *testing.T) {
	cfg := DefaultIdempotencyConfig()
	cfg.Enabled = false

	var calls atomic.Int32
	router := idempotencyRouter(cfg, &calls)

	req := idemRequest{method: http.MethodPost, path: "/orders", key: "k1", body: `{}`}
	req.do(router)
	req.do(router)

	assert.Equal(t, int32(2), calls.Load())
}
