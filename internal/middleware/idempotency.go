package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	"github.com/guttosm/kandypack-dispatch/internal/i18n"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
)

const (
	// IdempotencyKeyHeader carries the client chosen key for a mutation.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the replay store.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long responses stay replayable in process memory.
	IdempotencyKeyTTL = 5 * time.Minute
)

// replayedHeaders are the response headers worth restoring on replay.
var replayedHeaders = []string{"Content-Type", "Location"}

// CachedResponse is a replayable HTTP response. Fingerprint hashes the request
// body that produced it.
type CachedResponse struct {
	StatusCode  int               `json:"status_code"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        []byte            `json:"body"`
	Fingerprint string            `json:"fingerprint"`
	Timestamp   time.Time         `json:"timestamp"`
}

// IdempotencyConfig holds configuration for idempotency middleware.
type IdempotencyConfig struct {
	Cache   IdempotencyStore
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig returns an enabled config backed by process memory.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Cache:   newIdempotencyCache(IdempotencyKeyTTL),
		TTL:     IdempotencyKeyTTL,
		Enabled: true,
	}
}

// Idempotency replays the stored 2xx response when an operator repeats a
// mutation with the same Idempotency-Key. Keys are scoped per operator, method
// and path; reusing one with a different body is answered 409 without running
// the handler, so a retried order submission can never create a second order.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Cache == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || !mutating(c.Request.Method) {
			c.Next()
			return
		}

		body, err := readBody(c.Request)
		if err != nil {
			c.Next()
			return
		}
		cacheKey := idempotencyCacheKey(key, GetOperatorID(c), c.Request)
		fingerprint := bodyFingerprint(body)

		if cached, ok := cfg.Cache.Get(c.Request.Context(), cacheKey); ok {
			if cached.Fingerprint != fingerprint {
				log := logger.WithContext(c.Request.Context())
				log.Warn().
					Str("operator_id", GetOperatorID(c)).
					Str("path", c.Request.URL.Path).
					Msg("Idempotency-Key reused with a different body")
				message := i18n.GetTranslator().Translate(i18n.ErrKeyIdempotencyKeyReused, i18n.GetLocale(c))
				c.AbortWithStatusJSON(http.StatusConflict,
					dto.NewError(dto.ErrCodeConflict, message).WithRequestID(GetRequestID(c)))
				return
			}
			replay(c, cached)
			return
		}

		writer := &capturingWriter{ResponseWriter: c.Writer, statusCode: http.StatusOK}
		c.Writer = writer

		c.Next()

		if writer.statusCode < 200 || writer.statusCode >= 300 {
			return
		}
		headers := make(map[string]string, len(replayedHeaders))
		for _, h := range replayedHeaders {
			if v := writer.Header().Get(h); v != "" {
				headers[h] = v
			}
		}
		cfg.Cache.Set(c.Request.Context(), cacheKey, &CachedResponse{
			StatusCode:  writer.statusCode,
			Headers:     headers,
			Body:        writer.body.Bytes(),
			Fingerprint: fingerprint,
		})
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func replay(c *gin.Context, cached *CachedResponse) {
	contentType := "application/json; charset=utf-8"
	for k, v := range cached.Headers {
		if k == "Content-Type" {
			contentType = v
			continue
		}
		c.Header(k, v)
	}
	c.Header(IdempotencyReplayedHeader, "true")
	c.Data(cached.StatusCode, contentType, cached.Body)
	c.Abort()
}

// readBody returns the request body and leaves an identical reader in its place.
func readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func idempotencyCacheKey(idempotencyKey, operatorID string, req *http.Request) string {
	h := sha256.New()
	for _, part := range []string{idempotencyKey, operatorID, req.Method, req.URL.Path} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func bodyFingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// capturingWriter tees the response body so it can be stored for replay.
type capturingWriter struct {
	gin.ResponseWriter
	body       bytes.Buffer
	statusCode int
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func (w *capturingWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
