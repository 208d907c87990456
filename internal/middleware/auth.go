package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	"github.com/guttosm/kandypack-dispatch/internal/i18n"
	"golang.org/x/crypto/bcrypt"
)

const (
	// APIKeyHeader is the HTTP header name for API key authentication.
	APIKeyHeader = "X-API-Key"
	// APIKeyQuery is the query parameter name for API key authentication.
	APIKeyQuery = "api_key"
	// AuthorizationHeader carries bearer tokens.
	AuthorizationHeader = "Authorization"

	// OperatorIDKey is the context key for the authenticated operator.
	OperatorIDKey ContextKey = "operator_id"
)

// AuthConfig configures operator authentication.
// Authentication is disabled when neither keys nor a secret are configured.
type AuthConfig struct {
	// APIKeyHashes are bcrypt hashes of accepted API keys.
	APIKeyHashes [][]byte
	// JWTSecret verifies HS256 bearer tokens.
	JWTSecret []byte
}

// Enabled reports whether any credential source is configured.
func (a AuthConfig) Enabled() bool {
	return len(a.APIKeyHashes) > 0 || len(a.JWTSecret) > 0
}

// apiKeyVerifier checks keys against bcrypt hashes. Accepted keys are
// remembered by digest so bcrypt runs once per key.
type apiKeyVerifier struct {
	hashes   [][]byte
	verified sync.Map
}

func newAPIKeyVerifier(hashes [][]byte) *apiKeyVerifier {
	return &apiKeyVerifier{hashes: hashes}
}

// Verify returns the operator id for key, or false when no hash matches.
func (v *apiKeyVerifier) Verify(key string) (string, bool) {
	sum := sha256.Sum256([]byte(key))
	digest := hex.EncodeToString(sum[:])
	operator := "api_key:" + digest[:12]

	if _, ok := v.verified.Load(digest); ok {
		return operator, true
	}
	for _, h := range v.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(key)) == nil {
			v.verified.Store(digest, struct{}{})
			return operator, true
		}
	}
	return "", false
}

// Authenticate returns a middleware that identifies the operator behind a request.
// A bearer token in the Authorization header is checked first, then the X-API-Key
// header or api_key query parameter.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	if !cfg.Enabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	keys := newAPIKeyVerifier(cfg.APIKeyHashes)

	return func(c *gin.Context) {
		if header := c.GetHeader(AuthorizationHeader); header != "" && len(cfg.JWTSecret) > 0 {
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				abortUnauthorized(c, i18n.ErrKeyInvalidToken)
				return
			}
			operator, err := parseOperatorToken(token, cfg.JWTSecret)
			if err != nil {
				abortUnauthorized(c, i18n.ErrKeyInvalidToken)
				return
			}
			c.Set(string(OperatorIDKey), operator)
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			key = c.Query(APIKeyQuery)
		}
		if key == "" || len(cfg.APIKeyHashes) == 0 {
			if len(cfg.APIKeyHashes) == 0 {
				abortUnauthorized(c, i18n.ErrKeyTokenRequired)
			} else {
				abortUnauthorized(c, i18n.ErrKeyAPIKeyRequired)
			}
			return
		}

		operator, ok := keys.Verify(key)
		if !ok {
			abortUnauthorized(c, i18n.ErrKeyInvalidAPIKey)
			return
		}
		c.Set(string(OperatorIDKey), operator)
		c.Next()
	}
}

// GetOperatorID retrieves the authenticated operator from the gin context.
func GetOperatorID(c *gin.Context) string {
	if id, exists := c.Get(string(OperatorIDKey)); exists {
		if operator, ok := id.(string); ok {
			return operator
		}
	}
	return ""
}

func abortUnauthorized(c *gin.Context, messageKey string) {
	locale := i18n.GetLocale(c)
	errorResp := dto.NewError(dto.ErrCodeUnauthorized, i18n.GetTranslator().Translate(messageKey, locale)).
		WithRequestID(GetRequestID(c))
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
}
