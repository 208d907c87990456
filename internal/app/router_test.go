//go:build !integration

package app

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/guttosm/kandypack-dispatch/internal/events"
	"github.com/guttosm/kandypack-dispatch/internal/ledger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeRouter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tests := []struct {
		name            string
		mutate          func(*config.Config)
		redisClient     redis.UniversalClient
		authEnabled     bool
		hasIdempotency  bool
		withAudit       bool
		expectedRate    int
		expectedOrigins int
	}{
		{
			name:         "defaults without credentials",
			mutate:       func(*config.Config) {},
			expectedRate: 0,
		},
		{
			name: "api key hashes and jwt secret enable auth",
			mutate: func(cfg *config.Config) {
				cfg.Auth = config.AuthConfig{APIKeyHashes: []string{"$2a$10$hash"}, JWTSecretKey: "secret"}
				cfg.Server.RateLimit = 50
				cfg.Server.CORSOrigins = []string{"https://ops.example"}
			},
			authEnabled:     true,
			expectedRate:    50,
			expectedOrigins: 1,
		},
		{
			name: "redis backs idempotency",
			mutate: func(cfg *config.Config) {
				cfg.Engine.LedgerBackend = config.LedgerRedis
			},
			redisClient:    client,
			hasIdempotency: true,
		},
		{
			name:      "audit trail attaches writer",
			mutate:    func(*config.Config) {},
			withAudit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			services := InitializeServices(cfg, nil, tt.redisClient, events.NewLogPublisher())

			var audit *AuditComponents
			if tt.withAudit {
				audit = InitializeAudit(cfg.Audit, nil)
				t.Cleanup(audit.Writer.Stop)
			}

			components := InitializeRouter(services, nil, tt.redisClient, audit, cfg)

			require.NotNil(t, components)
			assert.Equal(t, tt.withAudit, components.Config.AuditWriter != nil)
			assert.NotNil(t, components.Handler)
			assert.NotNil(t, components.HealthHandler)
			assert.True(t, components.Config.EnableIdempotency)
			assert.Equal(t, tt.authEnabled, components.Config.Auth.Enabled())
			assert.Equal(t, tt.hasIdempotency, components.Config.IdempotencyStore != nil)
			assert.Equal(t, tt.expectedRate, components.Config.RateLimit)
			assert.Len(t, components.Config.CORSOrigins, tt.expectedOrigins)
		})
	}
}

func TestAuthConfig(t *testing.T) {
	auth := authConfig(config.AuthConfig{APIKeyHashes: []string{"a", "b"}, JWTSecretKey: "k"})

	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, auth.APIKeyHashes)
	assert.Equal(t, []byte("k"), auth.JWTSecret)
	assert.False(t, authConfig(config.AuthConfig{}).Enabled())
}

func TestInitializeRouter_RedisLedgerIsReadinessChecked(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := testConfig()
	cfg.Engine.LedgerBackend = config.LedgerRedis
	services := InitializeServices(cfg, nil, client, events.NewLogPublisher())
	require.IsType(t, &ledger.RedisLedger{}, services.Ledger)

	components := InitializeRouter(services, nil, client, nil, cfg)
	router := newTestRouter(components)

	w := serve(router, "GET", "/readyz", "")
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"ledger":"ok"`)

	mr.Close()
	w = serve(router, "GET", "/readyz", "")
	assert.Equal(t, 503, w.Code)
}
