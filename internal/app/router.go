// Package app provides router configuration.
package app

import (
	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/guttosm/kandypack-dispatch/internal/http"
	"github.com/guttosm/kandypack-dispatch/internal/middleware"
	"github.com/redis/go-redis/v9"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers, readiness checks and router configuration.
func InitializeRouter(
	services *ServiceComponents,
	dbComponents *DatabaseComponents,
	redisClient redis.UniversalClient,
	audit *AuditComponents,
	cfg config.Config,
) *RouterComponents {
	opts := []http.HandlerOption{http.WithPreviewDays(cfg.Server.PreviewDays)}
	if audit != nil {
		opts = append(opts, http.WithAuditLog(audit.Service))
	}
	handler := http.NewHandler(
		services.Engine,
		services.Catalog,
		services.Personnel,
		services.Reconciler,
		services.Pool,
		opts...,
	)

	healthHandler := http.NewHealthHandler()
	if dbComponents != nil {
		healthHandler.RegisterChecker("mongodb", dbComponents.DB)
		healthHandler.RegisterCircuitBreaker("mongodb", dbComponents.CircuitBreaker)
	}
	if checker, ok := services.Ledger.(http.HealthChecker); ok {
		healthHandler.RegisterChecker("ledger", checker)
	}

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		RequestTimeout:    cfg.Server.RequestTimeout,
		Auth:              authConfig(cfg.Auth),
		EnableIdempotency: true,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
	}
	if audit != nil {
		routerCfg.AuditWriter = audit.Writer
	}
	if redisClient != nil {
		routerCfg.IdempotencyStore = middleware.NewRedisIdempotencyStore(redisClient, cfg.Redis.IdempotencyTTL)
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}

func authConfig(cfg config.AuthConfig) middleware.AuthConfig {
	var auth middleware.AuthConfig
	for _, hash := range cfg.APIKeyHashes {
		auth.APIKeyHashes = append(auth.APIKeyHashes, []byte(hash))
	}
	if cfg.JWTSecretKey != "" {
		auth.JWTSecret = []byte(cfg.JWTSecretKey)
	}
	return auth
}
