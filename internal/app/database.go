// Package app provides database initialization and setup.
package app

import (
	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/guttosm/kandypack-dispatch/internal/circuitbreaker"
	"github.com/guttosm/kandypack-dispatch/internal/metrics"
	"github.com/guttosm/kandypack-dispatch/internal/repository"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB             *repository.MongoDB
	Store          repository.Store
	CircuitBreaker *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and wraps the store in a circuit breaker.
// Returns nil if database is disabled or connection fails.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing with in-memory store")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             "mongodb-store",
		Ignore:           repository.IsDomainError,
		OnStateChange:    publishBreakerState,
	})
	metrics.SetCircuitBreakerState(cb.Name(), int(cb.State()))

	return &DatabaseComponents{
		DB:             db,
		Store:          repository.NewStoreWithCircuitBreaker(repository.NewMongoStore(db), cb),
		CircuitBreaker: cb,
	}
}

func publishBreakerState(name string, _, to circuitbreaker.State) {
	metrics.SetCircuitBreakerState(name, int(to))
}
