//go:build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/guttosm/kandypack-dispatch/internal/circuitbreaker"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/ledger"
	"github.com/guttosm/kandypack-dispatch/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func databaseConfig(t *testing.T) config.DatabaseConfig {
	return config.DatabaseConfig{
		URI:                            testutil.SharedMongoURI(),
		DatabaseName:                   testutil.DatabaseName(t),
		Enabled:                        true,
		CircuitBreakerFailureThreshold: 5,
		CircuitBreakerSuccessThreshold: 2,
		CircuitBreakerTimeout:          30 * time.Second,
	}
}

func TestInitializeDatabase_Integration(t *testing.T) {
	ctx := context.Background()

	components := InitializeDatabase(databaseConfig(t))
	require.NotNil(t, components)
	t.Cleanup(func() { _ = components.DB.Close(ctx) })

	assert.NoError(t, components.DB.HealthCheck(ctx))
	assert.Equal(t, circuitbreaker.StateClosed, components.CircuitBreaker.State())

	product := model.Product{ID: "choc", Name: "Chocolate bar", SpaceConsumption: decimal.RequireFromString("0.25"), AvailableQuantity: 10}
	require.NoError(t, components.Store.SaveProduct(ctx, product))

	got, err := components.Store.GetProduct(ctx, "choc")
	require.NoError(t, err)
	assert.True(t, got.SpaceConsumption.Equal(product.SpaceConsumption))

	// Missing records do not trip the breaker.
	for range 10 {
		_, err := components.Store.GetProduct(ctx, "ghost")
		assert.ErrorIs(t, err, model.ErrNotFound)
	}
	assert.Equal(t, circuitbreaker.StateClosed, components.CircuitBreaker.State())
}

func TestSelectLedger_Mongo_Integration(t *testing.T) {
	ctx := context.Background()

	components := InitializeDatabase(databaseConfig(t))
	require.NotNil(t, components)
	t.Cleanup(func() { _ = components.DB.Close(ctx) })

	got := selectLedger(config.LedgerMongo, components, nil, "")

	assert.IsType(t, &ledger.MongoLedger{}, got)
}
