//go:build !integration

package app

import (
	"testing"
	"time"

	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/guttosm/kandypack-dispatch/internal/circuitbreaker"
	"github.com/guttosm/kandypack-dispatch/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitializeDatabase_Disabled(t *testing.T) {
	components := InitializeDatabase(config.DatabaseConfig{Enabled: false})

	assert.Nil(t, components)
}

func TestInitializeDatabase_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the MongoDB connect timeout")
	}

	components := InitializeDatabase(config.DatabaseConfig{
		Enabled:                        true,
		URI:                            "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200",
		DatabaseName:                   "kandypack_unreachable",
		CircuitBreakerFailureThreshold: 5,
		CircuitBreakerSuccessThreshold: 2,
		CircuitBreakerTimeout:          time.Second,
	})

	assert.Nil(t, components)
}

func TestPublishBreakerState(t *testing.T) {
	gauge := metrics.CircuitBreakerState.WithLabelValues("mongodb-test")

	publishBreakerState("mongodb-test", circuitbreaker.StateClosed, circuitbreaker.StateOpen)
	assert.Equal(t, float64(circuitbreaker.StateOpen), testutil.ToFloat64(gauge))

	publishBreakerState("mongodb-test", circuitbreaker.StateHalfOpen, circuitbreaker.StateClosed)
	assert.Equal(t, float64(circuitbreaker.StateClosed), testutil.ToFloat64(gauge))
}
