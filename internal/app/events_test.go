//go:build !integration

package app

import (
	"testing"

	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/guttosm/kandypack-dispatch/internal/events"
	"github.com/stretchr/testify/assert"
)

func TestInitializePublisher(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.KafkaConfig
	}{
		{name: "no brokers logs events", cfg: config.KafkaConfig{Topic: "kandypack.allocation-events"}},
		{name: "unreachable broker falls back to log", cfg: config.KafkaConfig{Brokers: []string{"127.0.0.1:1"}, Topic: "kandypack.allocation-events"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := InitializePublisher(tt.cfg)

			assert.IsType(t, &events.LogPublisher{}, publisher)
			assert.NoError(t, publisher.Close())
		})
	}
}
