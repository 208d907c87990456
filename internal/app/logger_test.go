//go:build !integration

package app

import (
	"testing"

	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LogConfig
		level zerolog.Level
	}{
		{name: "empty level defaults to info", cfg: config.LogConfig{}, level: zerolog.InfoLevel},
		{name: "debug level", cfg: config.LogConfig{Level: "debug"}, level: zerolog.DebugLevel},
		{name: "warn level with pretty output", cfg: config.LogConfig{Level: "warn", Pretty: true}, level: zerolog.WarnLevel},
		{name: "error level", cfg: config.LogConfig{Level: "error"}, level: zerolog.ErrorLevel},
		{name: "unknown level falls back to info", cfg: config.LogConfig{Level: "loud"}, level: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

			assert.NotPanics(t, func() {
				InitializeLogger(tt.cfg)
			})
			assert.Equal(t, tt.level, zerolog.GlobalLevel())
		})
	}
}
