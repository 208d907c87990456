//go:build !integration

package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeRedis(t *testing.T) {
	t.Run("disabled without address", func(t *testing.T) {
		assert.Nil(t, InitializeRedis(config.RedisConfig{}))
	})

	t.Run("connects to a reachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)

		client := InitializeRedis(config.RedisConfig{Addr: mr.Addr()})
		require.NotNil(t, client)
		t.Cleanup(func() { _ = client.Close() })

		assert.NoError(t, client.Ping(context.Background()).Err())
	})

	t.Run("unreachable server returns nil", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		assert.Nil(t, InitializeRedis(config.RedisConfig{Addr: addr}))
	})
}
