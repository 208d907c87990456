package app

import (
	"context"
	"time"

	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisPingTimeout = 5 * time.Second

// InitializeRedis connects the client shared by the Redis ledger and the idempotency store.
// Returns nil if Redis is not configured or unreachable.
func InitializeRedis(cfg config.RedisConfig) redis.UniversalClient {
	if !cfg.Enabled() {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Str("addr", cfg.Addr).Msg("Failed to connect to Redis - continuing without it")
		_ = client.Close()
		return nil
	}

	log.Info().Str("addr", cfg.Addr).Msg("Connected to Redis")
	return client
}
