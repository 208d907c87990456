package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/logger"
	"github.com/redis/go-redis/v9"
)

// IdempotencyStore keeps replayable responses keyed by operator, method,
// path and Idempotency-Key.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*CachedResponse, bool)
	Set(ctx context.Context, key string, resp *CachedResponse)
}

// idempotencyCache keeps replayable responses in process memory. Like the
// Redis store, the first response stored under a key wins until it expires.
type idempotencyCache struct {
	mu    sync.RWMutex
	items map[string]*CachedResponse
	ttl   time.Duration
	now   func() time.Time
}

func newIdempotencyCache(ttl time.Duration) *idempotencyCache {
	c := &idempotencyCache{
		items: make(map[string]*CachedResponse),
		ttl:   ttl,
		now:   time.Now,
	}
	go c.sweep(time.Minute)
	return c
}

func (c *idempotencyCache) expired(resp *CachedResponse, now time.Time) bool {
	return now.Sub(resp.Timestamp) > c.ttl
}

func (c *idempotencyCache) Get(_ context.Context, key string) (*CachedResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	resp, ok := c.items[key]
	if !ok || c.expired(resp, c.now()) {
		return nil, false
	}
	return resp, true
}

func (c *idempotencyCache) Set(_ context.Context, key string, resp *CachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if existing, ok := c.items[key]; ok && !c.expired(existing, now) {
		return
	}
	resp.Timestamp = now
	c.items[key] = resp
}

func (c *idempotencyCache) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		c.removeExpired()
	}
}

func (c *idempotencyCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, resp := range c.items {
		if c.expired(resp, now) {
			delete(c.items, key)
		}
	}
}

const redisIdempotencyPrefix = "kandypack:idempotency:"

// redisIdempotencyStore shares replayable responses between replicas.
type redisIdempotencyStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisIdempotencyStore returns a store backed by Redis keys that expire after ttl.
func NewRedisIdempotencyStore(client redis.UniversalClient, ttl time.Duration) IdempotencyStore {
	return &redisIdempotencyStore{client: client, ttl: ttl}
}

func (s *redisIdempotencyStore) Get(ctx context.Context, key string) (*CachedResponse, bool) {
	raw, err := s.client.Get(ctx, redisIdempotencyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log := logger.WithContext(ctx)
			log.Warn().Err(err).Msg("idempotency lookup failed")
		}
		return nil, false
	}
	var resp CachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Set stores resp unless another replica stored one first.
func (s *redisIdempotencyStore) Set(ctx context.Context, key string, resp *CachedResponse) {
	resp.Timestamp = time.Now()
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.client.SetNX(ctx, redisIdempotencyPrefix+key, raw, s.ttl).Err(); err != nil {
		log := logger.WithContext(ctx)
		log.Warn().Err(err).Msg("idempotency store failed")
	}
}
