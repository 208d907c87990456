package middleware

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	"github.com/guttosm/kandypack-dispatch/internal/i18n"
	"github.com/guttosm/kandypack-dispatch/internal/metrics"
)

const defaultNumShards = 16

// bucket is a token bucket that refills continuously up to the burst size.
type bucket struct {
	tokens  float64
	updated time.Time
}

type rateLimiterShard struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// ShardedRateLimiter allows rate requests per window for each caller. Tokens
// refill continuously, so a caller that used its budget regains one request
// every window/rate instead of waiting for a fixed window to roll over.
// Callers are spread over shards to keep lock contention low.
type ShardedRateLimiter struct {
	shards    []*rateLimiterShard
	numShards int
	rate      int
	window    time.Duration
	perToken  time.Duration
	now       func() time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewRateLimiter creates a rate limiter with the default shard count.
func NewRateLimiter(rate int, window time.Duration) *ShardedRateLimiter {
	return NewShardedRateLimiter(rate, window, defaultNumShards)
}

// NewShardedRateLimiter creates a rate limiter with numShards shards.
// A non-positive rate is treated as 1 and a non-positive window as one minute.
func NewShardedRateLimiter(rate int, window time.Duration, numShards int) *ShardedRateLimiter {
	if numShards <= 0 {
		numShards = defaultNumShards
	}
	rate = max(rate, 1)
	if window <= 0 {
		window = time.Minute
	}

	shards := make([]*rateLimiterShard, numShards)
	for i := range shards {
		shards[i] = &rateLimiterShard{buckets: make(map[string]*bucket)}
	}

	rl := &ShardedRateLimiter{
		shards:    shards,
		numShards: numShards,
		rate:      rate,
		window:    window,
		perToken:  window / time.Duration(rate),
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}

	go rl.cleanup()
	return rl
}

func (rl *ShardedRateLimiter) getShard(identifier string) *rateLimiterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identifier))
	return rl.shards[h.Sum32()%uint32(rl.numShards)]
}

// take spends one token for identifier. When none is left it reports how long
// until the next one.
func (rl *ShardedRateLimiter) take(identifier string) (allowed bool, remaining int, retryAfter time.Duration) {
	shard := rl.getShard(identifier)
	now := rl.now()

	shard.mu.Lock()
	defer shard.mu.Unlock()

	b, ok := shard.buckets[identifier]
	if !ok {
		b = &bucket{tokens: float64(rl.rate), updated: now}
		shard.buckets[identifier] = b
	} else if elapsed := now.Sub(b.updated); elapsed > 0 {
		b.tokens = math.Min(float64(rl.rate), b.tokens+float64(elapsed)/float64(rl.perToken))
		b.updated = now
	}

	if b.tokens < 1 {
		missing := 1 - b.tokens
		return false, 0, time.Duration(math.Ceil(missing * float64(rl.perToken)))
	}
	b.tokens--
	return true, int(b.tokens), 0
}

// RateLimit returns a middleware that limits requests per client IP.
func (rl *ShardedRateLimiter) RateLimit() gin.HandlerFunc {
	return rl.limit(func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	})
}

// OperatorRateLimit returns a middleware that limits requests per
// authenticated operator, or per IP for anonymous callers.
func (rl *ShardedRateLimiter) OperatorRateLimit() gin.HandlerFunc {
	return rl.limit(operatorIdentifier)
}

func (rl *ShardedRateLimiter) limit(identify func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, retryAfter := rl.take(identify(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			route := c.FullPath()
			if route == "" {
				route = c.Request.URL.Path
			}
			metrics.RecordInterruptedRequest(route, "rate_limited")

			seconds := int(math.Ceil(retryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(seconds, 1)))
			message := i18n.GetTranslator().Translate(i18n.ErrKeyRateLimitExceeded, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewError(dto.ErrCodeRateLimit, message).WithRequestID(GetRequestID(c)))
			return
		}

		c.Next()
	}
}

func operatorIdentifier(c *gin.Context) string {
	if operator := GetOperatorID(c); operator != "" {
		return "operator:" + operator
	}
	return "ip:" + c.ClientIP()
}

func (rl *ShardedRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupExpired()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanupExpired drops buckets that have been full for a whole window; a
// fresh bucket behaves identically.
func (rl *ShardedRateLimiter) cleanupExpired() {
	now := rl.now()
	for _, shard := range rl.shards {
		shard.mu.Lock()
		for id, b := range shard.buckets {
			if now.Sub(b.updated) > rl.window {
				delete(shard.buckets, id)
			}
		}
		shard.mu.Unlock()
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *ShardedRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Stats returns the number of tracked callers, overall and per shard.
func (rl *ShardedRateLimiter) Stats() (totalVisitors int, perShard []int) {
	perShard = make([]int, rl.numShards)
	for i, shard := range rl.shards {
		shard.mu.Lock()
		perShard[i] = len(shard.buckets)
		totalVisitors += perShard[i]
		shard.mu.Unlock()
	}
	return totalVisitors, perShard
}
