package ledger

import (
	"context"
	"fmt"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// redisScale is the number of decimal places kept when space is stored as integers.
const redisScale = 6

const (
	statusMissing   = -1
	statusNoRoom    = 0
	statusOK        = 1
	statusOverdraft = -2
)

var (
	openScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], 'cap', ARGV[1], 'res', '0')
return 1
`)

	reserveScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return {-1, 0}
end
local cap = tonumber(redis.call('HGET', KEYS[1], 'cap'))
local res = tonumber(redis.call('HGET', KEYS[1], 'res'))
local amt = tonumber(ARGV[1])
if cap - res < amt then
  return {0, cap - res}
end
redis.call('HINCRBY', KEYS[1], 'res', ARGV[1])
return {1, cap - res - amt}
`)

	releaseScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return {-1, 0}
end
local res = tonumber(redis.call('HGET', KEYS[1], 'res'))
local amt = tonumber(ARGV[1])
if amt > res then
  return {-2, res}
end
redis.call('HINCRBY', KEYS[1], 'res', '-' .. ARGV[1])
return {1, res - amt}
`)

	resizeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return {-1, 0}
end
redis.call('HSET', KEYS[1], 'cap', ARGV[1])
local res = tonumber(redis.call('HGET', KEYS[1], 'res'))
return {1, tonumber(ARGV[1]) - res}
`)
)

// RedisLedger stores entries as hashes and mutates them with Lua scripts,
// which Redis runs atomically per key.
type RedisLedger struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisLedger creates a ledger on client. Keys are namespaced by prefix.
func NewRedisLedger(client redis.UniversalClient, prefix string) *RedisLedger {
	if prefix == "" {
		prefix = "kandypack:ledger:"
	}
	return &RedisLedger{client: client, prefix: prefix}
}

func (l *RedisLedger) key(tripID string) string {
	return l.prefix + tripID
}

func toUnits(d decimal.Decimal) int64 {
	return d.Shift(redisScale).Round(0).IntPart()
}

func fromUnits(n int64) decimal.Decimal {
	return decimal.New(n, -redisScale)
}

func (l *RedisLedger) run(ctx context.Context, script *redis.Script, tripID string, units int64) (int64, int64, error) {
	res, err := script.Run(ctx, l.client, []string{l.key(tripID)}, units).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("ledger script on %s: %w", tripID, err)
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("ledger script on %s: unexpected reply %v", tripID, res)
	}
	return res[0], res[1], nil
}

// Open creates the entry if absent.
func (l *RedisLedger) Open(ctx context.Context, tripID string, capacity decimal.Decimal) error {
	if err := checkCapacity(capacity); err != nil {
		return err
	}
	if err := openScript.Run(ctx, l.client, []string{l.key(tripID)}, toUnits(capacity)).Err(); err != nil {
		return fmt.Errorf("open ledger entry %s: %w", tripID, err)
	}
	return nil
}

// Reserve runs the compare-and-decrement script.
func (l *RedisLedger) Reserve(ctx context.Context, tripID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := checkAmount(amount); err != nil {
		return decimal.Zero, err
	}
	status, remaining, err := l.run(ctx, reserveScript, tripID, toUnits(amount))
	if err != nil {
		return decimal.Zero, err
	}
	switch status {
	case statusMissing:
		return decimal.Zero, notFound(tripID)
	case statusNoRoom:
		return fromUnits(remaining), model.ErrNoCapacity
	}
	return fromUnits(remaining), nil
}

// Release runs the compare-and-increment script.
func (l *RedisLedger) Release(ctx context.Context, tripID string, amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	status, reserved, err := l.run(ctx, releaseScript, tripID, toUnits(amount))
	if err != nil {
		return err
	}
	switch status {
	case statusMissing:
		return notFound(tripID)
	case statusOverdraft:
		return overRelease(tripID, amount, fromUnits(reserved))
	}
	return nil
}

// Peek reads capacity and reservations.
func (l *RedisLedger) Peek(ctx context.Context, tripID string) (decimal.Decimal, error) {
	e, err := l.Snapshot(ctx, tripID)
	if err != nil {
		return decimal.Zero, err
	}
	return e.Remaining(), nil
}

// Resize replaces capacity.
func (l *RedisLedger) Resize(ctx context.Context, tripID string, capacity decimal.Decimal) (decimal.Decimal, error) {
	if err := checkCapacity(capacity); err != nil {
		return decimal.Zero, err
	}
	status, remaining, err := l.run(ctx, resizeScript, tripID, toUnits(capacity))
	if err != nil {
		return decimal.Zero, err
	}
	if status == statusMissing {
		return decimal.Zero, notFound(tripID)
	}
	return fromUnits(remaining), nil
}

// Snapshot reads an entry.
func (l *RedisLedger) Snapshot(ctx context.Context, tripID string) (Entry, error) {
	vals, err := l.client.HMGet(ctx, l.key(tripID), "cap", "res").Result()
	if err != nil {
		return Entry{}, fmt.Errorf("read ledger entry %s: %w", tripID, err)
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return Entry{}, notFound(tripID)
	}
	capacity, err := decimal.NewFromString(fmt.Sprint(vals[0]))
	if err != nil {
		return Entry{}, fmt.Errorf("parse capacity of %s: %w", tripID, err)
	}
	reserved, err := decimal.NewFromString(fmt.Sprint(vals[1]))
	if err != nil {
		return Entry{}, fmt.Errorf("parse reservations of %s: %w", tripID, err)
	}
	return Entry{
		TripID:   tripID,
		Capacity: capacity.Shift(-redisScale),
		Reserved: reserved.Shift(-redisScale),
	}, nil
}

// HealthCheck pings the Redis server.
func (l *RedisLedger) HealthCheck(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
