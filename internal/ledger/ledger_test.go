package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// runLedgerContract exercises behaviour every backend must share.
func runLedgerContract(t *testing.T, newLedger func(t *testing.T) Ledger) {
	ctx := context.Background()

	t.Run("reserve then release restores remaining", func(t *testing.T) {
		l := newLedger(t)
		require.NoError(t, l.Open(ctx, "trip-a", dec("10")))

		left, err := l.Reserve(ctx, "trip-a", dec("3.5"))
		require.NoError(t, err)
		assert.True(t, dec("6.5").Equal(left), "got %s", left)

		require.NoError(t, l.Release(ctx, "trip-a", dec("3.5")))
		remaining, err := l.Peek(ctx, "trip-a")
		require.NoError(t, err)
		assert.True(t, dec("10").Equal(remaining), "got %s", remaining)
	})

	t.Run("open is idempotent", func(t *testing.T) {
		l := newLedger(t)
		require.NoError(t, l.Open(ctx, "trip-b", dec("10")))
		_, err := l.Reserve(ctx, "trip-b", dec("4"))
		require.NoError(t, err)
		require.NoError(t, l.Open(ctx, "trip-b", dec("99")))

		remaining, err := l.Peek(ctx, "trip-b")
		require.NoError(t, err)
		assert.True(t, dec("6").Equal(remaining), "got %s", remaining)
	})

	t.Run("reserve beyond remaining fails", func(t *testing.T) {
		l := newLedger(t)
		require.NoError(t, l.Open(ctx, "trip-c", dec("10")))
		_, err := l.Reserve(ctx, "trip-c", dec("6"))
		require.NoError(t, err)

		_, err = l.Reserve(ctx, "trip-c", dec("5"))
		assert.ErrorIs(t, err, model.ErrNoCapacity)

		left, err := l.Reserve(ctx, "trip-c", dec("4"))
		require.NoError(t, err)
		assert.True(t, left.IsZero())
	})

	t.Run("release beyond reserved is an invariant violation", func(t *testing.T) {
		l := newLedger(t)
		require.NoError(t, l.Open(ctx, "trip-d", dec("10")))
		_, err := l.Reserve(ctx, "trip-d", dec("2"))
		require.NoError(t, err)

		err = l.Release(ctx, "trip-d", dec("3"))
		assert.ErrorIs(t, err, model.ErrInvariantViolation)
	})

	t.Run("unknown trip", func(t *testing.T) {
		l := newLedger(t)
		_, err := l.Reserve(ctx, "missing", dec("1"))
		assert.ErrorIs(t, err, model.ErrNotFound)
		_, err = l.Peek(ctx, "missing")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("non positive amount", func(t *testing.T) {
		l := newLedger(t)
		require.NoError(t, l.Open(ctx, "trip-e", dec("10")))
		_, err := l.Reserve(ctx, "trip-e", decimal.Zero)
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("resize can go negative", func(t *testing.T) {
		l := newLedger(t)
		require.NoError(t, l.Open(ctx, "trip-f", dec("10")))
		_, err := l.Reserve(ctx, "trip-f", dec("8"))
		require.NoError(t, err)

		remaining, err := l.Resize(ctx, "trip-f", dec("5"))
		require.NoError(t, err)
		assert.True(t, dec("-3").Equal(remaining), "got %s", remaining)

		_, err = l.Reserve(ctx, "trip-f", dec("1"))
		assert.ErrorIs(t, err, model.ErrNoCapacity)

		require.NoError(t, l.Release(ctx, "trip-f", dec("8")))
		remaining, err = l.Peek(ctx, "trip-f")
		require.NoError(t, err)
		assert.True(t, dec("5").Equal(remaining), "got %s", remaining)
	})
}

// runRaceExclusivity checks that two reservations each fitting alone but not
// together never both succeed.
func runRaceExclusivity(t *testing.T, l Ledger, rounds int) {
	ctx := context.Background()
	for i := 0; i < rounds; i++ {
		trip := "race-" + decimal.NewFromInt(int64(i)).String()
		require.NoError(t, l.Open(ctx, trip, dec("10")))

		var wg sync.WaitGroup
		var ok int32
		start := make(chan struct{})
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if _, err := l.Reserve(ctx, trip, dec("6")); err == nil {
					atomic.AddInt32(&ok, 1)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.LessOrEqual(t, atomic.LoadInt32(&ok), int32(1), "round %d", i)
		remaining, err := l.Peek(ctx, trip)
		require.NoError(t, err)
		assert.False(t, remaining.IsNegative())
	}
}
