// Package ledger tracks the remaining space of every trip instance.
//
// All mutations of an entry are serialized per trip id. Reserve succeeds iff
// remaining >= amount; Release of more than is reserved is an invariant violation.
package ledger

import (
	"context"
	"fmt"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Ledger is the capacity ledger contract shared by every backend.
type Ledger interface {
	// Open creates the entry for tripID at capacity if it does not exist yet.
	Open(ctx context.Context, tripID string, capacity decimal.Decimal) error
	// Reserve atomically decrements remaining capacity and returns what is left.
	// Fails with model.ErrNoCapacity or model.ErrConcurrentConflict.
	Reserve(ctx context.Context, tripID string, amount decimal.Decimal) (decimal.Decimal, error)
	// Release returns previously reserved space.
	Release(ctx context.Context, tripID string, amount decimal.Decimal) error
	// Peek returns remaining capacity without mutating.
	Peek(ctx context.Context, tripID string) (decimal.Decimal, error)
	// Resize replaces the capacity and returns the new remaining, which may be negative.
	Resize(ctx context.Context, tripID string, capacity decimal.Decimal) (decimal.Decimal, error)
}

// Entry is a snapshot of one ledger entry.
type Entry struct {
	TripID   string
	Capacity decimal.Decimal
	Reserved decimal.Decimal
}

// Remaining returns capacity - reserved.
func (e Entry) Remaining() decimal.Decimal {
	return e.Capacity.Sub(e.Reserved)
}

func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return model.Invalid("amount", "must be greater than zero")
	}
	return nil
}

func checkCapacity(capacity decimal.Decimal) error {
	if capacity.IsNegative() {
		return model.Invalid("capacity", "must not be negative")
	}
	return nil
}

func notFound(tripID string) error {
	return fmt.Errorf("ledger entry %s: %w", tripID, model.ErrNotFound)
}

func overRelease(tripID string, amount, reserved decimal.Decimal) error {
	return fmt.Errorf("release %s of %s exceeds reserved %s: %w", amount, tripID, reserved, model.ErrInvariantViolation)
}
