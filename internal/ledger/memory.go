package ledger

import (
	"context"
	"sync"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/shopspring/decimal"
)

type memoryEntry struct {
	mu       sync.Mutex
	capacity decimal.Decimal
	reserved decimal.Decimal
}

// MemoryLedger keeps entries in process memory with one mutex per trip.
type MemoryLedger struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[string]*memoryEntry)}
}

func (l *MemoryLedger) entry(tripID string) (*memoryEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[tripID]
	return e, ok
}

// Open creates the entry if absent.
func (l *MemoryLedger) Open(_ context.Context, tripID string, capacity decimal.Decimal) error {
	if err := checkCapacity(capacity); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[tripID]; !ok {
		l.entries[tripID] = &memoryEntry{capacity: capacity, reserved: decimal.Zero}
	}
	return nil
}

// Reserve decrements remaining capacity under the entry lock.
func (l *MemoryLedger) Reserve(_ context.Context, tripID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := checkAmount(amount); err != nil {
		return decimal.Zero, err
	}
	e, ok := l.entry(tripID)
	if !ok {
		return decimal.Zero, notFound(tripID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	remaining := e.capacity.Sub(e.reserved)
	if remaining.LessThan(amount) {
		return remaining, model.ErrNoCapacity
	}
	e.reserved = e.reserved.Add(amount)
	return remaining.Sub(amount), nil
}

// Release returns space to the entry.
func (l *MemoryLedger) Release(_ context.Context, tripID string, amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	e, ok := l.entry(tripID)
	if !ok {
		return notFound(tripID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if amount.GreaterThan(e.reserved) {
		return overRelease(tripID, amount, e.reserved)
	}
	e.reserved = e.reserved.Sub(amount)
	return nil
}

// Peek returns remaining capacity.
func (l *MemoryLedger) Peek(_ context.Context, tripID string) (decimal.Decimal, error) {
	e, ok := l.entry(tripID)
	if !ok {
		return decimal.Zero, notFound(tripID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.capacity.Sub(e.reserved), nil
}

// Resize replaces capacity, keeping reservations.
func (l *MemoryLedger) Resize(_ context.Context, tripID string, capacity decimal.Decimal) (decimal.Decimal, error) {
	if err := checkCapacity(capacity); err != nil {
		return decimal.Zero, err
	}
	e, ok := l.entry(tripID)
	if !ok {
		return decimal.Zero, notFound(tripID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.capacity = capacity
	return e.capacity.Sub(e.reserved), nil
}

// Snapshot returns a copy of an entry, for inspection and tests.
func (l *MemoryLedger) Snapshot(tripID string) (Entry, error) {
	e, ok := l.entry(tripID)
	if !ok {
		return Entry{}, model.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return Entry{TripID: tripID, Capacity: e.capacity, Reserved: e.reserved}, nil
}
