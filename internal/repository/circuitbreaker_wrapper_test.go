//go:build !integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/circuitbreaker"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

// failingStore fails every order read with a backend error.
type failingStore struct {
	*MemoryStore
	err error
}

func (s *failingStore) GetOrder(context.Context, string) (*model.Order, error) {
	return nil, s.err
}

func newTestBreaker() *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "test-store",
		Ignore:           IsDomainError,
	})
}

func TestStoreWithCircuitBreaker_Contract(t *testing.T) {
	runStoreContract(t, NewStoreWithCircuitBreaker(NewMemoryStore(), newTestBreaker()))
}

func TestStoreWithCircuitBreaker_DomainErrorsDoNotOpen(t *testing.T) {
	cb := newTestBreaker()
	store := NewStoreWithCircuitBreaker(NewMemoryStore(), cb)

	for i := 0; i < 5; i++ {
		_, err := store.GetOrder(context.Background(), "missing")
		assert.ErrorIs(t, err, model.ErrNotFound)
	}
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
}

func TestStoreWithCircuitBreaker_BackendErrorsOpen(t *testing.T) {
	cb := newTestBreaker()
	backendErr := errors.New("server selection timeout")
	store := NewStoreWithCircuitBreaker(&failingStore{MemoryStore: NewMemoryStore(), err: backendErr}, cb)

	_, err := store.GetOrder(context.Background(), "x")
	assert.ErrorIs(t, err, backendErr)
	_, err = store.GetOrder(context.Background(), "x")
	assert.ErrorIs(t, err, backendErr)

	_, err = store.GetOrder(context.Background(), "x")
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.True(t, cb.IsOpen())
}
