// Package repository provides circuit breaker wrappers for MongoDB operations.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/circuitbreaker"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
)

// IsDomainError reports errors that describe data, not backend health.
// Circuit breakers ignore them.
func IsDomainError(err error) bool {
	return errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, model.ErrAlreadyExists) ||
		errors.Is(err, model.ErrConcurrentConflict) ||
		errors.Is(err, model.ErrValidation)
}

// StoreWithCircuitBreaker wraps a Store with circuit breaker protection.
type StoreWithCircuitBreaker struct {
	store          Store
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewStoreWithCircuitBreaker creates a new store wrapper with circuit breaker.
func NewStoreWithCircuitBreaker(store Store, cb *circuitbreaker.CircuitBreaker) *StoreWithCircuitBreaker {
	return &StoreWithCircuitBreaker{
		store:          store,
		circuitBreaker: cb,
	}
}

func (r *StoreWithCircuitBreaker) exec(ctx context.Context, fn func() error) error {
	return r.circuitBreaker.Execute(ctx, fn)
}

// GetProduct returns a product with circuit breaker protection.
func (r *StoreWithCircuitBreaker) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() (*model.Product, error) {
		return r.store.GetProduct(ctx, id)
	})
}

// SaveProduct upserts a product with circuit breaker protection.
func (r *StoreWithCircuitBreaker) SaveProduct(ctx context.Context, p model.Product) error {
	return r.exec(ctx, func() error { return r.store.SaveProduct(ctx, p) })
}

// GetTransportUnit returns a unit with circuit breaker protection.
func (r *StoreWithCircuitBreaker) GetTransportUnit(ctx context.Context, id string) (*model.TransportUnit, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() (*model.TransportUnit, error) {
		return r.store.GetTransportUnit(ctx, id)
	})
}

// SaveTransportUnit upserts a unit with circuit breaker protection.
func (r *StoreWithCircuitBreaker) SaveTransportUnit(ctx context.Context, u model.TransportUnit) error {
	return r.exec(ctx, func() error { return r.store.SaveTransportUnit(ctx, u) })
}

// GetSchedule returns a schedule with circuit breaker protection.
func (r *StoreWithCircuitBreaker) GetSchedule(ctx context.Context, id string) (*model.RouteSchedule, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() (*model.RouteSchedule, error) {
		return r.store.GetSchedule(ctx, id)
	})
}

// SaveSchedule upserts a schedule with circuit breaker protection.
func (r *StoreWithCircuitBreaker) SaveSchedule(ctx context.Context, s model.RouteSchedule) error {
	return r.exec(ctx, func() error { return r.store.SaveSchedule(ctx, s) })
}

// ListSchedulesByRoute lists schedules with circuit breaker protection.
func (r *StoreWithCircuitBreaker) ListSchedulesByRoute(ctx context.Context, routeID string, leg model.Leg) ([]model.RouteSchedule, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() ([]model.RouteSchedule, error) {
		return r.store.ListSchedulesByRoute(ctx, routeID, leg)
	})
}

// GetTrip returns a trip with circuit breaker protection.
func (r *StoreWithCircuitBreaker) GetTrip(ctx context.Context, id string) (*model.TripInstance, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() (*model.TripInstance, error) {
		return r.store.GetTrip(ctx, id)
	})
}

// EnsureTrip materializes a trip with circuit breaker protection.
func (r *StoreWithCircuitBreaker) EnsureTrip(ctx context.Context, trip model.TripInstance) (*model.TripInstance, bool, error) {
	var created bool
	stored, err := circuitbreaker.Call(ctx, r.circuitBreaker, func() (*model.TripInstance, error) {
		t, c, err := r.store.EnsureTrip(ctx, trip)
		created = c
		return t, err
	})
	return stored, created, err
}

// UpdateTripStatus sets a trip status with circuit breaker protection.
func (r *StoreWithCircuitBreaker) UpdateTripStatus(ctx context.Context, id string, status model.TripStatus) error {
	return r.exec(ctx, func() error { return r.store.UpdateTripStatus(ctx, id, status) })
}

// UpdateTripArrival sets a trip arrival with circuit breaker protection.
func (r *StoreWithCircuitBreaker) UpdateTripArrival(ctx context.Context, id string, arriveAt time.Time) error {
	return r.exec(ctx, func() error { return r.store.UpdateTripArrival(ctx, id, arriveAt) })
}

// ListTripsBySchedule lists trips with circuit breaker protection.
func (r *StoreWithCircuitBreaker) ListTripsBySchedule(ctx context.Context, scheduleID string, from time.Time) ([]model.TripInstance, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() ([]model.TripInstance, error) {
		return r.store.ListTripsBySchedule(ctx, scheduleID, from)
	})
}

// ListTripsByUnit lists trips with circuit breaker protection.
func (r *StoreWithCircuitBreaker) ListTripsByUnit(ctx context.Context, unitID string, from time.Time) ([]model.TripInstance, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() ([]model.TripInstance, error) {
		return r.store.ListTripsByUnit(ctx, unitID, from)
	})
}

// GetOrder returns an order with circuit breaker protection.
func (r *StoreWithCircuitBreaker) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() (*model.Order, error) {
		return r.store.GetOrder(ctx, id)
	})
}

// CreateOrder inserts an order with circuit breaker protection.
func (r *StoreWithCircuitBreaker) CreateOrder(ctx context.Context, o model.Order) error {
	return r.exec(ctx, func() error { return r.store.CreateOrder(ctx, o) })
}

// UpdateOrder swaps an order with circuit breaker protection.
func (r *StoreWithCircuitBreaker) UpdateOrder(ctx context.Context, o *model.Order) error {
	return r.exec(ctx, func() error { return r.store.UpdateOrder(ctx, o) })
}

// CreateAllocation inserts an allocation with circuit breaker protection.
func (r *StoreWithCircuitBreaker) CreateAllocation(ctx context.Context, a model.Allocation) error {
	return r.exec(ctx, func() error { return r.store.CreateAllocation(ctx, a) })
}

// DeactivateAllocation deactivates an allocation with circuit breaker protection.
func (r *StoreWithCircuitBreaker) DeactivateAllocation(ctx context.Context, id string, at time.Time) (bool, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() (bool, error) {
		return r.store.DeactivateAllocation(ctx, id, at)
	})
}

// ListActiveByTrip lists allocations with circuit breaker protection.
func (r *StoreWithCircuitBreaker) ListActiveByTrip(ctx context.Context, tripID string) ([]model.Allocation, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() ([]model.Allocation, error) {
		return r.store.ListActiveByTrip(ctx, tripID)
	})
}

// ListActiveByOrder lists allocations with circuit breaker protection.
func (r *StoreWithCircuitBreaker) ListActiveByOrder(ctx context.Context, orderID string) ([]model.Allocation, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() ([]model.Allocation, error) {
		return r.store.ListActiveByOrder(ctx, orderID)
	})
}

// GetStaff returns a staff member with circuit breaker protection.
func (r *StoreWithCircuitBreaker) GetStaff(ctx context.Context, id string) (*model.Staff, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() (*model.Staff, error) {
		return r.store.GetStaff(ctx, id)
	})
}

// SaveStaff upserts a staff member with circuit breaker protection.
func (r *StoreWithCircuitBreaker) SaveStaff(ctx context.Context, s model.Staff) error {
	return r.exec(ctx, func() error { return r.store.SaveStaff(ctx, s) })
}

// ListStaff lists staff with circuit breaker protection.
func (r *StoreWithCircuitBreaker) ListStaff(ctx context.Context, role model.StaffRole) ([]model.Staff, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() ([]model.Staff, error) {
		return r.store.ListStaff(ctx, role)
	})
}

// GetAssignment returns a crew with circuit breaker protection.
func (r *StoreWithCircuitBreaker) GetAssignment(ctx context.Context, tripID string) (*model.PersonnelAssignment, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() (*model.PersonnelAssignment, error) {
		return r.store.GetAssignment(ctx, tripID)
	})
}

// CreateAssignment inserts a crew with circuit breaker protection.
func (r *StoreWithCircuitBreaker) CreateAssignment(ctx context.Context, a model.PersonnelAssignment) error {
	return r.exec(ctx, func() error { return r.store.CreateAssignment(ctx, a) })
}

// SaveAssignment upserts a crew with circuit breaker protection.
func (r *StoreWithCircuitBreaker) SaveAssignment(ctx context.Context, a model.PersonnelAssignment) error {
	return r.exec(ctx, func() error { return r.store.SaveAssignment(ctx, a) })
}

// DeleteAssignment removes a crew with circuit breaker protection.
func (r *StoreWithCircuitBreaker) DeleteAssignment(ctx context.Context, tripID string) error {
	return r.exec(ctx, func() error { return r.store.DeleteAssignment(ctx, tripID) })
}

// ListAssignmentsByStaff lists crews with circuit breaker protection.
func (r *StoreWithCircuitBreaker) ListAssignmentsByStaff(ctx context.Context, staffID string, from, to time.Time) ([]model.PersonnelAssignment, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() ([]model.PersonnelAssignment, error) {
		return r.store.ListAssignmentsByStaff(ctx, staffID, from, to)
	})
}
