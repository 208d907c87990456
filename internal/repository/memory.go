// Package repository provides an in-memory store used when MongoDB is disabled and in tests.
package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
)

// MemoryStore implements Store on maps guarded by a single RWMutex.
type MemoryStore struct {
	mu          sync.RWMutex
	products    map[string]model.Product
	units       map[string]model.TransportUnit
	schedules   map[string]model.RouteSchedule
	trips       map[string]model.TripInstance
	orders      map[string]model.Order
	allocations map[string]model.Allocation
	activeLeg   map[string]string // order/item/leg -> allocation id
	staff       map[string]model.Staff
	assignments map[string]model.PersonnelAssignment
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:    make(map[string]model.Product),
		units:       make(map[string]model.TransportUnit),
		schedules:   make(map[string]model.RouteSchedule),
		trips:       make(map[string]model.TripInstance),
		orders:      make(map[string]model.Order),
		allocations: make(map[string]model.Allocation),
		activeLeg:   make(map[string]string),
		staff:       make(map[string]model.Staff),
		assignments: make(map[string]model.PersonnelAssignment),
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
}

func legKey(orderID, itemID string, leg model.Leg) string {
	return orderID + "/" + itemID + "/" + string(leg)
}

func copyOrder(o model.Order) model.Order {
	o.Items = slices.Clone(o.Items)
	return o
}

// GetProduct returns a product by id.
func (s *MemoryStore) GetProduct(_ context.Context, id string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, notFound("product", id)
	}
	return &p, nil
}

// SaveProduct upserts a product.
func (s *MemoryStore) SaveProduct(_ context.Context, p model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return nil
}

// GetTransportUnit returns a unit by id.
func (s *MemoryStore) GetTransportUnit(_ context.Context, id string) (*model.TransportUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.units[id]
	if !ok {
		return nil, notFound("transport unit", id)
	}
	return &u, nil
}

// SaveTransportUnit upserts a unit.
func (s *MemoryStore) SaveTransportUnit(_ context.Context, u model.TransportUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units[u.ID] = u
	return nil
}

// GetSchedule returns a schedule by id.
func (s *MemoryStore) GetSchedule(_ context.Context, id string) (*model.RouteSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sch, ok := s.schedules[id]
	if !ok {
		return nil, notFound("schedule", id)
	}
	sch.OperatingDays = slices.Clone(sch.OperatingDays)
	return &sch, nil
}

// SaveSchedule upserts a schedule.
func (s *MemoryStore) SaveSchedule(_ context.Context, sch model.RouteSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sch.OperatingDays = slices.Clone(sch.OperatingDays)
	s.schedules[sch.ID] = sch
	return nil
}

// ListSchedulesByRoute returns schedules serving routeID on leg, ordered by id.
func (s *MemoryStore) ListSchedulesByRoute(_ context.Context, routeID string, leg model.Leg) ([]model.RouteSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.RouteSchedule
	for _, sch := range s.schedules {
		if sch.RouteID == routeID && sch.Leg == leg {
			sch.OperatingDays = slices.Clone(sch.OperatingDays)
			out = append(out, sch)
		}
	}
	slices.SortFunc(out, func(a, b model.RouteSchedule) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// GetTrip returns a trip by id.
func (s *MemoryStore) GetTrip(_ context.Context, id string) (*model.TripInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trips[id]
	if !ok {
		return nil, notFound("trip", id)
	}
	return &t, nil
}

// EnsureTrip inserts trip if absent.
func (s *MemoryStore) EnsureTrip(_ context.Context, trip model.TripInstance) (*model.TripInstance, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.trips[trip.ID]; ok {
		return &existing, false, nil
	}
	s.trips[trip.ID] = trip
	return &trip, true, nil
}

// UpdateTripStatus sets a trip's status.
func (s *MemoryStore) UpdateTripStatus(_ context.Context, id string, status model.TripStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return notFound("trip", id)
	}
	t.Status = status
	s.trips[id] = t
	return nil
}

// UpdateTripArrival sets a trip's arrival time.
func (s *MemoryStore) UpdateTripArrival(_ context.Context, id string, arriveAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return notFound("trip", id)
	}
	t.ArriveAt = arriveAt
	s.trips[id] = t
	return nil
}

func (s *MemoryStore) listTrips(match func(model.TripInstance) bool) []model.TripInstance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.TripInstance
	for _, t := range s.trips {
		if match(t) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b model.TripInstance) int {
		if c := a.DepartAt.Compare(b.DepartAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// ListTripsBySchedule returns trips of scheduleID departing at or after from.
func (s *MemoryStore) ListTripsBySchedule(_ context.Context, scheduleID string, from time.Time) ([]model.TripInstance, error) {
	return s.listTrips(func(t model.TripInstance) bool {
		return t.ScheduleID == scheduleID && !t.DepartAt.Before(from)
	}), nil
}

// ListTripsByUnit returns trips run by unitID departing at or after from.
func (s *MemoryStore) ListTripsByUnit(_ context.Context, unitID string, from time.Time) ([]model.TripInstance, error) {
	return s.listTrips(func(t model.TripInstance) bool {
		return t.TransportUnitID == unitID && !t.DepartAt.Before(from)
	}), nil
}

// GetOrder returns an order by id.
func (s *MemoryStore) GetOrder(_ context.Context, id string) (*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, notFound("order", id)
	}
	o = copyOrder(o)
	return &o, nil
}

// CreateOrder inserts a new order.
func (s *MemoryStore) CreateOrder(_ context.Context, o model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; ok {
		return fmt.Errorf("order %s: %w", o.ID, model.ErrAlreadyExists)
	}
	s.orders[o.ID] = copyOrder(o)
	return nil
}

// UpdateOrder performs a compare-and-swap on the order version.
func (s *MemoryStore) UpdateOrder(_ context.Context, o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[o.ID]
	if !ok {
		return notFound("order", o.ID)
	}
	if stored.Version != o.Version {
		return fmt.Errorf("order %s at version %d: %w", o.ID, o.Version, model.ErrConcurrentConflict)
	}
	o.Version++
	s.orders[o.ID] = copyOrder(*o)
	return nil
}

// CreateAllocation inserts an active allocation.
func (s *MemoryStore) CreateAllocation(_ context.Context, a model.Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := legKey(a.OrderID, a.OrderItemID, a.Leg)
	if _, ok := s.activeLeg[key]; ok && a.Active {
		return fmt.Errorf("allocation for %s: %w", key, model.ErrAlreadyExists)
	}
	if _, ok := s.allocations[a.ID]; ok {
		return fmt.Errorf("allocation %s: %w", a.ID, model.ErrAlreadyExists)
	}
	s.allocations[a.ID] = a
	if a.Active {
		s.activeLeg[key] = a.ID
	}
	return nil
}

// DeactivateAllocation flips an allocation to inactive exactly once.
func (s *MemoryStore) DeactivateAllocation(_ context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.allocations[id]
	if !ok {
		return false, notFound("allocation", id)
	}
	if !a.Active {
		return false, nil
	}
	a.Active = false
	a.ReleasedAt = &at
	s.allocations[id] = a
	delete(s.activeLeg, legKey(a.OrderID, a.OrderItemID, a.Leg))
	return true, nil
}

func (s *MemoryStore) listActive(match func(model.Allocation) bool) []model.Allocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Allocation
	for _, a := range s.allocations {
		if a.Active && match(a) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b model.Allocation) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// ListActiveByTrip returns active allocations on tripID, oldest first.
func (s *MemoryStore) ListActiveByTrip(_ context.Context, tripID string) ([]model.Allocation, error) {
	return s.listActive(func(a model.Allocation) bool { return a.TripInstanceID == tripID }), nil
}

// ListActiveByOrder returns active allocations of orderID, oldest first.
func (s *MemoryStore) ListActiveByOrder(_ context.Context, orderID string) ([]model.Allocation, error) {
	return s.listActive(func(a model.Allocation) bool { return a.OrderID == orderID }), nil
}

// GetStaff returns a staff member by id.
func (s *MemoryStore) GetStaff(_ context.Context, id string) (*model.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.staff[id]
	if !ok {
		return nil, notFound("staff", id)
	}
	return &st, nil
}

// SaveStaff upserts a staff member.
func (s *MemoryStore) SaveStaff(_ context.Context, st model.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff[st.ID] = st
	return nil
}

// ListStaff returns staff with role, ordered by id.
func (s *MemoryStore) ListStaff(_ context.Context, role model.StaffRole) ([]model.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Staff
	for _, st := range s.staff {
		if st.Role == role {
			out = append(out, st)
		}
	}
	slices.SortFunc(out, func(a, b model.Staff) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// GetAssignment returns the crew of tripID or nil.
func (s *MemoryStore) GetAssignment(_ context.Context, tripID string) (*model.PersonnelAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[tripID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// CreateAssignment inserts a crew for a trip that has none.
func (s *MemoryStore) CreateAssignment(_ context.Context, a model.PersonnelAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[a.TripInstanceID]; ok {
		return fmt.Errorf("assignment for %s: %w", a.TripInstanceID, model.ErrAlreadyExists)
	}
	s.assignments[a.TripInstanceID] = a
	return nil
}

// SaveAssignment upserts a crew.
func (s *MemoryStore) SaveAssignment(_ context.Context, a model.PersonnelAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[a.TripInstanceID] = a
	return nil
}

// DeleteAssignment removes a trip's crew.
func (s *MemoryStore) DeleteAssignment(_ context.Context, tripID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assignments, tripID)
	return nil
}

// ListAssignmentsByStaff returns assignments of staffID starting in [from, to).
func (s *MemoryStore) ListAssignmentsByStaff(_ context.Context, staffID string, from, to time.Time) ([]model.PersonnelAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.PersonnelAssignment
	for _, a := range s.assignments {
		if a.Involves(staffID) && !a.StartsAt.Before(from) && a.StartsAt.Before(to) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b model.PersonnelAssignment) int { return a.StartsAt.Compare(b.StartsAt) })
	return out, nil
}
