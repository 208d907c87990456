// Package repository provides interfaces for repository operations.
package repository

import (
	"context"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
)

// ProductRepositoryInterface defines the interface for catalog product operations.
type ProductRepositoryInterface interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	SaveProduct(ctx context.Context, p model.Product) error
}

// TransportUnitRepositoryInterface defines the interface for train and truck operations.
type TransportUnitRepositoryInterface interface {
	GetTransportUnit(ctx context.Context, id string) (*model.TransportUnit, error)
	SaveTransportUnit(ctx context.Context, u model.TransportUnit) error
}

// ScheduleRepositoryInterface defines the interface for route schedule operations.
type ScheduleRepositoryInterface interface {
	GetSchedule(ctx context.Context, id string) (*model.RouteSchedule, error)
	SaveSchedule(ctx context.Context, s model.RouteSchedule) error
	ListSchedulesByRoute(ctx context.Context, routeID string, leg model.Leg) ([]model.RouteSchedule, error)
}

// TripRepositoryInterface defines the interface for trip instance operations.
type TripRepositoryInterface interface {
	GetTrip(ctx context.Context, id string) (*model.TripInstance, error)
	// EnsureTrip inserts trip unless one with the same id exists and returns the stored trip.
	EnsureTrip(ctx context.Context, trip model.TripInstance) (*model.TripInstance, bool, error)
	UpdateTripStatus(ctx context.Context, id string, status model.TripStatus) error
	// UpdateTripArrival moves the arrival of a trip whose schedule changed duration.
	UpdateTripArrival(ctx context.Context, id string, arriveAt time.Time) error
	ListTripsBySchedule(ctx context.Context, scheduleID string, from time.Time) ([]model.TripInstance, error)
	ListTripsByUnit(ctx context.Context, unitID string, from time.Time) ([]model.TripInstance, error)
}

// OrderRepositoryInterface defines the interface for order operations.
type OrderRepositoryInterface interface {
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	CreateOrder(ctx context.Context, o model.Order) error
	// UpdateOrder writes o iff the stored version equals o.Version, then bumps o.Version.
	UpdateOrder(ctx context.Context, o *model.Order) error
}

// AllocationRepositoryInterface defines the interface for allocation operations.
type AllocationRepositoryInterface interface {
	// CreateAllocation fails with model.ErrAlreadyExists when the item already
	// has an active allocation on the same leg.
	CreateAllocation(ctx context.Context, a model.Allocation) error
	// DeactivateAllocation reports whether this call made the allocation inactive.
	DeactivateAllocation(ctx context.Context, id string, at time.Time) (bool, error)
	ListActiveByTrip(ctx context.Context, tripID string) ([]model.Allocation, error)
	ListActiveByOrder(ctx context.Context, orderID string) ([]model.Allocation, error)
}

// StaffRepositoryInterface defines the interface for crew operations.
type StaffRepositoryInterface interface {
	GetStaff(ctx context.Context, id string) (*model.Staff, error)
	SaveStaff(ctx context.Context, s model.Staff) error
	ListStaff(ctx context.Context, role model.StaffRole) ([]model.Staff, error)
}

// AssignmentRepositoryInterface defines the interface for personnel assignment operations.
type AssignmentRepositoryInterface interface {
	// GetAssignment returns nil, nil when the trip has no crew.
	GetAssignment(ctx context.Context, tripID string) (*model.PersonnelAssignment, error)
	CreateAssignment(ctx context.Context, a model.PersonnelAssignment) error
	SaveAssignment(ctx context.Context, a model.PersonnelAssignment) error
	DeleteAssignment(ctx context.Context, tripID string) error
	// ListAssignmentsByStaff returns assignments involving staffID that start in [from, to).
	ListAssignmentsByStaff(ctx context.Context, staffID string, from, to time.Time) ([]model.PersonnelAssignment, error)
}

// Store groups every repository the dispatch core needs.
type Store interface {
	ProductRepositoryInterface
	TransportUnitRepositoryInterface
	ScheduleRepositoryInterface
	TripRepositoryInterface
	OrderRepositoryInterface
	AllocationRepositoryInterface
	StaffRepositoryInterface
	AssignmentRepositoryInterface
}
