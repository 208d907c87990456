package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/ledger"
	"github.com/guttosm/kandypack-dispatch/internal/repository"
)

// CatalogService maintains products, transport units and staff, and exposes trip views.
type CatalogService interface {
	SaveProduct(ctx context.Context, p model.Product) error
	// SaveTransportUnit stores u. A capacity change on an existing unit is not applied;
	// it is reported so the caller can run it through reconciliation.
	SaveTransportUnit(ctx context.Context, u model.TransportUnit) (bool, error)
	SaveStaff(ctx context.Context, s model.Staff) error
	TripDetails(ctx context.Context, tripID string) (*model.TripDetails, error)
	// PreviewSchedule expands a stored schedule, using the stored state of materialized trips.
	PreviewSchedule(ctx context.Context, scheduleID string, from time.Time, days int) ([]model.TripInstance, error)
}

// CatalogServiceImpl implements CatalogService.
type CatalogServiceImpl struct {
	store    repository.Store
	ledger   ledger.Ledger
	resolver ScheduleResolver
}

// NewCatalogService creates a catalog service.
func NewCatalogService(store repository.Store, l ledger.Ledger, resolver ScheduleResolver) *CatalogServiceImpl {
	return &CatalogServiceImpl{store: store, ledger: l, resolver: resolver}
}

// SaveProduct validates and upserts p.
func (s *CatalogServiceImpl) SaveProduct(ctx context.Context, p model.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.store.SaveProduct(ctx, p)
}

// SaveTransportUnit validates and upserts u, keeping the stored capacity.
func (s *CatalogServiceImpl) SaveTransportUnit(ctx context.Context, u model.TransportUnit) (bool, error) {
	if err := u.Validate(); err != nil {
		return false, err
	}
	existing, err := s.store.GetTransportUnit(ctx, u.ID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return false, s.store.SaveTransportUnit(ctx, u)
	case err != nil:
		return false, err
	}
	if existing.Kind != u.Kind {
		return false, model.Invalid("kind", "cannot change from "+string(existing.Kind))
	}

	changed := !existing.Capacity.Equal(u.Capacity)
	u.Capacity = existing.Capacity
	if err := s.store.SaveTransportUnit(ctx, u); err != nil {
		return false, err
	}
	return changed, nil
}

// SaveStaff validates and upserts st.
func (s *CatalogServiceImpl) SaveStaff(ctx context.Context, st model.Staff) error {
	if err := st.Validate(); err != nil {
		return err
	}
	return s.store.SaveStaff(ctx, st)
}

// TripDetails loads a materialized trip.
func (s *CatalogServiceImpl) TripDetails(ctx context.Context, tripID string) (*model.TripDetails, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	remaining, err := s.ledger.Peek(ctx, tripID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("peek trip %s: %w", tripID, err)
	}
	allocs, err := s.store.ListActiveByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	assignment, err := s.store.GetAssignment(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if allocs == nil {
		allocs = []model.Allocation{}
	}
	return &model.TripDetails{
		Trip:        *trip,
		Remaining:   remaining,
		Allocations: allocs,
		Assignment:  assignment,
	}, nil
}

// PreviewSchedule lists the trips a schedule produces in [from's day, +days).
func (s *CatalogServiceImpl) PreviewSchedule(ctx context.Context, scheduleID string, from time.Time, days int) ([]model.TripInstance, error) {
	schedule, err := s.store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	seq, err := s.resolver.ResolveInstances(*schedule, from, days)
	if err != nil {
		return nil, err
	}

	trips := []model.TripInstance{}
	for trip := range seq {
		stored, err := s.store.GetTrip(ctx, trip.ID)
		switch {
		case err == nil:
			trips = append(trips, *stored)
		case errors.Is(err, model.ErrNotFound):
			trips = append(trips, trip)
		default:
			return nil, err
		}
	}
	return trips, nil
}
