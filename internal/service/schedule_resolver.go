package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/ledger"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
	"github.com/guttosm/kandypack-dispatch/internal/repository"
	"github.com/guttosm/kandypack-dispatch/internal/service/cache"
)

// ScheduleResolver expands route schedules into dated trip instances.
type ScheduleResolver interface {
	// ResolveInstances lazily yields the trips of schedule in [from's day, +horizonDays).
	ResolveInstances(schedule model.RouteSchedule, from time.Time, horizonDays int) (iter.Seq[model.TripInstance], error)
	// Candidates returns every trip serving routeID on leg departing at or after notBefore, earliest first.
	Candidates(ctx context.Context, routeID string, leg model.Leg, notBefore time.Time, horizonDays int) ([]model.TripInstance, error)
	// Materialize persists trip if absent and opens its ledger entry at the unit's capacity.
	Materialize(ctx context.Context, trip model.TripInstance) (*model.TripInstance, error)
	// Invalidate drops cached schedules of a route and leg.
	Invalidate(routeID string, leg model.Leg)
	// Location returns the calendar time zone.
	Location() *time.Location
}

// ResolverOption configures a ScheduleResolverImpl.
type ResolverOption func(*ScheduleResolverImpl)

// ScheduleResolverImpl implements ScheduleResolver on top of the store and ledger.
type ScheduleResolverImpl struct {
	store  repository.Store
	ledger ledger.Ledger
	loc    *time.Location
	cache  cache.Cache[[]model.RouteSchedule]
}

// NewScheduleResolver creates a resolver evaluating calendar days in UTC unless configured otherwise.
func NewScheduleResolver(store repository.Store, l ledger.Ledger, opts ...ResolverOption) *ScheduleResolverImpl {
	r := &ScheduleResolverImpl{
		store:  store,
		ledger: l,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithLocation sets the time zone that defines calendar days.
func WithLocation(loc *time.Location) ResolverOption {
	return func(r *ScheduleResolverImpl) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// WithScheduleCache caches schedule lookups per route and leg.
func WithScheduleCache(capacity int, ttl time.Duration) ResolverOption {
	return func(r *ScheduleResolverImpl) {
		if capacity > 0 && ttl > 0 {
			r.cache = NewShardedCache[[]model.RouteSchedule](capacity, ttl, 16)
		}
	}
}

// Location returns the calendar time zone.
func (r *ScheduleResolverImpl) Location() *time.Location {
	return r.loc
}

// ResolveInstances validates schedule and returns a restartable sequence of its trips.
func (r *ScheduleResolverImpl) ResolveInstances(schedule model.RouteSchedule, from time.Time, horizonDays int) (iter.Seq[model.TripInstance], error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	if horizonDays < 0 {
		return nil, model.Invalid("horizon_days", "must not be negative")
	}

	loc := r.loc
	y, m, d := from.In(loc).Date()
	first := schedule.DepartureMinute()

	return func(yield func(model.TripInstance) bool) {
		for day := 0; day < horizonDays; day++ {
			date := time.Date(y, m, d+day, 0, 0, 0, 0, loc)
			if !schedule.OperatesOn(date.Weekday()) {
				continue
			}
			for minute := first; minute < model.MinutesPerDay; minute += schedule.FrequencyMinutes {
				departAt := time.Date(date.Year(), date.Month(), date.Day(), minute/60, minute%60, 0, 0, loc)
				if !yield(newTrip(schedule, departAt)) {
					return
				}
			}
		}
	}, nil
}

func newTrip(schedule model.RouteSchedule, departAt time.Time) model.TripInstance {
	return model.TripInstance{
		ID:              model.TripID(schedule.ID, schedule.TransportUnitID, departAt),
		ScheduleID:      schedule.ID,
		ScheduleVersion: schedule.Version,
		TransportUnitID: schedule.TransportUnitID,
		RouteID:         schedule.RouteID,
		Leg:             schedule.Leg,
		DepartAt:        departAt,
		ArriveAt:        departAt.Add(schedule.Duration()),
		Status:          model.TripScheduled,
	}
}

func scheduleCacheKey(routeID string, leg model.Leg) string {
	return routeID + "|" + string(leg)
}

func (r *ScheduleResolverImpl) schedules(ctx context.Context, routeID string, leg model.Leg) ([]model.RouteSchedule, error) {
	key := scheduleCacheKey(routeID, leg)
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			return cached, nil
		}
	}
	schedules, err := r.store.ListSchedulesByRoute(ctx, routeID, leg)
	if err != nil {
		return nil, fmt.Errorf("list schedules for %s: %w", key, err)
	}
	if r.cache != nil {
		r.cache.Set(key, schedules)
	}
	return schedules, nil
}

// Candidates merges the expansions of every schedule on routeID and leg.
// Invalid stored schedules are skipped and logged.
func (r *ScheduleResolverImpl) Candidates(ctx context.Context, routeID string, leg model.Leg, notBefore time.Time, horizonDays int) ([]model.TripInstance, error) {
	schedules, err := r.schedules(ctx, routeID, leg)
	if err != nil {
		return nil, err
	}

	var out []model.TripInstance
	for _, schedule := range schedules {
		seq, err := r.ResolveInstances(schedule, notBefore, horizonDays)
		if err != nil {
			log := logger.WithContext(ctx)
			log.Warn().Err(err).Str("schedule_id", schedule.ID).Msg("Skipping invalid schedule")
			continue
		}
		for trip := range seq {
			if trip.DepartAt.Before(notBefore) {
				continue
			}
			out = append(out, trip)
		}
	}

	slices.SortFunc(out, func(a, b model.TripInstance) int {
		if c := a.DepartAt.Compare(b.DepartAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Materialize stores trip once and opens its ledger entry. The stored trip is returned,
// so a trip cancelled earlier stays cancelled.
func (r *ScheduleResolverImpl) Materialize(ctx context.Context, trip model.TripInstance) (*model.TripInstance, error) {
	stored, created, err := r.store.EnsureTrip(ctx, trip)
	if err != nil {
		return nil, fmt.Errorf("materialize trip %s: %w", trip.ID, err)
	}
	if !stored.Active() {
		return stored, nil
	}

	if created {
		if err := r.open(ctx, stored); err != nil {
			return nil, err
		}
		return stored, nil
	}

	// Opening is idempotent, and covers a ledger that lost the entry.
	if _, err := r.ledger.Peek(ctx, stored.ID); errors.Is(err, model.ErrNotFound) {
		if err := r.open(ctx, stored); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("peek trip %s: %w", stored.ID, err)
	}
	return stored, nil
}

func (r *ScheduleResolverImpl) open(ctx context.Context, trip *model.TripInstance) error {
	unit, err := r.store.GetTransportUnit(ctx, trip.TransportUnitID)
	if err != nil {
		return fmt.Errorf("load unit of trip %s: %w", trip.ID, err)
	}
	if err := r.ledger.Open(ctx, trip.ID, unit.Capacity); err != nil {
		return fmt.Errorf("open ledger for trip %s: %w", trip.ID, err)
	}
	return nil
}

// Invalidate drops cached schedules of a route and leg.
func (r *ScheduleResolverImpl) Invalidate(routeID string, leg model.Leg) {
	if r.cache != nil {
		r.cache.Invalidate(scheduleCacheKey(routeID, leg))
	}
}

// Stop releases the schedule cache.
func (r *ScheduleResolverImpl) Stop() {
	if r.cache != nil {
		r.cache.Stop()
	}
}
