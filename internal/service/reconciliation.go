package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/events"
	"github.com/guttosm/kandypack-dispatch/internal/ledger"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
	"github.com/guttosm/kandypack-dispatch/internal/metrics"
	"github.com/guttosm/kandypack-dispatch/internal/repository"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Eviction reasons carried by ReconciliationEvicted events.
const (
	ReasonCapacityReduced  = "CAPACITY_REDUCED"
	ReasonTripCancelled    = "TRIP_CANCELLED"
	ReasonConnectionMissed = "CONNECTION_MISSED"
)

// Reconciler keeps allocations consistent with capacity, schedule and staffing changes.
type Reconciler interface {
	// Reconcile evicts the newest allocations of tripID until they fit its capacity.
	Reconcile(ctx context.Context, tripID string) (*model.ReconcileReport, error)
	// CapacityChanged stores the new capacity and reconciles every future trip of the unit.
	CapacityChanged(ctx context.Context, unitID string, capacity decimal.Decimal) ([]model.ReconcileReport, error)
	// ScheduleChanged stores a new schedule version and reconciles its future trips.
	ScheduleChanged(ctx context.Context, schedule model.RouteSchedule) ([]model.ReconcileReport, error)
	// StaffUnavailable takes staffID off duty from the given instant.
	StaffUnavailable(ctx context.Context, staffID string, from time.Time) ([]string, error)
	// Handle runs a background job.
	Handle(ctx context.Context, job Job) error
}

// ReconcilerOption configures a ReconcilerImpl.
type ReconcilerOption func(*ReconcilerImpl)

// ReconcilerImpl implements Reconciler.
type ReconcilerImpl struct {
	store       repository.Store
	ledger      ledger.Ledger
	resolver    ScheduleResolver
	engine      AllocationEngine
	personnel   PersonnelService
	publisher   events.Publisher
	queue       JobQueue
	concurrency int
	buffer      time.Duration
	now         func() time.Time
	tripLocks   *TripLocks
	tracer      trace.Tracer
}

// NewReconciler creates a reconciler.
func NewReconciler(store repository.Store, l ledger.Ledger, resolver ScheduleResolver, engine AllocationEngine, personnel PersonnelService, opts ...ReconcilerOption) *ReconcilerImpl {
	r := &ReconcilerImpl{
		store:       store,
		ledger:      l,
		resolver:    resolver,
		engine:      engine,
		personnel:   personnel,
		concurrency: 4,
		buffer:      DefaultHandlingBuffer,
		now:         time.Now,
		tracer:      otel.Tracer("github.com/guttosm/kandypack-dispatch/internal/service"),
	}
	if impl, ok := engine.(*AllocationEngineImpl); ok {
		r.tripLocks = impl.tripLocks
		r.buffer = impl.handlingBuffer
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tripLocks == nil {
		r.tripLocks = NewTripLocks()
	}
	return r
}

// WithReconcilerTripLocks shares the per-trip commit lock with the allocation engine.
func WithReconcilerTripLocks(l *TripLocks) ReconcilerOption {
	return func(r *ReconcilerImpl) {
		if l != nil {
			r.tripLocks = l
		}
	}
}

// WithQueue sends re-entry and re-staffing work to q instead of dropping it.
func WithQueue(q JobQueue) ReconcilerOption {
	return func(r *ReconcilerImpl) {
		r.queue = q
	}
}

// WithFanOut bounds how many trips a multi-trip pass reconciles at once.
func WithFanOut(n int) ReconcilerOption {
	return func(r *ReconcilerImpl) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithReconcilerHandlingBuffer sets the train-to-truck gap that retimed trains are checked against.
func WithReconcilerHandlingBuffer(d time.Duration) ReconcilerOption {
	return func(r *ReconcilerImpl) {
		if d >= 0 {
			r.buffer = d
		}
	}
}

// WithReconcilerClock overrides the clock.
func WithReconcilerClock(now func() time.Time) ReconcilerOption {
	return func(r *ReconcilerImpl) {
		if now != nil {
			r.now = now
		}
	}
}

// WithReconcilerPublisher sets the event sink.
func WithReconcilerPublisher(p events.Publisher) ReconcilerOption {
	return func(r *ReconcilerImpl) {
		r.publisher = p
	}
}

// Reconcile resyncs the ledger of tripID with the unit's capacity and evicts
// newest-first until the active allocations fit. A cancelled trip has capacity zero.
func (r *ReconcilerImpl) Reconcile(ctx context.Context, tripID string) (*model.ReconcileReport, error) {
	return r.reconcile(ctx, tripID, nil)
}

// reconcile evicts the allocations listed in missed before resyncing capacity.
func (r *ReconcilerImpl) reconcile(ctx context.Context, tripID string, missed map[string]bool) (*model.ReconcileReport, error) {
	ctx, span := r.tracer.Start(ctx, "reconciler.Reconcile", trace.WithAttributes(attribute.String("trip.id", tripID)))
	defer span.End()

	unlock := r.tripLocks.Lock(tripID)
	report, err := r.reconcileLocked(ctx, tripID, missed)
	unlock()
	if report == nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("evicted", len(report.Evicted)))

	// Order updates happen outside the trip lock.
	byOrder := make(map[string][]string)
	for _, a := range report.Evicted {
		byOrder[a.OrderID] = append(byOrder[a.OrderID], a.OrderItemID)
	}
	orderIDs := make([]string, 0, len(byOrder))
	for id := range byOrder {
		orderIDs = append(orderIDs, id)
	}
	slices.Sort(orderIDs)
	for _, orderID := range orderIDs {
		if markErr := r.engine.MarkEvicted(ctx, orderID, byOrder[orderID]); markErr != nil {
			log := logger.WithContext(ctx)
			log.Warn().Err(markErr).Str("order_id", orderID).Msg("Failed to mark evicted items")
		}
		r.enqueue(ctx, Job{Kind: JobReallocateOrder, OrderID: orderID})
	}
	return report, err
}

func (r *ReconcilerImpl) reconcileLocked(ctx context.Context, tripID string, missed map[string]bool) (*model.ReconcileReport, error) {
	trip, err := r.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	capacity := decimal.Zero
	reason := ReasonTripCancelled
	if trip.Active() {
		unit, err := r.store.GetTransportUnit(ctx, trip.TransportUnitID)
		if err != nil {
			return nil, err
		}
		capacity = unit.Capacity
		reason = ReasonCapacityReduced
	}

	if _, err := r.ledger.Resize(ctx, tripID, capacity); errors.Is(err, model.ErrNotFound) {
		if err := r.ledger.Open(ctx, tripID, capacity); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	allocs, err := r.store.ListActiveByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	report := &model.ReconcileReport{TripInstanceID: tripID, Capacity: capacity}
	kept := make([]model.Allocation, 0, len(allocs))
	for _, a := range allocs {
		if !missed[a.ID] {
			kept = append(kept, a)
			continue
		}
		if err := r.evictLocked(ctx, a, ReasonConnectionMissed, report); err != nil {
			return report, err
		}
	}

	consumed := model.SumConsumed(kept)
	for i := len(kept) - 1; i >= 0 && consumed.GreaterThan(capacity); i-- {
		if err := r.evictLocked(ctx, kept[i], reason, report); err != nil {
			return report, err
		}
		consumed = consumed.Sub(kept[i].ConsumedSpace)
	}
	report.Consumed = consumed

	remaining, err := r.ledger.Peek(ctx, tripID)
	if err != nil {
		return report, err
	}
	report.Remaining = remaining
	if remaining.IsNegative() {
		return report, r.violation(ctx, tripID, fmt.Errorf("trip %s remaining %s after reconciliation: %w", tripID, remaining, model.ErrInvariantViolation))
	}

	if len(report.Evicted) > 0 {
		log := logger.WithContext(ctx)
		log.Info().
			Str("trip_id", tripID).
			Str("capacity", capacity.String()).
			Int("evicted", len(report.Evicted)).
			Msg("Trip reconciled")
	}
	return report, nil
}

// evictLocked deactivates a and returns its space. Callers hold the trip lock.
func (r *ReconcilerImpl) evictLocked(ctx context.Context, a model.Allocation, reason string, report *model.ReconcileReport) error {
	transitioned, err := r.store.DeactivateAllocation(ctx, a.ID, r.now().UTC())
	if err != nil {
		return fmt.Errorf("evict allocation %s: %w", a.ID, err)
	}
	if !transitioned {
		return nil
	}
	if err := r.ledger.Release(ctx, a.TripInstanceID, a.ConsumedSpace); err != nil {
		return r.violation(ctx, a.TripInstanceID, err)
	}

	a.Active = false
	report.Evicted = append(report.Evicted, a)
	metrics.RecordEviction(string(a.Leg))
	r.publish(ctx, model.Event{
		Type:           model.EventReconciliationEvicted,
		OrderID:        a.OrderID,
		OrderItemID:    a.OrderItemID,
		TripInstanceID: a.TripInstanceID,
		Leg:            a.Leg,
		Reason:         reason,
	})
	return nil
}

func (r *ReconcilerImpl) violation(ctx context.Context, tripID string, err error) error {
	log := logger.WithContext(ctx)
	log.Error().Err(err).Str("trip_id", tripID).Str("code", model.CodeInvariantViolation).Msg("Capacity invariant cannot be restored")
	return err
}

// reconcileAll reconciles trips with bounded concurrency. Every trip is attempted;
// the first error is returned alongside the reports that succeeded. missed maps a
// trip to the allocations that lost their connection on it.
func (r *ReconcilerImpl) reconcileAll(ctx context.Context, tripIDs []string, missed map[string]map[string]bool) ([]model.ReconcileReport, error) {
	var (
		g       errgroup.Group
		mu      sync.Mutex
		reports = make([]model.ReconcileReport, 0, len(tripIDs))
	)
	g.SetLimit(r.concurrency)

	for _, id := range tripIDs {
		g.Go(func() error {
			report, err := r.reconcile(ctx, id, missed[id])
			if report != nil {
				mu.Lock()
				reports = append(reports, *report)
				mu.Unlock()
			}
			return err
		})
	}
	err := g.Wait()

	slices.SortFunc(reports, func(a, b model.ReconcileReport) int {
		switch {
		case a.TripInstanceID < b.TripInstanceID:
			return -1
		case a.TripInstanceID > b.TripInstanceID:
			return 1
		}
		return 0
	})
	return reports, err
}

// CapacityChanged updates the unit and reconciles its trips departing from now on.
// Zero capacity takes the unit out of service.
func (r *ReconcilerImpl) CapacityChanged(ctx context.Context, unitID string, capacity decimal.Decimal) ([]model.ReconcileReport, error) {
	if capacity.IsNegative() {
		return nil, model.Invalid("capacity", "must not be negative")
	}
	unit, err := r.store.GetTransportUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	unit.Capacity = capacity
	if err := r.store.SaveTransportUnit(ctx, *unit); err != nil {
		return nil, err
	}

	trips, err := r.store.ListTripsByUnit(ctx, unitID, r.now())
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(trips))
	for _, t := range trips {
		ids = append(ids, t.ID)
	}

	log := logger.WithContext(ctx)
	log.Info().Str("unit_id", unitID).Str("capacity", capacity.String()).Int("trips", len(ids)).Msg("Transport unit capacity changed")
	return r.reconcileAll(ctx, ids, nil)
}

// ScheduleChanged stores schedule as the next version. Future trips the new version no
// longer produces are cancelled and fully evicted; the rest take the new arrival time
// and are resynced. Truck legs that a later train arrival leaves inside the handling
// buffer are evicted for re-entry.
func (r *ReconcilerImpl) ScheduleChanged(ctx context.Context, schedule model.RouteSchedule) ([]model.ReconcileReport, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	unit, err := r.store.GetTransportUnit(ctx, schedule.TransportUnitID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.InvalidSchedule("transport_unit_id", "unknown transport unit "+schedule.TransportUnitID)
		}
		return nil, err
	}
	if unit.Kind != schedule.Leg {
		return nil, model.InvalidSchedule("leg", "does not match the transport unit kind")
	}

	previous, err := r.store.GetSchedule(ctx, schedule.ID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		previous = nil
		schedule.Version = 1
	case err != nil:
		return nil, err
	default:
		schedule.Version = previous.Version + 1
	}
	schedule.UpdatedAt = r.now().UTC()

	if err := r.store.SaveSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	r.resolver.Invalidate(schedule.RouteID, schedule.Leg)
	if previous != nil {
		r.resolver.Invalidate(previous.RouteID, previous.Leg)
	}

	trips, err := r.store.ListTripsBySchedule(ctx, schedule.ID, r.now())
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(trips))
	missed := make(map[string]map[string]bool)
	cancelled, retimed := 0, 0
	for _, trip := range trips {
		ids = append(ids, trip.ID)
		if !trip.Active() {
			continue
		}
		inst, ok := r.produced(schedule, trip)
		if !ok {
			if err := r.store.UpdateTripStatus(ctx, trip.ID, model.TripCancelled); err != nil {
				return nil, err
			}
			if trip.Leg == model.LegTruck {
				if err := r.store.DeleteAssignment(ctx, trip.ID); err != nil {
					return nil, err
				}
			}
			cancelled++
			continue
		}
		if inst.ArriveAt.Equal(trip.ArriveAt) {
			continue
		}
		if err := r.store.UpdateTripArrival(ctx, trip.ID, inst.ArriveAt); err != nil {
			return nil, err
		}
		retimed++
		if trip.Leg == model.LegTrain && inst.ArriveAt.After(trip.ArriveAt) {
			if err := r.missedConnections(ctx, trip.ID, inst.ArriveAt, missed); err != nil {
				return nil, err
			}
		}
	}
	truckTrips := make([]string, 0, len(missed))
	for id := range missed {
		truckTrips = append(truckTrips, id)
	}
	slices.Sort(truckTrips)
	ids = append(ids, truckTrips...)

	log := logger.WithContext(ctx)
	log.Info().
		Str("schedule_id", schedule.ID).
		Int("version", schedule.Version).
		Int("trips", len(ids)).
		Int("cancelled", cancelled).
		Int("retimed", retimed).
		Int("missed_connections", len(truckTrips)).
		Msg("Route schedule changed")
	return r.reconcileAll(ctx, ids, missed)
}

// produced returns the instance schedule now expands to on trip's day, if it still has one.
func (r *ReconcilerImpl) produced(schedule model.RouteSchedule, trip model.TripInstance) (model.TripInstance, bool) {
	seq, err := r.resolver.ResolveInstances(schedule, trip.DepartAt, 1)
	if err != nil {
		return model.TripInstance{}, false
	}
	for inst := range seq {
		if inst.ID == trip.ID {
			return inst, true
		}
	}
	return model.TripInstance{}, false
}

// missedConnections adds to missed every truck leg fed by trainTripID that departs
// before arriveAt plus the handling buffer.
func (r *ReconcilerImpl) missedConnections(ctx context.Context, trainTripID string, arriveAt time.Time, missed map[string]map[string]bool) error {
	fed, err := r.store.ListActiveByTrip(ctx, trainTripID)
	if err != nil {
		return err
	}
	notBefore := arriveAt.Add(r.buffer)
	byOrder := make(map[string][]model.Allocation)
	departures := make(map[string]time.Time)
	for _, train := range fed {
		legs, ok := byOrder[train.OrderID]
		if !ok {
			if legs, err = r.store.ListActiveByOrder(ctx, train.OrderID); err != nil {
				return err
			}
			byOrder[train.OrderID] = legs
		}
		for _, truck := range legs {
			if truck.Leg != model.LegTruck || truck.OrderItemID != train.OrderItemID {
				continue
			}
			departAt, ok := departures[truck.TripInstanceID]
			if !ok {
				trip, err := r.store.GetTrip(ctx, truck.TripInstanceID)
				if err != nil {
					return err
				}
				departAt = trip.DepartAt
				departures[trip.ID] = departAt
			}
			if !departAt.Before(notBefore) {
				continue
			}
			if missed[truck.TripInstanceID] == nil {
				missed[truck.TripInstanceID] = make(map[string]bool)
			}
			missed[truck.TripInstanceID][truck.ID] = true
		}
	}
	return nil
}

// StaffUnavailable marks staffID unavailable and releases future assignments.
// Trips that lose their driver go to needs_staffing and are queued for re-staffing.
func (r *ReconcilerImpl) StaffUnavailable(ctx context.Context, staffID string, from time.Time) ([]string, error) {
	staff, err := r.store.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff.Available {
		staff.Available = false
		if err := r.store.SaveStaff(ctx, *staff); err != nil {
			return nil, err
		}
	}

	lost, err := r.personnel.ReleaseStaff(ctx, staffID, from)
	for _, tripID := range lost {
		r.enqueue(ctx, Job{Kind: JobRestaffTrip, TripID: tripID})
	}
	return lost, err
}

// Handle runs a background job.
func (r *ReconcilerImpl) Handle(ctx context.Context, job Job) error {
	switch job.Kind {
	case JobReconcileTrip:
		_, err := r.Reconcile(ctx, job.TripID)
		return err
	case JobCapacityChanged:
		_, err := r.CapacityChanged(ctx, job.UnitID, job.Capacity)
		return err
	case JobScheduleChanged:
		if job.Schedule == nil {
			return model.Invalid("schedule", "must be set")
		}
		_, err := r.ScheduleChanged(ctx, *job.Schedule)
		return err
	case JobStaffUnavailable:
		_, err := r.StaffUnavailable(ctx, job.StaffID, job.From)
		return err
	case JobReallocateOrder:
		_, err := r.engine.AllocateOrder(ctx, job.OrderID)
		if errors.Is(err, model.ErrOrderCancelled) {
			return nil
		}
		return err
	case JobRestaffTrip:
		_, err := r.personnel.AssignPersonnel(ctx, job.TripID)
		return err
	default:
		return model.Invalid("kind", "unknown job kind "+string(job.Kind))
	}
}

func (r *ReconcilerImpl) enqueue(ctx context.Context, job Job) {
	if r.queue == nil {
		return
	}
	if !r.queue.Submit(job) {
		log := logger.WithContext(ctx)
		log.Warn().Str("kind", string(job.Kind)).Str("order_id", job.OrderID).Str("trip_id", job.TripID).Msg("Reconciliation queue full, job dropped")
	}
}

func (r *ReconcilerImpl) publish(ctx context.Context, event model.Event) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, event); err != nil {
		log := logger.WithContext(ctx)
		log.Warn().Err(err).Str("event_type", string(event.Type)).Msg("Failed to publish event")
	}
}
