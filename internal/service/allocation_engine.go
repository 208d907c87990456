package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/events"
	"github.com/guttosm/kandypack-dispatch/internal/ledger"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
	"github.com/guttosm/kandypack-dispatch/internal/metrics"
	"github.com/guttosm/kandypack-dispatch/internal/repository"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultHorizonDays bounds the candidate search.
	DefaultHorizonDays = 14
	// DefaultHandlingBuffer separates train arrival from truck departure at the hub.
	DefaultHandlingBuffer = 60 * time.Minute
	// maxCASAttempts bounds optimistic order updates.
	maxCASAttempts = 5
)

// AllocationEngine places order items onto train and truck trips.
type AllocationEngine interface {
	// SubmitOrder validates and stores a new order, then allocates it.
	SubmitOrder(ctx context.Context, order model.Order) (*model.AllocationResult, error)
	// AllocateOrder allocates every item of a stored order that is missing a leg.
	AllocateOrder(ctx context.Context, orderID string) (*model.AllocationResult, error)
	// CancelOrder cancels the order and releases all its allocations. It is idempotent.
	CancelOrder(ctx context.Context, orderID string) (*model.Order, error)
	// DispatchStatus reports whether every item has both legs and a staffed truck.
	DispatchStatus(ctx context.Context, orderID string) (*model.DispatchStatus, error)
	// MarkEvicted flags items whose allocation was evicted by reconciliation.
	MarkEvicted(ctx context.Context, orderID string, itemIDs []string) error
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
}

// EngineOption configures an AllocationEngineImpl.
type EngineOption func(*AllocationEngineImpl)

// AllocationEngineImpl implements AllocationEngine.
type AllocationEngineImpl struct {
	store          repository.Store
	ledger         ledger.Ledger
	resolver       ScheduleResolver
	personnel      PersonnelService
	publisher      events.Publisher
	horizonDays    int
	handlingBuffer time.Duration
	now            func() time.Time
	orderLocks     *keyedMutex
	tripLocks      *TripLocks
	tracer         trace.Tracer
}

// NewAllocationEngine creates an engine with a 14-day horizon and a 60-minute handling buffer.
func NewAllocationEngine(store repository.Store, l ledger.Ledger, resolver ScheduleResolver, opts ...EngineOption) *AllocationEngineImpl {
	e := &AllocationEngineImpl{
		store:          store,
		ledger:         l,
		resolver:       resolver,
		horizonDays:    DefaultHorizonDays,
		handlingBuffer: DefaultHandlingBuffer,
		now:            time.Now,
		orderLocks:     newKeyedMutex(),
		tripLocks:      NewTripLocks(),
		tracer:         otel.Tracer("github.com/guttosm/kandypack-dispatch/internal/service"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithHorizonDays sets the search horizon.
func WithHorizonDays(days int) EngineOption {
	return func(e *AllocationEngineImpl) {
		if days > 0 {
			e.horizonDays = days
		}
	}
}

// WithHandlingBuffer sets the minimum gap between train arrival and truck departure.
func WithHandlingBuffer(d time.Duration) EngineOption {
	return func(e *AllocationEngineImpl) {
		if d >= 0 {
			e.handlingBuffer = d
		}
	}
}

// WithClock overrides the clock.
func WithClock(now func() time.Time) EngineOption {
	return func(e *AllocationEngineImpl) {
		if now != nil {
			e.now = now
		}
	}
}

// WithPersonnel staffs truck trips as soon as a truck leg commits.
func WithPersonnel(p PersonnelService) EngineOption {
	return func(e *AllocationEngineImpl) {
		e.personnel = p
	}
}

// WithPublisher sets the event sink.
func WithPublisher(p events.Publisher) EngineOption {
	return func(e *AllocationEngineImpl) {
		e.publisher = p
	}
}

// WithTripLocks shares the per-trip commit lock with a reconciler.
func WithTripLocks(l *TripLocks) EngineOption {
	return func(e *AllocationEngineImpl) {
		if l != nil {
			e.tripLocks = l
		}
	}
}

// attempt tracks the allocations created by one AllocateOrder call.
type attempt struct {
	order   *model.Order
	created []model.Allocation
}

// SubmitOrder validates order before any reservation, stores it and allocates it.
func (e *AllocationEngineImpl) SubmitOrder(ctx context.Context, order model.Order) (*model.AllocationResult, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	for _, item := range order.Items {
		if _, err := e.store.GetProduct(ctx, item.ProductID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, model.Invalid("items.product_id", "unknown product "+item.ProductID)
			}
			return nil, err
		}
	}

	now := e.now().UTC()
	order.Status = model.OrderPending
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Version = 1
	for i := range order.Items {
		order.Items[i].Status = model.ItemPending
	}

	if err := e.store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order %s: %w", order.ID, err)
	}
	return e.AllocateOrder(ctx, order.ID)
}

// GetOrder returns a stored order.
func (e *AllocationEngineImpl) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return e.store.GetOrder(ctx, orderID)
}

// AllocateOrder runs the two-leg search for every item of orderID.
// Items that already hold both legs are reported as allocated without probing.
func (e *AllocationEngineImpl) AllocateOrder(ctx context.Context, orderID string) (*model.AllocationResult, error) {
	ctx, span := e.tracer.Start(ctx, "engine.AllocateOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()
	start := time.Now()

	unlock := e.orderLocks.Lock(orderID)
	defer unlock()

	order, err := e.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, e.fail(span, err)
	}
	if order.Cancelled() {
		return nil, e.fail(span, fmt.Errorf("allocate order %s: %w", orderID, model.ErrOrderCancelled))
	}

	active, err := e.store.ListActiveByOrder(ctx, orderID)
	if err != nil {
		return nil, e.fail(span, err)
	}
	legs := groupLegs(active)

	att := &attempt{order: order}
	result := &model.AllocationResult{OrderID: orderID, Items: make([]model.ItemResult, 0, len(order.Items))}
	for i := range order.Items {
		item := &order.Items[i]
		ir, err := e.allocateItem(ctx, att, item, legs[item.ID])
		if err != nil {
			// The order is left as it was before this attempt.
			e.rollbackAttempt(ctx, att)
			return nil, e.fail(span, err)
		}
		item.Status = ir.Status
		result.Items = append(result.Items, ir)
	}

	status, err := e.commitOrder(ctx, att)
	if err != nil {
		return nil, e.fail(span, err)
	}
	result.Status = status

	metrics.RecordOrderAllocation(time.Since(start), string(status))
	span.SetAttributes(attribute.String("order.status", string(status)))

	log := logger.WithContext(ctx)
	log.Info().
		Str("order_id", orderID).
		Str("status", string(status)).
		Int("items", len(result.Items)).
		Dur("duration", time.Since(start)).
		Msg("Order allocated")
	return result, nil
}

func (e *AllocationEngineImpl) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, model.Code(err))
	return err
}

func groupLegs(allocs []model.Allocation) map[string]map[model.Leg]model.Allocation {
	out := make(map[string]map[model.Leg]model.Allocation)
	for _, a := range allocs {
		legs, ok := out[a.OrderItemID]
		if !ok {
			legs = make(map[model.Leg]model.Allocation, 2)
			out[a.OrderItemID] = legs
		}
		legs[a.Leg] = a
	}
	return out
}

// allocateItem reserves the missing legs of item. An item whose train leg survived
// an eviction resumes at the truck search; a lone truck leg is released first.
func (e *AllocationEngineImpl) allocateItem(ctx context.Context, att *attempt, item *model.OrderItem, legs map[model.Leg]model.Allocation) (model.ItemResult, error) {
	ctx, span := e.tracer.Start(ctx, "engine.allocateItem", trace.WithAttributes(attribute.String("item.id", item.ID)))
	defer span.End()

	product, err := e.store.GetProduct(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ItemResult{}, model.Invalid("items.product_id", "unknown product "+item.ProductID)
		}
		return model.ItemResult{}, err
	}
	required := item.RequiredSpace(*product)
	ir := model.ItemResult{OrderItemID: item.ID, RequiredSpace: required}
	span.SetAttributes(attribute.String("item.required_space", required.String()))

	train, hasTrain := legs[model.LegTrain]
	truck, hasTruck := legs[model.LegTruck]
	if hasTrain && hasTruck {
		ir.Status = model.ItemAllocated
		ir.TrainTripID = train.TripInstanceID
		ir.TruckTripID = truck.TripInstanceID
		return ir, nil
	}
	if hasTruck {
		if err := e.rollback(ctx, truck); err != nil {
			return ir, err
		}
	}

	var trainTrip *model.TripInstance
	if hasTrain {
		trainTrip, err = e.store.GetTrip(ctx, train.TripInstanceID)
		if err != nil {
			return ir, err
		}
	} else {
		trainTrip, train, err = e.reserveLeg(ctx, att, item, model.LegTrain, att.order.TrainRouteID, e.now(), required)
		if errors.Is(err, model.ErrUnschedulable) {
			return e.unschedulable(ctx, att.order, ir, model.LegTrain), nil
		}
		if err != nil {
			return ir, err
		}
	}

	notBefore := trainTrip.ArriveAt.Add(e.handlingBuffer)
	truckTrip, _, err := e.reserveLeg(ctx, att, item, model.LegTruck, att.order.TruckRouteID, notBefore, required)
	if errors.Is(err, model.ErrUnschedulable) {
		if err := e.rollback(ctx, train); err != nil {
			return ir, err
		}
		return e.unschedulable(ctx, att.order, ir, model.LegTruck), nil
	}
	if err != nil {
		return ir, err
	}

	ir.Status = model.ItemAllocated
	ir.TrainTripID = trainTrip.ID
	ir.TruckTripID = truckTrip.ID

	e.staff(ctx, truckTrip)
	e.publish(ctx, model.Event{
		Type:           model.EventAllocationConfirmed,
		OrderID:        att.order.ID,
		OrderItemID:    item.ID,
		TripInstanceID: truckTrip.ID,
		Leg:            model.LegTruck,
	})
	return ir, nil
}

func (e *AllocationEngineImpl) unschedulable(ctx context.Context, order *model.Order, ir model.ItemResult, leg model.Leg) model.ItemResult {
	ir.Status = model.ItemUnschedulable
	ir.Reason = model.CodeUnschedulable
	e.publish(ctx, model.Event{
		Type:        model.EventAllocationFailed,
		OrderID:     order.ID,
		OrderItemID: ir.OrderItemID,
		Leg:         leg,
		Reason:      model.CodeUnschedulable,
	})
	return ir
}

// reserveLeg walks the candidates of one leg and commits the first that has room.
// Candidates sharing a departure are tried by larger remaining capacity, then smaller id.
func (e *AllocationEngineImpl) reserveLeg(ctx context.Context, att *attempt, item *model.OrderItem, leg model.Leg, routeID string, notBefore time.Time, required decimal.Decimal) (*model.TripInstance, model.Allocation, error) {
	ctx, span := e.tracer.Start(ctx, "engine.reserveLeg", trace.WithAttributes(
		attribute.String("leg", string(leg)),
		attribute.String("route.id", routeID),
	))
	defer span.End()

	candidates, err := e.resolver.Candidates(ctx, routeID, leg, notBefore, e.horizonDays)
	if err != nil {
		return nil, model.Allocation{}, err
	}

	probes := 0
	for start := 0; start < len(candidates); {
		end := start + 1
		for end < len(candidates) && candidates[end].DepartAt.Equal(candidates[start].DepartAt) {
			end++
		}
		group, err := e.rankGroup(ctx, candidates[start:end])
		if err != nil {
			return nil, model.Allocation{}, err
		}
		start = end

		for _, trip := range group {
			probes++
			alloc, err := e.commitLeg(ctx, att, item, trip.ID, leg, required)
			if errors.Is(err, model.ErrNoCapacity) {
				continue
			}
			if err != nil {
				return nil, model.Allocation{}, err
			}
			att.created = append(att.created, alloc)
			metrics.RecordLegAllocation(string(leg), "reserved")
			span.SetAttributes(attribute.String("trip.id", trip.ID), attribute.Int("probes", probes))

			if err := e.ensureActive(ctx, att.order.ID, alloc); err != nil {
				return nil, model.Allocation{}, err
			}
			return &trip, alloc, nil
		}
	}

	metrics.RecordLegAllocation(string(leg), "unschedulable")
	span.SetAttributes(attribute.Int("probes", probes))
	return nil, model.Allocation{}, fmt.Errorf("%s leg on %s after %d probes: %w", leg, routeID, probes, model.ErrUnschedulable)
}

// commitLeg reserves required on tripID and records the allocation. Both happen
// under the trip lock, so reconciliation never sees a reservation without its
// allocation.
func (e *AllocationEngineImpl) commitLeg(ctx context.Context, att *attempt, item *model.OrderItem, tripID string, leg model.Leg, required decimal.Decimal) (model.Allocation, error) {
	unlock := e.tripLocks.Lock(tripID)
	defer unlock()

	if _, err := e.reserve(ctx, tripID, required); err != nil {
		return model.Allocation{}, err
	}
	alloc := model.Allocation{
		ID:             uuid.New().String(),
		OrderID:        att.order.ID,
		OrderItemID:    item.ID,
		TripInstanceID: tripID,
		Leg:            leg,
		ConsumedSpace:  required,
		CreatedAt:      e.now().UTC(),
		Active:         true,
	}
	if err := e.store.CreateAllocation(ctx, alloc); err != nil {
		if relErr := e.release(ctx, tripID, required); relErr != nil {
			err = errors.Join(err, relErr)
		}
		return model.Allocation{}, fmt.Errorf("record %s allocation of %s: %w", leg, item.ID, err)
	}
	return alloc, nil
}

// rankGroup materializes trips that share one departure and orders them for the tie-break.
func (e *AllocationEngineImpl) rankGroup(ctx context.Context, trips []model.TripInstance) ([]model.TripInstance, error) {
	type ranked struct {
		trip      model.TripInstance
		remaining decimal.Decimal
	}

	out := make([]ranked, 0, len(trips))
	for _, candidate := range trips {
		stored, err := e.resolver.Materialize(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if !stored.Active() {
			continue
		}
		r := ranked{trip: *stored}
		if len(trips) > 1 {
			r.remaining, err = e.ledger.Peek(ctx, stored.ID)
			if err != nil {
				return nil, fmt.Errorf("peek trip %s: %w", stored.ID, err)
			}
		}
		out = append(out, r)
	}

	slices.SortStableFunc(out, func(a, b ranked) int {
		if c := b.remaining.Cmp(a.remaining); c != 0 {
			return c
		}
		return strings.Compare(a.trip.ID, b.trip.ID)
	})

	group := make([]model.TripInstance, len(out))
	for i, r := range out {
		group[i] = r.trip
	}
	return group, nil
}

// reserve retries a lost race once, then reports the candidate as full.
func (e *AllocationEngineImpl) reserve(ctx context.Context, tripID string, amount decimal.Decimal) (decimal.Decimal, error) {
	var err error
	for i := 0; i < 2; i++ {
		var remaining decimal.Decimal
		remaining, err = e.ledger.Reserve(ctx, tripID, amount)
		switch {
		case err == nil:
			metrics.RecordLedgerOperation("reserve", "ok")
			return remaining, nil
		case errors.Is(err, model.ErrConcurrentConflict):
			metrics.RecordLedgerOperation("reserve", "conflict")
			continue
		case errors.Is(err, model.ErrNoCapacity):
			metrics.RecordLedgerOperation("reserve", "no_capacity")
			return decimal.Zero, err
		default:
			metrics.RecordLedgerOperation("reserve", "error")
			return decimal.Zero, err
		}
	}
	return decimal.Zero, fmt.Errorf("trip %s after conflict retry: %w", tripID, errors.Join(model.ErrNoCapacity, err))
}

func (e *AllocationEngineImpl) release(ctx context.Context, tripID string, amount decimal.Decimal) error {
	if err := e.ledger.Release(ctx, tripID, amount); err != nil {
		metrics.RecordLedgerOperation("release", "error")
		if errors.Is(err, model.ErrInvariantViolation) {
			log := logger.WithContext(ctx)
			log.Error().Err(err).Str("trip_id", tripID).Str("amount", amount.String()).Msg("Ledger invariant violated")
		}
		return err
	}
	metrics.RecordLedgerOperation("release", "ok")
	return nil
}

// rollback deactivates alloc and returns its space. Only the caller that flips the
// allocation releases the ledger, so concurrent rollbacks release once.
func (e *AllocationEngineImpl) rollback(ctx context.Context, alloc model.Allocation) error {
	unlock := e.tripLocks.Lock(alloc.TripInstanceID)
	defer unlock()

	transitioned, err := e.store.DeactivateAllocation(ctx, alloc.ID, e.now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate allocation %s: %w", alloc.ID, err)
	}
	if !transitioned {
		return nil
	}
	return e.release(ctx, alloc.TripInstanceID, alloc.ConsumedSpace)
}

func (e *AllocationEngineImpl) rollbackAttempt(ctx context.Context, att *attempt) {
	for _, alloc := range att.created {
		if err := e.rollback(ctx, alloc); err != nil {
			log := logger.WithContext(ctx)
			log.Error().Err(err).Str("allocation_id", alloc.ID).Msg("Failed to roll back allocation")
		}
	}
}

// ensureActive re-reads the order after a commit and undoes alloc if it was cancelled meanwhile.
func (e *AllocationEngineImpl) ensureActive(ctx context.Context, orderID string, alloc model.Allocation) error {
	order, err := e.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Cancelled() {
		return nil
	}
	if err := e.rollback(ctx, alloc); err != nil {
		return err
	}
	return fmt.Errorf("order %s cancelled during allocation: %w", orderID, model.ErrOrderCancelled)
}

// commitOrder persists item statuses. A lost race against cancellation rolls the attempt back.
func (e *AllocationEngineImpl) commitOrder(ctx context.Context, att *attempt) (model.OrderStatus, error) {
	order := att.order
	for i := 0; i < maxCASAttempts; i++ {
		order.Status = order.Summarize()
		order.UpdatedAt = e.now().UTC()
		err := e.store.UpdateOrder(ctx, order)
		if err == nil {
			return order.Status, nil
		}
		if !errors.Is(err, model.ErrConcurrentConflict) {
			return "", err
		}

		fresh, err := e.store.GetOrder(ctx, order.ID)
		if err != nil {
			return "", err
		}
		if fresh.Cancelled() {
			e.rollbackAttempt(ctx, att)
			return "", fmt.Errorf("order %s cancelled during allocation: %w", order.ID, model.ErrOrderCancelled)
		}
		for _, item := range order.Items {
			if target := fresh.Item(item.ID); target != nil {
				target.Status = item.Status
			}
		}
		order = fresh
		att.order = fresh
	}
	return "", fmt.Errorf("update order %s: %w", order.ID, model.ErrConcurrentConflict)
}

// CancelOrder marks the order cancelled and releases each active allocation once.
func (e *AllocationEngineImpl) CancelOrder(ctx context.Context, orderID string) (*model.Order, error) {
	ctx, span := e.tracer.Start(ctx, "engine.CancelOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	var order *model.Order
	for i := 0; ; i++ {
		var err error
		order, err = e.store.GetOrder(ctx, orderID)
		if err != nil {
			return nil, e.fail(span, err)
		}
		if order.Cancelled() {
			break
		}
		order.Status = model.OrderCancelled
		order.UpdatedAt = e.now().UTC()
		err = e.store.UpdateOrder(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, model.ErrConcurrentConflict) || i+1 >= maxCASAttempts {
			return nil, e.fail(span, err)
		}
	}

	allocs, err := e.store.ListActiveByOrder(ctx, orderID)
	if err != nil {
		return nil, e.fail(span, err)
	}
	var errs []error
	for _, alloc := range allocs {
		if err := e.rollback(ctx, alloc); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, e.fail(span, err)
	}

	log := logger.WithContext(ctx)
	log.Info().Str("order_id", orderID).Int("released", len(allocs)).Msg("Order cancelled")
	return order, nil
}

// MarkEvicted flags items as evicted so the next allocation pass picks them up again.
func (e *AllocationEngineImpl) MarkEvicted(ctx context.Context, orderID string, itemIDs []string) error {
	unlock := e.orderLocks.Lock(orderID)
	defer unlock()

	for i := 0; i < maxCASAttempts; i++ {
		order, err := e.store.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Cancelled() {
			return nil
		}
		for _, id := range itemIDs {
			if item := order.Item(id); item != nil {
				item.Status = model.ItemEvicted
			}
		}
		order.Status = order.Summarize()
		order.UpdatedAt = e.now().UTC()
		err = e.store.UpdateOrder(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, model.ErrConcurrentConflict) {
			return err
		}
	}
	return fmt.Errorf("mark evicted on order %s: %w", orderID, model.ErrConcurrentConflict)
}

// DispatchStatus reports readiness per item. A truck trip is staffed once its crew has a driver.
func (e *AllocationEngineImpl) DispatchStatus(ctx context.Context, orderID string) (*model.DispatchStatus, error) {
	order, err := e.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	active, err := e.store.ListActiveByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	legs := groupLegs(active)

	status := &model.DispatchStatus{OrderID: orderID, Ready: !order.Cancelled()}
	for _, item := range order.Items {
		d := model.ItemDispatch{OrderItemID: item.ID}
		train, hasTrain := legs[item.ID][model.LegTrain]
		truck, hasTruck := legs[item.ID][model.LegTruck]
		if hasTrain {
			d.TrainTripID = train.TripInstanceID
		}
		if hasTruck {
			d.TruckTripID = truck.TripInstanceID
			assignment, err := e.store.GetAssignment(ctx, truck.TripInstanceID)
			if err != nil {
				return nil, err
			}
			d.Staffed = assignment != nil && assignment.DriverID != ""
		}

		switch {
		case order.Cancelled():
			d.Reason = model.CodeOrderCancelled
		case !hasTrain || !hasTruck:
			d.Reason = missingLegReason(item.Status)
		case !d.Staffed:
			d.Reason = model.CodeNeedsStaffing
		}
		if d.Reason != "" {
			status.Ready = false
		}
		status.Items = append(status.Items, d)
	}
	return status, nil
}

func missingLegReason(status model.ItemStatus) string {
	switch status {
	case model.ItemUnschedulable:
		return model.CodeUnschedulable
	case model.ItemEvicted:
		return model.ReasonEvicted
	default:
		return model.ReasonPendingAllocation
	}
}

// staff asks personnel for a crew unless the trip already has one.
func (e *AllocationEngineImpl) staff(ctx context.Context, trip *model.TripInstance) {
	if e.personnel == nil || trip.Status == model.TripStaffed {
		return
	}
	if _, err := e.personnel.AssignPersonnel(ctx, trip.ID); err != nil {
		log := logger.WithContext(ctx)
		log.Warn().Err(err).Str("trip_id", trip.ID).Msg("Personnel assignment failed")
	}
}

func (e *AllocationEngineImpl) publish(ctx context.Context, event model.Event) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		log := logger.WithContext(ctx)
		log.Warn().Err(err).Str("event_type", string(event.Type)).Msg("Failed to publish event")
	}
}
