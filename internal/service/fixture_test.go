package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/events"
	"github.com/guttosm/kandypack-dispatch/internal/ledger"
	"github.com/guttosm/kandypack-dispatch/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// monday is 2026-01-05, a Monday.
var monday = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

const (
	trainRoute = "colombo-kandy"
	truckRoute = "kandy-peradeniya"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testClock is a settable clock shared by every service of a fixture.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	t          *testing.T
	ctx        context.Context
	clock      *testClock
	store      *repository.MemoryStore
	ledger     *ledger.MemoryLedger
	events     *events.MemoryPublisher
	resolver   *ScheduleResolverImpl
	personnel  *PersonnelServiceImpl
	engine     *AllocationEngineImpl
	reconciler *ReconcilerImpl
	catalog    *CatalogServiceImpl
}

func newFixture(t *testing.T, engineOpts ...EngineOption) *fixture {
	t.Helper()
	f := &fixture{
		t:      t,
		ctx:    context.Background(),
		clock:  &testClock{now: monday.Add(6 * time.Hour)},
		store:  repository.NewMemoryStore(),
		ledger: ledger.NewMemoryLedger(),
		events: events.NewMemoryPublisher(),
	}
	f.resolver = NewScheduleResolver(f.store, f.ledger)
	f.personnel = NewPersonnelService(f.store, f.events, WithPersonnelClock(f.clock.Now))
	opts := append([]EngineOption{
		WithClock(f.clock.Now),
		WithPersonnel(f.personnel),
		WithPublisher(f.events),
	}, engineOpts...)
	f.engine = NewAllocationEngine(f.store, f.ledger, f.resolver, opts...)
	f.reconciler = NewReconciler(f.store, f.ledger, f.resolver, f.engine, f.personnel,
		WithReconcilerClock(f.clock.Now),
		WithReconcilerPublisher(f.events),
	)
	f.catalog = NewCatalogService(f.store, f.ledger, f.resolver)
	return f
}

func (f *fixture) unit(id string, kind model.Leg, capacity string) {
	f.t.Helper()
	u := model.TransportUnit{ID: id, Kind: kind, Capacity: dec(capacity)}
	if kind == model.LegTruck {
		u.Plate = "CAB-" + id
	}
	require.NoError(f.t, f.store.SaveTransportUnit(f.ctx, u))
}

// schedule stores a schedule that departs once a day unless frequency says otherwise.
func (f *fixture) schedule(id, route string, leg model.Leg, unitID, departure string, durationMinutes int, days ...model.Weekday) model.RouteSchedule {
	f.t.Helper()
	if len(days) == 0 {
		days = []model.Weekday{model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday, model.Saturday, model.Sunday}
	}
	s := model.RouteSchedule{
		ID:               id,
		RouteID:          route,
		Leg:              leg,
		TransportUnitID:  unitID,
		DepartureTime:    departure,
		FrequencyMinutes: model.MinutesPerDay,
		DurationMinutes:  durationMinutes,
		OperatingDays:    days,
		Version:          1,
	}
	require.NoError(f.t, f.store.SaveSchedule(f.ctx, s))
	return s
}

func (f *fixture) product(id, space string) {
	f.t.Helper()
	require.NoError(f.t, f.store.SaveProduct(f.ctx, model.Product{
		ID:                id,
		Name:              id,
		SpaceConsumption:  dec(space),
		Price:             dec("1.00"),
		AvailableQuantity: 1000,
	}))
}

func (f *fixture) staff(id string, role model.StaffRole, minutes int) {
	f.t.Helper()
	require.NoError(f.t, f.store.SaveStaff(f.ctx, model.Staff{
		ID:           id,
		Name:         id,
		Role:         role,
		DailyMinutes: minutes,
		Available:    true,
	}))
}

func (f *fixture) order(id string, items ...model.OrderItem) model.Order {
	return model.Order{
		ID:           id,
		CustomerID:   "cust-" + id,
		TrainRouteID: trainRoute,
		TruckRouteID: truckRoute,
		Items:        items,
	}
}

func item(id, productID string, quantity int) model.OrderItem {
	return model.OrderItem{ID: id, ProductID: productID, Quantity: quantity, UnitPrice: dec("1.00")}
}

// network builds one daily train at 08:00 (2h) and one daily truck at 11:00 (1h).
func (f *fixture) network(trainCapacity, truckCapacity string) {
	f.t.Helper()
	f.unit("train-1", model.LegTrain, trainCapacity)
	f.unit("truck-1", model.LegTruck, truckCapacity)
	f.schedule("sch-train", trainRoute, model.LegTrain, "train-1", "08:00", 120)
	f.schedule("sch-truck", truckRoute, model.LegTruck, "truck-1", "11:00", 60)
	f.product("crate", "1.0")
}

func tripAt(scheduleID, unitID string, day, hour int) string {
	return model.TripID(scheduleID, unitID, monday.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour))
}

func (f *fixture) remaining(tripID string) decimal.Decimal {
	f.t.Helper()
	r, err := f.ledger.Peek(f.ctx, tripID)
	require.NoError(f.t, err)
	return r
}

func (f *fixture) activeOn(tripID string) []model.Allocation {
	f.t.Helper()
	allocs, err := f.store.ListActiveByTrip(f.ctx, tripID)
	require.NoError(f.t, err)
	return allocs
}
