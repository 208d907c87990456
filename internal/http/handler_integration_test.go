//go:build integration

package http

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/circuitbreaker"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/events"
	"github.com/guttosm/kandypack-dispatch/internal/ledger"
	"github.com/guttosm/kandypack-dispatch/internal/repository"
	"github.com/guttosm/kandypack-dispatch/internal/service"
	"github.com/guttosm/kandypack-dispatch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// integrationNow is Monday 2026-01-05 06:00 UTC.
var integrationNow = time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC)

type integrationStack struct {
	router *gin.Engine
	events *events.MemoryPublisher
}

// setupIntegrationRouter wires the full dispatch stack on a dedicated MongoDB database.
func setupIntegrationRouter(t *testing.T) *integrationStack {
	t.Helper()
	ctx := context.Background()

	db, err := repository.NewMongoDB(testutil.SharedMongoURI(), testutil.DatabaseName(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(ctx) })

	cbConfig := circuitbreaker.DefaultConfig()
	cbConfig.Ignore = repository.IsDomainError
	cb := circuitbreaker.New(cbConfig)
	store := repository.NewStoreWithCircuitBreaker(repository.NewMongoStore(db), cb)
	capacity := ledger.NewMongoLedger(db.Ledger)
	publisher := events.NewMemoryPublisher()
	now := func() time.Time { return integrationNow }

	resolver := service.NewScheduleResolver(store, capacity)
	personnel := service.NewPersonnelService(store, publisher, service.WithPersonnelClock(now))
	engine := service.NewAllocationEngine(store, capacity, resolver,
		service.WithClock(now),
		service.WithPersonnel(personnel),
		service.WithPublisher(publisher),
	)
	pool := service.NewWorkerPool(service.WorkerPoolConfig{BufferSize: 16, NumWorkers: 2})
	reconciler := service.NewReconciler(store, capacity, resolver, engine, personnel,
		service.WithQueue(pool),
		service.WithReconcilerClock(now),
		service.WithReconcilerPublisher(publisher),
	)
	pool.Start(reconciler.Handle)
	t.Cleanup(pool.Stop)

	catalog := service.NewCatalogService(store, capacity, resolver)
	handler := NewHandler(engine, catalog, personnel, reconciler, pool, WithHandlerClock(now))

	health := NewHealthHandler()
	health.RegisterChecker("mongodb", db)
	health.RegisterCircuitBreaker("mongodb", cb)

	cfg := DefaultRouterConfig()
	cfg.RateLimit = 0
	return &integrationStack{router: NewRouter(handler, health, cfg), events: publisher}
}

func (s *integrationStack) mustStatus(t *testing.T, status int, method, path, body string) {
	t.Helper()
	w := perform(s.router, method, path, body)
	require.Equal(t, status, w.Code, "%s %s: %s", method, path, w.Body.String())
}

func (s *integrationStack) seedNetwork(t *testing.T, truckCapacity string) {
	t.Helper()
	s.mustStatus(t, http.StatusOK, http.MethodPut, "/api/products/choc", `{"name":"Chocolate bar","space_consumption":"0.25","price":"3.50","available_quantity":1000}`)
	s.mustStatus(t, http.StatusOK, http.MethodPut, "/api/transport-units/train-3", `{"kind":"train","capacity":"100"}`)
	s.mustStatus(t, http.StatusOK, http.MethodPut, "/api/transport-units/truck-07",
		fmt.Sprintf(`{"kind":"truck","capacity":%q,"plate":"CAB-1234"}`, truckCapacity))
	s.mustStatus(t, http.StatusOK, http.MethodPut, "/api/schedules/sch-train",
		`{"route_id":"colombo-kandy","leg":"train","transport_unit_id":"train-3","departure_time":"08:00",
		"frequency_minutes":1440,"duration_minutes":180,"operating_days":["mon","tue","wed","thu","fri","sat","sun"]}`)
	s.mustStatus(t, http.StatusOK, http.MethodPut, "/api/schedules/sch-truck",
		`{"route_id":"kandy-peradeniya","leg":"truck","transport_unit_id":"truck-07","departure_time":"13:00",
		"frequency_minutes":1440,"duration_minutes":60,"operating_days":["mon","tue","wed","thu","fri","sat","sun"]}`)
}

func orderJSON(id string, quantity int) string {
	return fmt.Sprintf(`{"id":%q,"customer_id":"cust-9","train_route_id":"colombo-kandy","truck_route_id":"kandy-peradeniya",
		"items":[{"id":"item-1","product_id":"choc","quantity":%d,"unit_price":"3.50"}]}`, id, quantity)
}

func TestIntegration_OrderLifecycle(t *testing.T) {
	s := setupIntegrationRouter(t)
	s.seedNetwork(t, "10")

	w := perform(s.router, http.MethodPost, "/api/orders", orderJSON("ord-1", 20))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result := decodeData[model.AllocationResult](t, w)
	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, model.OrderAllocated, result.Status)
	assert.Equal(t, "5", item.RequiredSpace.String())
	assert.Contains(t, item.TrainTripID, "sch-train:train-3:20260105")
	assert.Contains(t, item.TruckTripID, "sch-truck:truck-07:20260105")

	// No driver on the books yet.
	w = perform(s.router, http.MethodGet, "/api/orders/ord-1/dispatch", "")
	require.Equal(t, http.StatusOK, w.Code)
	dispatch := decodeData[model.DispatchStatus](t, w)
	assert.False(t, dispatch.Ready)
	require.Len(t, dispatch.Items, 1)
	assert.Equal(t, model.CodeNeedsStaffing, dispatch.Items[0].Reason)

	s.mustStatus(t, http.StatusOK, http.MethodPut, "/api/staff/drv-1", `{"name":"Nimal","role":"driver","daily_minutes":480}`)

	w = perform(s.router, http.MethodPost, "/api/trips/"+item.TruckTripID+"/personnel", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.StaffingAssigned, decodeData[model.StaffingResult](t, w).Status)

	w = perform(s.router, http.MethodGet, "/api/orders/ord-1/dispatch", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeData[model.DispatchStatus](t, w).Ready)

	w = perform(s.router, http.MethodGet, "/api/trips/"+item.TruckTripID, "")
	require.Equal(t, http.StatusOK, w.Code)
	details := decodeData[model.TripDetails](t, w)
	assert.Equal(t, "5", details.Remaining.String())
	assert.Len(t, details.Allocations, 1)

	// Cancelling twice releases capacity once.
	for range 2 {
		w = perform(s.router, http.MethodPost, "/api/orders/ord-1/cancel", "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w = perform(s.router, http.MethodGet, "/api/trips/"+item.TruckTripID, "")
	assert.Equal(t, "10", decodeData[model.TripDetails](t, w).Remaining.String())

	w = perform(s.router, http.MethodPost, "/api/orders/ord-1/allocate", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, model.CodeOrderCancelled, decodeError(t, w).Code)
}

func TestIntegration_RejectsInvalidOrders(t *testing.T) {
	s := setupIntegrationRouter(t)
	s.seedNetwork(t, "10")

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{"zero quantity", orderJSON("ord-z", 0), http.StatusBadRequest, model.CodeValidation},
		{"missing id", orderJSON("", 4), http.StatusBadRequest, model.CodeValidation},
		{"unknown product", `{"id":"ord-u","train_route_id":"colombo-kandy","truck_route_id":"kandy-peradeniya",
			"items":[{"id":"i","product_id":"ghost","quantity":1,"unit_price":"1"}]}`, http.StatusBadRequest, model.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(s.router, http.MethodPost, "/api/orders", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
		})
	}

	// Nothing was stored for rejected orders.
	w := perform(s.router, http.MethodGet, "/api/orders/ord-z", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIntegration_DuplicateOrderID(t *testing.T) {
	s := setupIntegrationRouter(t)
	s.seedNetwork(t, "10")

	require.Equal(t, http.StatusCreated, perform(s.router, http.MethodPost, "/api/orders", orderJSON("ord-1", 4)).Code)

	w := perform(s.router, http.MethodPost, "/api/orders", orderJSON("ord-1", 4))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, model.CodeAlreadyExists, decodeError(t, w).Code)
}

func TestIntegration_CapacityReductionEvictsNewest(t *testing.T) {
	s := setupIntegrationRouter(t)
	s.seedNetwork(t, "10")

	first := decodeData[model.AllocationResult](t, perform(s.router, http.MethodPost, "/api/orders", orderJSON("ord-1", 16)))
	second := decodeData[model.AllocationResult](t, perform(s.router, http.MethodPost, "/api/orders", orderJSON("ord-2", 8)))
	truckTrip := first.Items[0].TruckTripID
	require.Equal(t, truckTrip, second.Items[0].TruckTripID)

	w := perform(s.router, http.MethodPut, "/api/transport-units/truck-07/capacity", `{"capacity":"5"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	accepted := decodeData[dto.JobAccepted](t, w)
	assert.Equal(t, string(service.JobCapacityChanged), accepted.Job)
	assert.Equal(t, "truck-07", accepted.Subject)

	// The newest allocation (ord-2, 2 units of space) is evicted; ord-1 (4) still fits.
	require.Eventually(t, func() bool {
		w := perform(s.router, http.MethodGet, "/api/trips/"+truckTrip, "")
		if w.Code != http.StatusOK {
			return false
		}
		details := decodeData[model.TripDetails](t, w)
		return len(details.Allocations) == 1 && details.Allocations[0].OrderID == "ord-1"
	}, 5*time.Second, 50*time.Millisecond)

	require.Eventually(t, func() bool {
		w := perform(s.router, http.MethodGet, "/api/orders/ord-2/dispatch", "")
		status := decodeData[model.DispatchStatus](t, w)
		return len(status.Items) == 1 && status.Items[0].TruckTripID != "" && status.Items[0].TruckTripID != truckTrip
	}, 5*time.Second, 50*time.Millisecond, "evicted item is re-allocated to a later truck")

	assert.NotEmpty(t, s.events.OfType(model.EventReconciliationEvicted))
}

func TestIntegration_Readiness(t *testing.T) {
	s := setupIntegrationRouter(t)

	w := perform(s.router, http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mongodb":"ok"`)
	assert.Contains(t, w.Body.String(), `"mongodb_circuit":"closed"`)
}
