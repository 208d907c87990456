package repository

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

func sampleTrip(id string, depart time.Time) model.TripInstance {
	return model.TripInstance{
		ID:              id,
		ScheduleID:      "sch-1",
		ScheduleVersion: 1,
		TransportUnitID: "truck-1",
		RouteID:         "r-1",
		Leg:             model.LegTruck,
		DepartAt:        depart,
		ArriveAt:        depart.Add(2 * time.Hour),
		Status:          model.TripScheduled,
	}
}

func sampleAllocation(id, item string, created time.Time) model.Allocation {
	return model.Allocation{
		ID:             id,
		OrderID:        "ord-1",
		OrderItemID:    item,
		TripInstanceID: "trip-1",
		Leg:            model.LegTruck,
		ConsumedSpace:  decimal.NewFromInt(3),
		CreatedAt:      created,
		Active:         true,
	}
}

// runStoreContract exercises behaviour every Store must share.
func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing entities", func(t *testing.T) {
		_, err := store.GetOrder(ctx, "nope")
		assert.ErrorIs(t, err, model.ErrNotFound)
		_, err = store.GetTrip(ctx, "nope")
		assert.ErrorIs(t, err, model.ErrNotFound)
		a, err := store.GetAssignment(ctx, "nope")
		assert.NoError(t, err)
		assert.Nil(t, a)
	})

	t.Run("product round trip keeps decimals", func(t *testing.T) {
		p := model.Product{ID: "p1", Name: "Toffee", SpaceConsumption: decimal.RequireFromString("0.125"), Price: decimal.RequireFromString("2.40")}
		require.NoError(t, store.SaveProduct(ctx, p))
		got, err := store.GetProduct(ctx, "p1")
		require.NoError(t, err)
		assert.True(t, p.SpaceConsumption.Equal(got.SpaceConsumption))
		assert.True(t, p.Price.Equal(got.Price))
	})

	t.Run("ensure trip is insert if absent", func(t *testing.T) {
		trip := sampleTrip("sch-1:truck-1:20260105T0800", baseTime)
		stored, created, err := store.EnsureTrip(ctx, trip)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, trip.ID, stored.ID)

		again := trip
		again.Status = model.TripCancelled
		stored, created, err = store.EnsureTrip(ctx, again)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, model.TripScheduled, stored.Status)

		require.NoError(t, store.UpdateTripStatus(ctx, trip.ID, model.TripStaffed))
		got, err := store.GetTrip(ctx, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, model.TripStaffed, got.Status)

		later := trip.ArriveAt.Add(30 * time.Minute)
		require.NoError(t, store.UpdateTripArrival(ctx, trip.ID, later))
		got, err = store.GetTrip(ctx, trip.ID)
		require.NoError(t, err)
		assert.True(t, later.Equal(got.ArriveAt), "got %s", got.ArriveAt)
		assert.ErrorIs(t, store.UpdateTripArrival(ctx, "ghost", later), model.ErrNotFound)

		trips, err := store.ListTripsByUnit(ctx, "truck-1", baseTime)
		require.NoError(t, err)
		assert.Len(t, trips, 1)
		trips, err = store.ListTripsBySchedule(ctx, "sch-1", baseTime.Add(time.Minute))
		require.NoError(t, err)
		assert.Empty(t, trips)
	})

	t.Run("order compare and swap", func(t *testing.T) {
		o := model.Order{
			ID: "ord-cas", CustomerID: "c", TrainRouteID: "a", TruckRouteID: "b",
			Items:   []model.OrderItem{{ID: "i1", ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(1), Status: model.ItemPending}},
			Status:  model.OrderPending,
			Version: 1,
		}
		require.NoError(t, store.CreateOrder(ctx, o))
		assert.ErrorIs(t, store.CreateOrder(ctx, o), model.ErrAlreadyExists)

		first, err := store.GetOrder(ctx, "ord-cas")
		require.NoError(t, err)
		second, err := store.GetOrder(ctx, "ord-cas")
		require.NoError(t, err)

		first.Status = model.OrderAllocated
		require.NoError(t, store.UpdateOrder(ctx, first))
		assert.Equal(t, 2, first.Version)

		second.Status = model.OrderCancelled
		assert.ErrorIs(t, store.UpdateOrder(ctx, second), model.ErrConcurrentConflict)

		got, err := store.GetOrder(ctx, "ord-cas")
		require.NoError(t, err)
		assert.Equal(t, model.OrderAllocated, got.Status)
	})

	t.Run("one active allocation per item and leg", func(t *testing.T) {
		a1 := sampleAllocation("a1", "i1", baseTime)
		require.NoError(t, store.CreateAllocation(ctx, a1))

		dup := sampleAllocation("a1-dup", "i1", baseTime.Add(time.Second))
		assert.ErrorIs(t, store.CreateAllocation(ctx, dup), model.ErrAlreadyExists)

		changed, err := store.DeactivateAllocation(ctx, "a1", baseTime.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = store.DeactivateAllocation(ctx, "a1", baseTime.Add(2*time.Minute))
		require.NoError(t, err)
		assert.False(t, changed, "second deactivation must not report a transition")

		require.NoError(t, store.CreateAllocation(ctx, dup))
	})

	t.Run("active allocations listed oldest first", func(t *testing.T) {
		require.NoError(t, store.CreateAllocation(ctx, sampleAllocation("a3", "i3", baseTime.Add(3*time.Hour))))
		require.NoError(t, store.CreateAllocation(ctx, sampleAllocation("a2", "i2", baseTime.Add(2*time.Hour))))

		allocs, err := store.ListActiveByTrip(ctx, "trip-1")
		require.NoError(t, err)
		ids := make([]string, len(allocs))
		for i, a := range allocs {
			ids[i] = a.ID
		}
		assert.Equal(t, []string{"a1-dup", "a2", "a3"}, ids)

		byOrder, err := store.ListActiveByOrder(ctx, "ord-1")
		require.NoError(t, err)
		assert.Len(t, byOrder, 3)
	})

	t.Run("assignments by staff", func(t *testing.T) {
		a := model.PersonnelAssignment{
			TripInstanceID: "trip-x",
			DriverID:       "d1",
			AssistantID:    "s1",
			Date:           "2026-01-05",
			StartsAt:       baseTime,
			EndsAt:         baseTime.Add(time.Hour),
		}
		require.NoError(t, store.CreateAssignment(ctx, a))
		assert.ErrorIs(t, store.CreateAssignment(ctx, a), model.ErrAlreadyExists)

		got, err := store.ListAssignmentsByStaff(ctx, "s1", baseTime.Add(-time.Hour), baseTime.Add(24*time.Hour))
		require.NoError(t, err)
		assert.Len(t, got, 1)

		a.AssistantID = ""
		require.NoError(t, store.SaveAssignment(ctx, a))
		got, err = store.ListAssignmentsByStaff(ctx, "s1", baseTime.Add(-time.Hour), baseTime.Add(24*time.Hour))
		require.NoError(t, err)
		assert.Empty(t, got)

		require.NoError(t, store.DeleteAssignment(ctx, "trip-x"))
		stored, err := store.GetAssignment(ctx, "trip-x")
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("staff listed by role", func(t *testing.T) {
		require.NoError(t, store.SaveStaff(ctx, model.Staff{ID: "d2", Role: model.RoleDriver, DailyMinutes: 480, Available: true}))
		require.NoError(t, store.SaveStaff(ctx, model.Staff{ID: "d1", Role: model.RoleDriver, DailyMinutes: 480, Available: true}))
		require.NoError(t, store.SaveStaff(ctx, model.Staff{ID: "s1", Role: model.RoleAssistant, DailyMinutes: 480}))

		drivers, err := store.ListStaff(ctx, model.RoleDriver)
		require.NoError(t, err)
		require.Len(t, drivers, 2)
		assert.Equal(t, "d1", drivers[0].ID)
	})

	t.Run("schedules by route", func(t *testing.T) {
		sch := model.RouteSchedule{
			ID: "sch-1", RouteID: "r-1", Leg: model.LegTruck, TransportUnitID: "truck-1",
			DepartureTime: "08:00", FrequencyMinutes: 60, DurationMinutes: 120,
			OperatingDays: []model.Weekday{model.Monday}, Version: 1,
		}
		require.NoError(t, store.SaveSchedule(ctx, sch))
		list, err := store.ListSchedulesByRoute(ctx, "r-1", model.LegTruck)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, []model.Weekday{model.Monday}, list[0].OperatingDays)

		list, err = store.ListSchedulesByRoute(ctx, "r-1", model.LegTrain)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
