package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// truckTrip stores a truck trip departing on Monday at hh:mm.
func (f *fixture) truckTrip(id string, hour, minute, durationMinutes int) string {
	f.t.Helper()
	departAt := monday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	_, _, err := f.store.EnsureTrip(f.ctx, model.TripInstance{
		ID:              id,
		ScheduleID:      "sch-" + id,
		TransportUnitID: "truck-1",
		RouteID:         truckRoute,
		Leg:             model.LegTruck,
		DepartAt:        departAt,
		ArriveAt:        departAt.Add(time.Duration(durationMinutes) * time.Minute),
		Status:          model.TripScheduled,
	})
	require.NoError(f.t, err)
	return id
}

func (f *fixture) assign(tripID string) *model.StaffingResult {
	f.t.Helper()
	res, err := f.personnel.AssignPersonnel(f.ctx, tripID)
	require.NoError(f.t, err)
	return res
}

func TestPersonnel_AssignsDriverAndAssistant(t *testing.T) {
	f := newFixture(t)
	f.staff("drv-1", model.RoleDriver, 480)
	f.staff("ast-1", model.RoleAssistant, 480)
	trip := f.truckTrip("trip-a", 11, 0, 60)

	res := f.assign(trip)

	assert.Equal(t, model.StaffingAssigned, res.Status)
	require.NotNil(t, res.Assignment)
	assert.Equal(t, "drv-1", res.Assignment.DriverID)
	assert.Equal(t, "ast-1", res.Assignment.AssistantID)
	assert.Equal(t, "2026-01-05", res.Assignment.Date)
	assert.Equal(t, 60, res.Assignment.Minutes())

	stored, err := f.store.GetTrip(f.ctx, trip)
	require.NoError(t, err)
	assert.Equal(t, model.TripStaffed, stored.Status)

	again := f.assign(trip)
	assert.Equal(t, res.Assignment.DriverID, again.Assignment.DriverID)
	assert.Equal(t, res.Assignment.AssistantID, again.Assignment.AssistantID)
}

func TestPersonnel_AssistantIsOptional(t *testing.T) {
	f := newFixture(t)
	f.staff("drv-1", model.RoleDriver, 480)
	trip := f.truckTrip("trip-a", 11, 0, 60)

	res := f.assign(trip)

	assert.Equal(t, model.StaffingAssigned, res.Status)
	assert.Equal(t, "drv-1", res.Assignment.DriverID)
	assert.Empty(t, res.Assignment.AssistantID)
}

func TestPersonnel_NoDriverNeedsStaffing(t *testing.T) {
	f := newFixture(t)
	f.staff("ast-1", model.RoleAssistant, 480)
	trip := f.truckTrip("trip-a", 11, 0, 60)

	res := f.assign(trip)

	assert.Equal(t, model.StaffingNeedsStaffing, res.Status)
	assert.Nil(t, res.Assignment)
	stored, err := f.store.GetTrip(f.ctx, trip)
	require.NoError(t, err)
	assert.Equal(t, model.TripNeedsStaffing, stored.Status)

	assignment, err := f.store.GetAssignment(f.ctx, trip)
	require.NoError(t, err)
	assert.Nil(t, assignment, "an assistant alone is not a crew")

	events := f.events.OfType(model.EventNeedsStaffing)
	require.Len(t, events, 1)
	assert.Equal(t, trip, events[0].TripInstanceID)
}

func TestPersonnel_Eligibility(t *testing.T) {
	tests := []struct {
		name       string
		budget     int
		second     [3]int // hour, minute, duration
		wantStatus model.StaffingStatus
	}{
		{name: "overlapping trip", budget: 480, second: [3]int{11, 30, 60}, wantStatus: model.StaffingNeedsStaffing},
		{name: "back to back", budget: 480, second: [3]int{12, 0, 60}, wantStatus: model.StaffingAssigned},
		{name: "daily budget exceeded", budget: 90, second: [3]int{14, 0, 60}, wantStatus: model.StaffingNeedsStaffing},
		{name: "daily budget exactly used", budget: 120, second: [3]int{14, 0, 60}, wantStatus: model.StaffingAssigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.staff("drv-1", model.RoleDriver, tt.budget)
			first := f.truckTrip("trip-a", 11, 0, 60)
			second := f.truckTrip("trip-b", tt.second[0], tt.second[1], tt.second[2])

			require.Equal(t, model.StaffingAssigned, f.assign(first).Status)
			assert.Equal(t, tt.wantStatus, f.assign(second).Status)
		})
	}
}

func TestPersonnel_BudgetIsPerCalendarDay(t *testing.T) {
	f := newFixture(t)
	f.staff("drv-1", model.RoleDriver, 60)
	first := f.truckTrip("trip-a", 11, 0, 60)
	nextDay := f.truckTrip("trip-b", 24+11, 0, 60)

	require.Equal(t, model.StaffingAssigned, f.assign(first).Status)
	assert.Equal(t, model.StaffingAssigned, f.assign(nextDay).Status)
}

func TestPersonnel_UnavailableStaffIsSkipped(t *testing.T) {
	f := newFixture(t)
	f.staff("drv-1", model.RoleDriver, 480)
	f.staff("drv-2", model.RoleDriver, 480)
	st, err := f.store.GetStaff(f.ctx, "drv-1")
	require.NoError(t, err)
	st.Available = false
	require.NoError(t, f.store.SaveStaff(f.ctx, *st))

	res := f.assign(f.truckTrip("trip-a", 11, 0, 60))
	assert.Equal(t, "drv-2", res.Assignment.DriverID)
}

func TestPersonnel_PrefersFewestAssignmentsThenSmallestID(t *testing.T) {
	f := newFixture(t)
	f.staff("drv-2", model.RoleDriver, 480)
	f.staff("drv-1", model.RoleDriver, 480)

	first := f.assign(f.truckTrip("trip-a", 9, 0, 60))
	assert.Equal(t, "drv-1", first.Assignment.DriverID, "tie on count goes to the smaller id")

	second := f.assign(f.truckTrip("trip-b", 11, 0, 60))
	assert.Equal(t, "drv-2", second.Assignment.DriverID, "drv-1 already works one trip today")

	third := f.assign(f.truckTrip("trip-c", 13, 0, 60))
	assert.Equal(t, "drv-1", third.Assignment.DriverID)
}

func TestPersonnel_RejectsNonTruckAndCancelledTrips(t *testing.T) {
	f := newFixture(t)
	f.staff("drv-1", model.RoleDriver, 480)

	_, _, err := f.store.EnsureTrip(f.ctx, model.TripInstance{
		ID:       "train-trip",
		Leg:      model.LegTrain,
		DepartAt: monday.Add(8 * time.Hour),
		ArriveAt: monday.Add(10 * time.Hour),
		Status:   model.TripScheduled,
	})
	require.NoError(t, err)
	_, err = f.personnel.AssignPersonnel(f.ctx, "train-trip")
	assert.True(t, errors.Is(err, model.ErrValidation))

	cancelled := f.truckTrip("trip-x", 11, 0, 60)
	require.NoError(t, f.store.UpdateTripStatus(f.ctx, cancelled, model.TripCancelled))
	_, err = f.personnel.AssignPersonnel(f.ctx, cancelled)
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, err = f.personnel.AssignPersonnel(f.ctx, "missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestPersonnel_ConcurrentTripsNeverShareADriver(t *testing.T) {
	f := newFixture(t)
	f.staff("drv-1", model.RoleDriver, 480)
	trips := []string{
		f.truckTrip("trip-a", 11, 0, 60),
		f.truckTrip("trip-b", 11, 15, 60),
		f.truckTrip("trip-c", 11, 30, 60),
	}

	var wg sync.WaitGroup
	results := make([]*model.StaffingResult, len(trips))
	for i, trip := range trips {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.personnel.AssignPersonnel(f.ctx, trip)
			assert.NoError(t, err)
			results[i] = res
		}()
	}
	wg.Wait()

	assigned := 0
	for _, res := range results {
		require.NotNil(t, res)
		if res.Status == model.StaffingAssigned {
			assigned++
		}
	}
	assert.Equal(t, 1, assigned)
}

func TestPersonnel_ReleaseStaff(t *testing.T) {
	f := newFixture(t)
	f.staff("drv-1", model.RoleDriver, 480)
	f.staff("ast-1", model.RoleAssistant, 480)
	trip := f.truckTrip("trip-a", 11, 0, 60)
	f.assign(trip)

	t.Run("assistant leaves the crew intact", func(t *testing.T) {
		lost, err := f.personnel.ReleaseStaff(f.ctx, "ast-1", monday)
		require.NoError(t, err)
		assert.Empty(t, lost)

		assignment, err := f.store.GetAssignment(f.ctx, trip)
		require.NoError(t, err)
		require.NotNil(t, assignment)
		assert.Equal(t, "drv-1", assignment.DriverID)
		assert.Empty(t, assignment.AssistantID)
	})

	t.Run("driver leaves the trip unstaffed", func(t *testing.T) {
		lost, err := f.personnel.ReleaseStaff(f.ctx, "drv-1", monday)
		require.NoError(t, err)
		assert.Equal(t, []string{trip}, lost)

		assignment, err := f.store.GetAssignment(f.ctx, trip)
		require.NoError(t, err)
		assert.Nil(t, assignment)

		stored, err := f.store.GetTrip(f.ctx, trip)
		require.NoError(t, err)
		assert.Equal(t, model.TripNeedsStaffing, stored.Status)

		events := f.events.OfType(model.EventNeedsStaffing)
		require.NotEmpty(t, events)
		assert.Equal(t, "DRIVER_UNAVAILABLE", events[len(events)-1].Reason)
	})

	t.Run("assignments before the cut-off are kept", func(t *testing.T) {
		other := f.truckTrip("trip-b", 9, 0, 60)
		res := f.assign(other)
		require.Equal(t, "drv-1", res.Assignment.DriverID)

		lost, err := f.personnel.ReleaseStaff(f.ctx, "drv-1", monday.Add(10*time.Hour))
		require.NoError(t, err)
		assert.Empty(t, lost)
	})
}
