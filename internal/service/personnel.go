package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/events"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
	"github.com/guttosm/kandypack-dispatch/internal/metrics"
	"github.com/guttosm/kandypack-dispatch/internal/repository"
)

// longestShift bounds how far back an assignment can start and still overlap a trip.
const longestShift = 24 * time.Hour

// PersonnelService binds crews to truck trips.
type PersonnelService interface {
	// AssignPersonnel binds a driver and optionally an assistant to a truck trip.
	AssignPersonnel(ctx context.Context, tripID string) (*model.StaffingResult, error)
	// ReleaseStaff removes staffID from assignments starting at or after from and
	// returns the trips that lost their driver.
	ReleaseStaff(ctx context.Context, staffID string, from time.Time) ([]string, error)
}

// PersonnelOption configures a PersonnelServiceImpl.
type PersonnelOption func(*PersonnelServiceImpl)

// PersonnelServiceImpl implements PersonnelService.
type PersonnelServiceImpl struct {
	store     repository.Store
	publisher events.Publisher
	loc       *time.Location
	now       func() time.Time
	// releaseWindow bounds how far ahead ReleaseStaff looks.
	releaseWindow time.Duration
	tripLocks     *keyedMutex
	staffLocks    *keyedMutex
}

// NewPersonnelService creates a personnel service.
func NewPersonnelService(store repository.Store, publisher events.Publisher, opts ...PersonnelOption) *PersonnelServiceImpl {
	s := &PersonnelServiceImpl{
		store:         store,
		publisher:     publisher,
		loc:           time.UTC,
		now:           time.Now,
		releaseWindow: 60 * 24 * time.Hour,
		tripLocks:     newKeyedMutex(),
		staffLocks:    newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithPersonnelLocation sets the time zone that defines a working day.
func WithPersonnelLocation(loc *time.Location) PersonnelOption {
	return func(s *PersonnelServiceImpl) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithPersonnelClock overrides the clock.
func WithPersonnelClock(now func() time.Time) PersonnelOption {
	return func(s *PersonnelServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithReleaseWindow sets how far ahead ReleaseStaff looks for assignments.
func WithReleaseWindow(d time.Duration) PersonnelOption {
	return func(s *PersonnelServiceImpl) {
		if d > 0 {
			s.releaseWindow = d
		}
	}
}

// candidate is an eligible staff member with the assignments counted for ordering.
type candidate struct {
	staff model.Staff
	count int
}

// AssignPersonnel staffs tripID. It is a no-op for a trip that already has a driver.
func (s *PersonnelServiceImpl) AssignPersonnel(ctx context.Context, tripID string) (*model.StaffingResult, error) {
	unlock := s.tripLocks.Lock(tripID)
	defer unlock()

	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Leg != model.LegTruck {
		return nil, model.Invalid("trip_id", "personnel is assigned to truck trips only")
	}
	if !trip.Active() {
		return nil, model.Invalid("trip_id", "trip is cancelled")
	}

	existing, err := s.store.GetAssignment(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.DriverID != "" {
		if trip.Status != model.TripStaffed {
			if err := s.store.UpdateTripStatus(ctx, tripID, model.TripStaffed); err != nil {
				return nil, err
			}
		}
		return &model.StaffingResult{TripInstanceID: tripID, Status: model.StaffingAssigned, Assignment: existing}, nil
	}

	dayStart, dayEnd := s.workingDay(trip.DepartAt)

	driver, releaseDriver, err := s.claim(ctx, model.RoleDriver, *trip, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return s.needsStaffing(ctx, *trip)
	}
	defer releaseDriver()

	assignment := model.PersonnelAssignment{
		TripInstanceID: tripID,
		DriverID:       driver.ID,
		Date:           dayStart.Format(model.AssignmentDateLayout),
		StartsAt:       trip.DepartAt,
		EndsAt:         trip.ArriveAt,
		CreatedAt:      s.now().UTC(),
	}

	assistant, releaseAssistant, err := s.claim(ctx, model.RoleAssistant, *trip, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if assistant != nil {
		defer releaseAssistant()
		assignment.AssistantID = assistant.ID
	}

	if existing != nil {
		err = s.store.SaveAssignment(ctx, assignment)
	} else {
		err = s.store.CreateAssignment(ctx, assignment)
	}
	if err != nil {
		return nil, fmt.Errorf("store assignment for %s: %w", tripID, err)
	}
	if err := s.store.UpdateTripStatus(ctx, tripID, model.TripStaffed); err != nil {
		return nil, err
	}

	metrics.RecordStaffing(string(model.StaffingAssigned))
	log := logger.WithContext(ctx)
	log.Info().
		Str("trip_id", tripID).
		Str("driver_id", assignment.DriverID).
		Str("assistant_id", assignment.AssistantID).
		Msg("Personnel assigned")

	return &model.StaffingResult{TripInstanceID: tripID, Status: model.StaffingAssigned, Assignment: &assignment}, nil
}

func (s *PersonnelServiceImpl) needsStaffing(ctx context.Context, trip model.TripInstance) (*model.StaffingResult, error) {
	if trip.Status != model.TripNeedsStaffing {
		if err := s.store.UpdateTripStatus(ctx, trip.ID, model.TripNeedsStaffing); err != nil {
			return nil, err
		}
	}
	metrics.RecordStaffing(string(model.StaffingNeedsStaffing))
	s.publish(ctx, model.Event{
		Type:           model.EventNeedsStaffing,
		TripInstanceID: trip.ID,
		Leg:            model.LegTruck,
		Reason:         model.CodeNeedsStaffing,
	})
	log := logger.WithContext(ctx)
	log.Warn().Str("trip_id", trip.ID).Msg("No driver available for truck trip")
	return &model.StaffingResult{TripInstanceID: trip.ID, Status: model.StaffingNeedsStaffing}, nil
}

// workingDay returns the calendar day of t in the service time zone.
func (s *PersonnelServiceImpl) workingDay(t time.Time) (time.Time, time.Time) {
	y, m, d := t.In(s.loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 1)
}

// claim picks the first eligible staff member of role and returns it with its lock held.
// A nil staff means nobody is eligible.
func (s *PersonnelServiceImpl) claim(ctx context.Context, role model.StaffRole, trip model.TripInstance, dayStart, dayEnd time.Time) (*model.Staff, func(), error) {
	pool, err := s.store.ListStaff(ctx, role)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s staff: %w", role, err)
	}

	candidates := make([]candidate, 0, len(pool))
	for _, st := range pool {
		count, ok, err := s.eligible(ctx, st, trip, dayStart, dayEnd)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			candidates = append(candidates, candidate{staff: st, count: count})
		}
	}
	slices.SortFunc(candidates, func(a, b candidate) int {
		if a.count != b.count {
			return a.count - b.count
		}
		return strings.Compare(a.staff.ID, b.staff.ID)
	})

	for _, c := range candidates {
		unlock := s.staffLocks.Lock(c.staff.ID)
		// Another trip may have booked this person since the scan.
		current, err := s.store.GetStaff(ctx, c.staff.ID)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		_, ok, err := s.eligible(ctx, *current, trip, dayStart, dayEnd)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if ok {
			return current, unlock, nil
		}
		unlock()
	}
	return nil, func() {}, nil
}

// eligible reports whether st can work trip and how many assignments st has that day.
func (s *PersonnelServiceImpl) eligible(ctx context.Context, st model.Staff, trip model.TripInstance, dayStart, dayEnd time.Time) (int, bool, error) {
	if !st.Available || st.DailyMinutes <= 0 {
		return 0, false, nil
	}
	from := dayStart
	if early := trip.DepartAt.Add(-longestShift); early.Before(from) {
		from = early
	}
	to := dayEnd
	if trip.ArriveAt.After(to) {
		to = trip.ArriveAt
	}
	assignments, err := s.store.ListAssignmentsByStaff(ctx, st.ID, from, to)
	if err != nil {
		return 0, false, fmt.Errorf("list assignments of %s: %w", st.ID, err)
	}

	count, minutes := 0, 0
	for _, a := range assignments {
		if a.TripInstanceID == trip.ID {
			continue
		}
		if a.Overlaps(trip.DepartAt, trip.ArriveAt) {
			return 0, false, nil
		}
		if !a.StartsAt.Before(dayStart) && a.StartsAt.Before(dayEnd) {
			count++
			minutes += a.Minutes()
		}
	}
	tripMinutes := int(trip.Duration() / time.Minute)
	if st.DailyMinutes-minutes < tripMinutes {
		return 0, false, nil
	}
	return count, true, nil
}

// ReleaseStaff removes staffID from future crews. Trips that lose their driver are
// marked needs_staffing; allocations on them are left as they are.
func (s *PersonnelServiceImpl) ReleaseStaff(ctx context.Context, staffID string, from time.Time) ([]string, error) {
	assignments, err := s.store.ListAssignmentsByStaff(ctx, staffID, from, from.Add(s.releaseWindow))
	if err != nil {
		return nil, fmt.Errorf("list assignments of %s: %w", staffID, err)
	}

	var lostDriver []string
	for _, a := range assignments {
		lost, err := s.releaseFromTrip(ctx, staffID, a.TripInstanceID)
		if err != nil {
			return lostDriver, err
		}
		if lost {
			lostDriver = append(lostDriver, a.TripInstanceID)
		}
	}
	return lostDriver, nil
}

func (s *PersonnelServiceImpl) releaseFromTrip(ctx context.Context, staffID, tripID string) (bool, error) {
	unlock := s.tripLocks.Lock(tripID)
	defer unlock()

	current, err := s.store.GetAssignment(ctx, tripID)
	if err != nil || current == nil {
		return false, err
	}

	switch staffID {
	case current.DriverID:
		if err := s.store.DeleteAssignment(ctx, tripID); err != nil {
			return false, err
		}
		if err := s.store.UpdateTripStatus(ctx, tripID, model.TripNeedsStaffing); err != nil && !errors.Is(err, model.ErrNotFound) {
			return false, err
		}
		metrics.RecordStaffing(string(model.StaffingNeedsStaffing))
		s.publish(ctx, model.Event{
			Type:           model.EventNeedsStaffing,
			TripInstanceID: tripID,
			Leg:            model.LegTruck,
			Reason:         "DRIVER_UNAVAILABLE",
		})
		log := logger.WithContext(ctx)
		log.Warn().Str("trip_id", tripID).Str("staff_id", staffID).Msg("Truck trip lost its driver")
		return true, nil
	case current.AssistantID:
		current.AssistantID = ""
		return false, s.store.SaveAssignment(ctx, *current)
	}
	return false, nil
}

func (s *PersonnelServiceImpl) publish(ctx context.Context, event model.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log := logger.WithContext(ctx)
		log.Warn().Err(err).Str("event_type", string(event.Type)).Msg("Failed to publish event")
	}
}
