package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TripStatus is the lifecycle state of a trip instance.
type TripStatus string

const (
	TripScheduled     TripStatus = "scheduled"
	TripNeedsStaffing TripStatus = "needs_staffing"
	TripStaffed       TripStatus = "staffed"
	TripCancelled     TripStatus = "cancelled"
)

// tripIDLayout renders the departure part of a trip id.
const tripIDLayout = "20060102T1504"

// TripID derives the deterministic trip identity.
func TripID(scheduleID, unitID string, departAt time.Time) string {
	return fmt.Sprintf("%s:%s:%s", scheduleID, unitID, departAt.Format(tripIDLayout))
}

// TripInstance is one dated departure of a route schedule.
//
// @Description Dated departure of a schedule on a transport unit
type TripInstance struct {
	ID              string     `json:"id" example:"sch-colombo-kandy-am:train-3:20260105T0800"`
	ScheduleID      string     `json:"schedule_id" example:"sch-colombo-kandy-am"`
	ScheduleVersion int        `json:"schedule_version" example:"1"`
	TransportUnitID string     `json:"transport_unit_id" example:"train-3"`
	RouteID         string     `json:"route_id" example:"colombo-kandy"`
	Leg             Leg        `json:"leg" example:"train"`
	DepartAt        time.Time  `json:"depart_at"`
	ArriveAt        time.Time  `json:"arrive_at"`
	Status          TripStatus `json:"status" example:"scheduled"`
} // @name TripInstance

// Duration returns the time the trip occupies its crew.
func (t TripInstance) Duration() time.Duration {
	return t.ArriveAt.Sub(t.DepartAt)
}

// Active reports whether the trip can carry allocations.
func (t TripInstance) Active() bool {
	return t.Status != TripCancelled
}

// TripDetails is a trip with its ledger position, allocations and crew.
//
// @Description Trip instance with remaining capacity, active allocations and crew
type TripDetails struct {
	Trip        TripInstance         `json:"trip"`
	Remaining   decimal.Decimal      `json:"remaining" swaggertype:"string" example:"4.5"`
	Allocations []Allocation         `json:"allocations"`
	Assignment  *PersonnelAssignment `json:"assignment,omitempty"`
} // @name TripDetails
