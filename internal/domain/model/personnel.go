package model

import (
	"time"
)

// StaffRole is the crew position a staff member can fill.
type StaffRole string

const (
	RoleDriver    StaffRole = "driver"
	RoleAssistant StaffRole = "assistant"
)

// Valid reports whether r is a known role.
func (r StaffRole) Valid() bool {
	return r == RoleDriver || r == RoleAssistant
}

// Staff is a member of the truck crew pool.
//
// @Description Driver or assistant with a daily working-minutes budget
type Staff struct {
	ID           string    `json:"id" example:"drv-12"`
	Name         string    `json:"name" example:"Nimal Perera"`
	Role         StaffRole `json:"role" example:"driver"`
	DailyMinutes int       `json:"daily_minutes" example:"480"`
	Available    bool      `json:"available" example:"true"`
} // @name Staff

// Validate checks staff field invariants.
func (s Staff) Validate() error {
	if s.ID == "" {
		return Invalid("id", "must not be empty")
	}
	if !s.Role.Valid() {
		return Invalid("role", "must be driver or assistant")
	}
	if s.DailyMinutes <= 0 {
		return Invalid("daily_minutes", "must be greater than zero")
	}
	return nil
}

// AssignmentDateLayout formats the calendar date of an assignment.
const AssignmentDateLayout = "2006-01-02"

// PersonnelAssignment is the crew bound to one truck trip instance.
//
// @Description Driver and optional assistant bound to a truck trip
type PersonnelAssignment struct {
	TripInstanceID string    `json:"trip_instance_id"`
	DriverID       string    `json:"driver_id" example:"drv-12"`
	AssistantID    string    `json:"assistant_id,omitempty" example:"ast-4"`
	Date           string    `json:"date" example:"2026-01-05"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	CreatedAt      time.Time `json:"created_at"`
} // @name PersonnelAssignment

// Overlaps reports whether [start, end) intersects the assignment window.
func (a PersonnelAssignment) Overlaps(start, end time.Time) bool {
	return a.StartsAt.Before(end) && start.Before(a.EndsAt)
}

// Involves reports whether staffID is on the crew.
func (a PersonnelAssignment) Involves(staffID string) bool {
	return a.DriverID == staffID || (a.AssistantID != "" && a.AssistantID == staffID)
}

// Minutes returns the window length in minutes.
func (a PersonnelAssignment) Minutes() int {
	return int(a.EndsAt.Sub(a.StartsAt) / time.Minute)
}

// StaffingStatus is the result of a personnel assignment attempt.
type StaffingStatus string

const (
	StaffingAssigned      StaffingStatus = "assigned"
	StaffingNeedsStaffing StaffingStatus = "needs_staffing"
)

// StaffingResult reports the outcome of AssignPersonnel.
//
// @Description Personnel assignment outcome for a truck trip
type StaffingResult struct {
	TripInstanceID string               `json:"trip_instance_id"`
	Status         StaffingStatus       `json:"status" example:"assigned"`
	Assignment     *PersonnelAssignment `json:"assignment,omitempty"`
} // @name StaffingResult

// Dispatch reasons for items that are missing a leg.
const (
	ReasonEvicted           = "EVICTED"
	ReasonPendingAllocation = "PENDING_ALLOCATION"
)

// DispatchStatus reports whether an order can leave the hub.
//
// @Description Dispatch readiness of an order with per-item reasons
type DispatchStatus struct {
	OrderID string         `json:"order_id" example:"ord-1001"`
	Ready   bool           `json:"ready" example:"false"`
	Items   []ItemDispatch `json:"items"`
} // @name DispatchStatus

// ItemDispatch is the dispatch readiness of one item.
type ItemDispatch struct {
	OrderItemID string `json:"order_item_id" example:"item-1"`
	TrainTripID string `json:"train_trip_id,omitempty"`
	TruckTripID string `json:"truck_trip_id,omitempty"`
	Staffed     bool   `json:"staffed"`
	Reason      string `json:"reason,omitempty" example:"NEEDS_STAFFING"`
} // @name ItemDispatch
