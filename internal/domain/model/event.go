package model

import (
	"time"
)

// EventType names a domain event emitted by the allocation core.
type EventType string

const (
	EventAllocationConfirmed   EventType = "AllocationConfirmed"
	EventAllocationFailed      EventType = "AllocationFailed"
	EventNeedsStaffing         EventType = "NeedsStaffing"
	EventReconciliationEvicted EventType = "ReconciliationEvicted"
)

// Event is published to the notification/reporting collaborator.
type Event struct {
	ID             string    `json:"id"`
	Type           EventType `json:"type"`
	OrderID        string    `json:"order_id,omitempty"`
	OrderItemID    string    `json:"order_item_id,omitempty"`
	TripInstanceID string    `json:"trip_instance_id,omitempty"`
	Leg            Leg       `json:"leg,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Key returns the partitioning key for the event.
func (e Event) Key() string {
	if e.OrderID != "" {
		return e.OrderID
	}
	return e.TripInstanceID
}
