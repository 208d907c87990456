package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Allocation binds one order item to one trip instance for one leg.
//
// @Description Space reserved for an order item on a trip instance
type Allocation struct {
	ID             string          `json:"id" example:"3c7f2a9e-6f0b-4a43-9a5c-2b0c1d7e8f10"`
	OrderID        string          `json:"order_id" example:"ord-1001"`
	OrderItemID    string          `json:"order_item_id" example:"item-1"`
	TripInstanceID string          `json:"trip_instance_id" example:"sch-kandy-peradeniya:truck-07:20260105T1300"`
	Leg            Leg             `json:"leg" example:"truck"`
	ConsumedSpace  decimal.Decimal `json:"consumed_space" swaggertype:"string" example:"5.0"`
	CreatedAt      time.Time       `json:"created_at"`
	Active         bool            `json:"active"`
	ReleasedAt     *time.Time      `json:"released_at,omitempty"`
} // @name Allocation

// ItemResult reports the outcome of allocating one order item.
//
// @Description Allocation outcome for one order item
type ItemResult struct {
	OrderItemID   string          `json:"order_item_id" example:"item-1"`
	Status        ItemStatus      `json:"status" example:"allocated"`
	RequiredSpace decimal.Decimal `json:"required_space" swaggertype:"string" example:"5.0"`
	TrainTripID   string          `json:"train_trip_id,omitempty"`
	TruckTripID   string          `json:"truck_trip_id,omitempty"`
	Reason        string          `json:"reason,omitempty" example:"UNSCHEDULABLE"`
} // @name ItemResult

// AllocationResult reports the outcome of allocating an order.
//
// @Description Allocation outcome for an order
type AllocationResult struct {
	OrderID string       `json:"order_id" example:"ord-1001"`
	Status  OrderStatus  `json:"status" example:"allocated"`
	Items   []ItemResult `json:"items"`
} // @name AllocationResult

// SumConsumed returns Σ consumed space of the active allocations in allocs.
func SumConsumed(allocs []Allocation) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range allocs {
		if a.Active {
			sum = sum.Add(a.ConsumedSpace)
		}
	}
	return sum
}
