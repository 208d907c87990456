package model

import (
	"github.com/shopspring/decimal"
)

// ReconcileReport summarizes one reconciliation pass over a trip instance.
//
// @Description Result of re-validating a trip's allocations against its capacity
type ReconcileReport struct {
	TripInstanceID string          `json:"trip_instance_id"`
	Capacity       decimal.Decimal `json:"capacity" swaggertype:"string" example:"10"`
	Consumed       decimal.Decimal `json:"consumed" swaggertype:"string" example:"9.5"`
	Remaining      decimal.Decimal `json:"remaining" swaggertype:"string" example:"0.5"`
	Evicted        []Allocation    `json:"evicted"`
} // @name ReconcileReport
