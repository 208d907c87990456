package model

import (
	"github.com/shopspring/decimal"
)

// Leg identifies a delivery tier.
type Leg string

const (
	// LegTrain is the rail trunk haul from origin to hub.
	LegTrain Leg = "train"
	// LegTruck is the last-mile truck leg from hub to destination.
	LegTruck Leg = "truck"
)

// Valid reports whether l is a known leg.
func (l Leg) Valid() bool {
	return l == LegTrain || l == LegTruck
}

// Product is a catalog entry. Space consumption is per unit ordered.
//
// @Description Catalog product with per-unit space consumption
type Product struct {
	ID                string          `json:"id" example:"choc-bar-200g"`
	Name              string          `json:"name" example:"Chocolate bar 200g"`
	SpaceConsumption  decimal.Decimal `json:"space_consumption" swaggertype:"string" example:"0.25"`
	Price             decimal.Decimal `json:"price" swaggertype:"string" example:"3.50"`
	AvailableQuantity int             `json:"available_quantity" example:"1200"`
} // @name Product

// Validate checks product field invariants.
func (p Product) Validate() error {
	if p.ID == "" {
		return Invalid("id", "must not be empty")
	}
	if !p.SpaceConsumption.IsPositive() {
		return Invalid("space_consumption", "must be greater than zero")
	}
	if p.Price.IsNegative() {
		return Invalid("price", "must not be negative")
	}
	if p.AvailableQuantity < 0 {
		return Invalid("available_quantity", "must not be negative")
	}
	return nil
}

// TransportUnit is a train or truck with a fixed space capacity.
//
// @Description Train or truck with its space capacity
type TransportUnit struct {
	ID       string          `json:"id" example:"truck-07"`
	Kind     Leg             `json:"kind" example:"truck"`
	Capacity decimal.Decimal `json:"capacity" swaggertype:"string" example:"100"`
	Plate    string          `json:"plate,omitempty" example:"CAB-1234"`
} // @name TransportUnit

// Validate checks transport unit field invariants.
func (u TransportUnit) Validate() error {
	if u.ID == "" {
		return Invalid("id", "must not be empty")
	}
	if !u.Kind.Valid() {
		return Invalid("kind", "must be train or truck")
	}
	if !u.Capacity.IsPositive() {
		return Invalid("capacity", "must be greater than zero")
	}
	if u.Kind == LegTruck && u.Plate == "" {
		return Invalid("plate", "is required for trucks")
	}
	return nil
}
