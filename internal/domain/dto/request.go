// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
// Field-level rules live on the domain types so the HTTP API and the
// engine report identical VALIDATION_ERROR messages.
package dto

import (
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/shopspring/decimal"
)

// SubmitOrderRequest is the JSON body of POST /api/orders.
//
// @Description Order intake request. Each item must fit on one train trip and one truck trip.
type SubmitOrderRequest struct {
	ID           string             `json:"id" example:"ord-1001"`
	CustomerID   string             `json:"customer_id" example:"cust-9"`
	TrainRouteID string             `json:"train_route_id" example:"colombo-kandy"`
	TruckRouteID string             `json:"truck_route_id" example:"kandy-peradeniya"`
	Items        []OrderItemRequest `json:"items"`
} // @name SubmitOrderRequest

// OrderItemRequest is one line of a SubmitOrderRequest.
type OrderItemRequest struct {
	ID        string          `json:"id" example:"item-1"`
	ProductID string          `json:"product_id" example:"choc-bar-200g"`
	Quantity  int             `json:"quantity" example:"40"`
	UnitPrice decimal.Decimal `json:"unit_price" swaggertype:"string" example:"3.50"`
} // @name OrderItemRequest

// ToModel converts the request into a pending order.
func (r SubmitOrderRequest) ToModel() model.Order {
	items := make([]model.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, model.OrderItem{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Status:    model.ItemPending,
		})
	}
	return model.Order{
		ID:           r.ID,
		CustomerID:   r.CustomerID,
		TrainRouteID: r.TrainRouteID,
		TruckRouteID: r.TruckRouteID,
		Items:        items,
		Status:       model.OrderPending,
	}
}

// ProductRequest is the JSON body of PUT /api/products/:id.
type ProductRequest struct {
	Name              string          `json:"name" example:"Chocolate bar 200g"`
	SpaceConsumption  decimal.Decimal `json:"space_consumption" swaggertype:"string" example:"0.25"`
	Price             decimal.Decimal `json:"price" swaggertype:"string" example:"3.50"`
	AvailableQuantity int             `json:"available_quantity" example:"1200"`
} // @name ProductRequest

// ToModel converts the request into a product with the given id.
func (r ProductRequest) ToModel(id string) model.Product {
	return model.Product{
		ID:                id,
		Name:              r.Name,
		SpaceConsumption:  r.SpaceConsumption,
		Price:             r.Price,
		AvailableQuantity: r.AvailableQuantity,
	}
}

// TransportUnitRequest is the JSON body of PUT /api/transport-units/:id.
type TransportUnitRequest struct {
	Kind     model.Leg       `json:"kind" example:"truck"`
	Capacity decimal.Decimal `json:"capacity" swaggertype:"string" example:"100"`
	Plate    string          `json:"plate,omitempty" example:"CAB-1234"`
} // @name TransportUnitRequest

// ToModel converts the request into a transport unit with the given id.
func (r TransportUnitRequest) ToModel(id string) model.TransportUnit {
	return model.TransportUnit{
		ID:       id,
		Kind:     r.Kind,
		Capacity: r.Capacity,
		Plate:    r.Plate,
	}
}

// CapacityRequest is the JSON body of PUT /api/transport-units/:id/capacity.
type CapacityRequest struct {
	Capacity *decimal.Decimal `json:"capacity" swaggertype:"string" example:"80"`
} // @name CapacityRequest

// Validate rejects negative capacities. Zero takes the unit out of service.
func (r *CapacityRequest) Validate() error {
	if r.Capacity == nil {
		return model.Invalid("capacity", "is required")
	}
	if r.Capacity.IsNegative() {
		return model.Invalid("capacity", "must not be negative")
	}
	return nil
}

// ScheduleRequest is the JSON body of PUT /api/schedules/:id.
type ScheduleRequest struct {
	RouteID          string    `json:"route_id" example:"colombo-kandy"`
	Leg              model.Leg `json:"leg" example:"train"`
	TransportUnitID  string    `json:"transport_unit_id" example:"train-3"`
	DepartureTime    string    `json:"departure_time" example:"08:00"`
	FrequencyMinutes int       `json:"frequency_minutes" example:"60"`
	DurationMinutes  int       `json:"duration_minutes" example:"180"`
	OperatingDays    []string  `json:"operating_days" example:"mon,wed"`
} // @name ScheduleRequest

// ToModel converts the request into a route schedule with the given id.
// Day names are normalised; unknown names are kept so validation can report them.
func (r ScheduleRequest) ToModel(id string) model.RouteSchedule {
	days := make([]model.Weekday, 0, len(r.OperatingDays))
	for _, d := range r.OperatingDays {
		if wd, ok := model.ParseWeekday(d); ok {
			days = append(days, wd)
			continue
		}
		days = append(days, model.Weekday(d))
	}
	return model.RouteSchedule{
		ID:               id,
		RouteID:          r.RouteID,
		Leg:              r.Leg,
		TransportUnitID:  r.TransportUnitID,
		DepartureTime:    r.DepartureTime,
		FrequencyMinutes: r.FrequencyMinutes,
		DurationMinutes:  r.DurationMinutes,
		OperatingDays:    days,
	}
}

// StaffRequest is the JSON body of PUT /api/staff/:id.
type StaffRequest struct {
	Name         string          `json:"name" example:"Nimal Perera"`
	Role         model.StaffRole `json:"role" example:"driver"`
	DailyMinutes int             `json:"daily_minutes" example:"480"`
	Available    *bool           `json:"available,omitempty" example:"true"`
} // @name StaffRequest

// ToModel converts the request into a staff member. Staff are available unless stated.
func (r StaffRequest) ToModel(id string) model.Staff {
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	return model.Staff{
		ID:           id,
		Name:         r.Name,
		Role:         r.Role,
		DailyMinutes: r.DailyMinutes,
		Available:    available,
	}
}

// StaffUnavailableRequest is the JSON body of POST /api/staff/:id/unavailable.
type StaffUnavailableRequest struct {
	// From is the first instant the staff member is off duty. Defaults to now.
	From *time.Time `json:"from,omitempty" example:"2026-01-05T12:00:00Z"`
} // @name StaffUnavailableRequest

// FromOr returns From, or now when unset.
func (r StaffUnavailableRequest) FromOr(now time.Time) time.Time {
	if r.From == nil {
		return now
	}
	return *r.From
}

// JobAccepted acknowledges a reconciliation job that will run in the background.
type JobAccepted struct {
	Job     string `json:"job" example:"capacity_changed"`
	Subject string `json:"subject" example:"truck-07"`
} // @name JobAccepted

// TransportUnitSaved reports the stored unit and whether a capacity change was queued.
type TransportUnitSaved struct {
	Unit            model.TransportUnit `json:"unit"`
	CapacityChanged bool                `json:"capacity_changed"`
} // @name TransportUnitSaved

// AuditQueryRequest holds the query string of GET /api/audit.
type AuditQueryRequest struct {
	Action     string     `form:"action" example:"order.submit"`
	OperatorID string     `form:"operator_id" example:"dispatcher-1"`
	RequestID  string     `form:"request_id"`
	Outcome    string     `form:"outcome" binding:"omitempty,oneof=success failure" example:"failure"`
	Since      *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Until      *time.Time `form:"until" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit      int        `form:"limit" binding:"omitempty,min=1,max=500" example:"50"`
	Skip       int        `form:"skip" binding:"min=0" example:"0"`
}

// ToModel converts the request into an audit query.
func (r AuditQueryRequest) ToModel() model.AuditQuery {
	return model.AuditQuery{
		Action:     r.Action,
		OperatorID: r.OperatorID,
		RequestID:  r.RequestID,
		Outcome:    r.Outcome,
		Since:      r.Since,
		Until:      r.Until,
		Limit:      r.Limit,
		Skip:       r.Skip,
	}
}

// AuditPage is one page of the audit trail, newest first.
type AuditPage struct {
	Entries []model.AuditEntry `json:"entries"`
	Total   int64              `json:"total" example:"120"`
	Limit   int                `json:"limit" example:"50"`
	Skip    int                `json:"skip" example:"0"`
} // @name AuditPage
