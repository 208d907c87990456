package repository

import (
	"fmt"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Decimal values are stored as strings to keep them exact.

type productDocument struct {
	ID                string `bson:"_id"`
	Name              string `bson:"name"`
	SpaceConsumption  string `bson:"space_consumption"`
	Price             string `bson:"price"`
	AvailableQuantity int    `bson:"available_quantity"`
}

type transportUnitDocument struct {
	ID       string `bson:"_id"`
	Kind     string `bson:"kind"`
	Capacity string `bson:"capacity"`
	Plate    string `bson:"plate,omitempty"`
}

type scheduleDocument struct {
	ID               string    `bson:"_id"`
	RouteID          string    `bson:"route_id"`
	Leg              string    `bson:"leg"`
	TransportUnitID  string    `bson:"transport_unit_id"`
	DepartureTime    string    `bson:"departure_time"`
	FrequencyMinutes int       `bson:"frequency_minutes"`
	DurationMinutes  int       `bson:"duration_minutes"`
	OperatingDays    []string  `bson:"operating_days"`
	Version          int       `bson:"version"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

type tripDocument struct {
	ID              string    `bson:"_id"`
	ScheduleID      string    `bson:"schedule_id"`
	ScheduleVersion int       `bson:"schedule_version"`
	TransportUnitID string    `bson:"transport_unit_id"`
	RouteID         string    `bson:"route_id"`
	Leg             string    `bson:"leg"`
	DepartAt        time.Time `bson:"depart_at"`
	ArriveAt        time.Time `bson:"arrive_at"`
	Status          string    `bson:"status"`
}

type orderItemDocument struct {
	ID        string `bson:"id"`
	ProductID string `bson:"product_id"`
	Quantity  int    `bson:"quantity"`
	UnitPrice string `bson:"unit_price"`
	Status    string `bson:"status"`
}

type orderDocument struct {
	ID           string              `bson:"_id"`
	CustomerID   string              `bson:"customer_id"`
	TrainRouteID string              `bson:"train_route_id"`
	TruckRouteID string              `bson:"truck_route_id"`
	Items        []orderItemDocument `bson:"items"`
	Status       string              `bson:"status"`
	CreatedAt    time.Time           `bson:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at"`
	Version      int                 `bson:"version"`
}

type allocationDocument struct {
	ID             string     `bson:"_id"`
	OrderID        string     `bson:"order_id"`
	OrderItemID    string     `bson:"order_item_id"`
	TripInstanceID string     `bson:"trip_instance_id"`
	Leg            string     `bson:"leg"`
	ConsumedSpace  string     `bson:"consumed_space"`
	CreatedAt      time.Time  `bson:"created_at"`
	Active         bool       `bson:"active"`
	ReleasedAt     *time.Time `bson:"released_at,omitempty"`
}

type staffDocument struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	Role         string `bson:"role"`
	DailyMinutes int    `bson:"daily_minutes"`
	Available    bool   `bson:"available"`
}

type assignmentDocument struct {
	TripInstanceID string    `bson:"_id"`
	DriverID       string    `bson:"driver_id"`
	AssistantID    string    `bson:"assistant_id,omitempty"`
	Date           string    `bson:"date"`
	StartsAt       time.Time `bson:"starts_at"`
	EndsAt         time.Time `bson:"ends_at"`
	CreatedAt      time.Time `bson:"created_at"`
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode %s %q: %w", field, s, err)
	}
	return d, nil
}

func productToDocument(p model.Product) productDocument {
	return productDocument{
		ID:                p.ID,
		Name:              p.Name,
		SpaceConsumption:  p.SpaceConsumption.String(),
		Price:             p.Price.String(),
		AvailableQuantity: p.AvailableQuantity,
	}
}

func documentToProduct(d productDocument) (*model.Product, error) {
	space, err := parseDecimal("space_consumption", d.SpaceConsumption)
	if err != nil {
		return nil, err
	}
	price, err := parseDecimal("price", d.Price)
	if err != nil {
		return nil, err
	}
	return &model.Product{
		ID:                d.ID,
		Name:              d.Name,
		SpaceConsumption:  space,
		Price:             price,
		AvailableQuantity: d.AvailableQuantity,
	}, nil
}

func unitToDocument(u model.TransportUnit) transportUnitDocument {
	return transportUnitDocument{ID: u.ID, Kind: string(u.Kind), Capacity: u.Capacity.String(), Plate: u.Plate}
}

func documentToUnit(d transportUnitDocument) (*model.TransportUnit, error) {
	capacity, err := parseDecimal("capacity", d.Capacity)
	if err != nil {
		return nil, err
	}
	return &model.TransportUnit{ID: d.ID, Kind: model.Leg(d.Kind), Capacity: capacity, Plate: d.Plate}, nil
}

func scheduleToDocument(s model.RouteSchedule) scheduleDocument {
	days := make([]string, len(s.OperatingDays))
	for i, d := range s.OperatingDays {
		days[i] = string(d)
	}
	return scheduleDocument{
		ID:               s.ID,
		RouteID:          s.RouteID,
		Leg:              string(s.Leg),
		TransportUnitID:  s.TransportUnitID,
		DepartureTime:    s.DepartureTime,
		FrequencyMinutes: s.FrequencyMinutes,
		DurationMinutes:  s.DurationMinutes,
		OperatingDays:    days,
		Version:          s.Version,
		UpdatedAt:        s.UpdatedAt,
	}
}

func documentToSchedule(d scheduleDocument) model.RouteSchedule {
	days := make([]model.Weekday, len(d.OperatingDays))
	for i, s := range d.OperatingDays {
		days[i] = model.Weekday(s)
	}
	return model.RouteSchedule{
		ID:               d.ID,
		RouteID:          d.RouteID,
		Leg:              model.Leg(d.Leg),
		TransportUnitID:  d.TransportUnitID,
		DepartureTime:    d.DepartureTime,
		FrequencyMinutes: d.FrequencyMinutes,
		DurationMinutes:  d.DurationMinutes,
		OperatingDays:    days,
		Version:          d.Version,
		UpdatedAt:        d.UpdatedAt,
	}
}

func tripToDocument(t model.TripInstance) tripDocument {
	return tripDocument{
		ID:              t.ID,
		ScheduleID:      t.ScheduleID,
		ScheduleVersion: t.ScheduleVersion,
		TransportUnitID: t.TransportUnitID,
		RouteID:         t.RouteID,
		Leg:             string(t.Leg),
		DepartAt:        t.DepartAt,
		ArriveAt:        t.ArriveAt,
		Status:          string(t.Status),
	}
}

func documentToTrip(d tripDocument) model.TripInstance {
	return model.TripInstance{
		ID:              d.ID,
		ScheduleID:      d.ScheduleID,
		ScheduleVersion: d.ScheduleVersion,
		TransportUnitID: d.TransportUnitID,
		RouteID:         d.RouteID,
		Leg:             model.Leg(d.Leg),
		DepartAt:        d.DepartAt,
		ArriveAt:        d.ArriveAt,
		Status:          model.TripStatus(d.Status),
	}
}

func orderToDocument(o model.Order) orderDocument {
	items := make([]orderItemDocument, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemDocument{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.String(),
			Status:    string(it.Status),
		}
	}
	return orderDocument{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		TrainRouteID: o.TrainRouteID,
		TruckRouteID: o.TruckRouteID,
		Items:        items,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Version:      o.Version,
	}
}

func documentToOrder(d orderDocument) (*model.Order, error) {
	items := make([]model.OrderItem, len(d.Items))
	for i, it := range d.Items {
		price, err := parseDecimal("unit_price", it.UnitPrice)
		if err != nil {
			return nil, err
		}
		items[i] = model.OrderItem{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: price,
			Status:    model.ItemStatus(it.Status),
		}
	}
	return &model.Order{
		ID:           d.ID,
		CustomerID:   d.CustomerID,
		TrainRouteID: d.TrainRouteID,
		TruckRouteID: d.TruckRouteID,
		Items:        items,
		Status:       model.OrderStatus(d.Status),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		Version:      d.Version,
	}, nil
}

func allocationToDocument(a model.Allocation) allocationDocument {
	return allocationDocument{
		ID:             a.ID,
		OrderID:        a.OrderID,
		OrderItemID:    a.OrderItemID,
		TripInstanceID: a.TripInstanceID,
		Leg:            string(a.Leg),
		ConsumedSpace:  a.ConsumedSpace.String(),
		CreatedAt:      a.CreatedAt,
		Active:         a.Active,
		ReleasedAt:     a.ReleasedAt,
	}
}

func documentToAllocation(d allocationDocument) (model.Allocation, error) {
	space, err := parseDecimal("consumed_space", d.ConsumedSpace)
	if err != nil {
		return model.Allocation{}, err
	}
	return model.Allocation{
		ID:             d.ID,
		OrderID:        d.OrderID,
		OrderItemID:    d.OrderItemID,
		TripInstanceID: d.TripInstanceID,
		Leg:            model.Leg(d.Leg),
		ConsumedSpace:  space,
		CreatedAt:      d.CreatedAt,
		Active:         d.Active,
		ReleasedAt:     d.ReleasedAt,
	}, nil
}

func staffToDocument(s model.Staff) staffDocument {
	return staffDocument{ID: s.ID, Name: s.Name, Role: string(s.Role), DailyMinutes: s.DailyMinutes, Available: s.Available}
}

func documentToStaff(d staffDocument) model.Staff {
	return model.Staff{ID: d.ID, Name: d.Name, Role: model.StaffRole(d.Role), DailyMinutes: d.DailyMinutes, Available: d.Available}
}

func assignmentToDocument(a model.PersonnelAssignment) assignmentDocument {
	return assignmentDocument{
		TripInstanceID: a.TripInstanceID,
		DriverID:       a.DriverID,
		AssistantID:    a.AssistantID,
		Date:           a.Date,
		StartsAt:       a.StartsAt,
		EndsAt:         a.EndsAt,
		CreatedAt:      a.CreatedAt,
	}
}

func documentToAssignment(d assignmentDocument) model.PersonnelAssignment {
	return model.PersonnelAssignment{
		TripInstanceID: d.TripInstanceID,
		DriverID:       d.DriverID,
		AssistantID:    d.AssistantID,
		Date:           d.Date,
		StartsAt:       d.StartsAt,
		EndsAt:         d.EndsAt,
		CreatedAt:      d.CreatedAt,
	}
}
