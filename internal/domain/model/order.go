package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the aggregate allocation state of an order.
type OrderStatus string

const (
	OrderPending            OrderStatus = "pending"
	OrderAllocated          OrderStatus = "allocated"
	OrderPartiallyAllocated OrderStatus = "partially_allocated"
	OrderUnschedulable      OrderStatus = "unschedulable"
	OrderCancelled          OrderStatus = "cancelled"
)

// ItemStatus is the allocation state of a single order item.
type ItemStatus string

const (
	ItemPending       ItemStatus = "pending"
	ItemAllocated     ItemStatus = "allocated"
	ItemUnschedulable ItemStatus = "unschedulable"
	ItemEvicted       ItemStatus = "evicted"
)

// OrderItem is a quantity of one product within an order.
//
// @Description Order line with product and quantity
type OrderItem struct {
	ID        string          `json:"id" example:"item-1"`
	ProductID string          `json:"product_id" example:"choc-bar-200g"`
	Quantity  int             `json:"quantity" example:"40"`
	UnitPrice decimal.Decimal `json:"unit_price" swaggertype:"string" example:"3.50"`
	Status    ItemStatus      `json:"status" example:"pending"`
} // @name OrderItem

// RequiredSpace returns quantity × the product's space consumption.
func (i OrderItem) RequiredSpace(p Product) decimal.Decimal {
	return p.SpaceConsumption.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a customer request delivered via a train route to the hub and a truck route from it.
//
// @Description Customer order routed origin→hub by train and hub→destination by truck
type Order struct {
	ID           string      `json:"id" example:"ord-1001"`
	CustomerID   string      `json:"customer_id" example:"cust-9"`
	TrainRouteID string      `json:"train_route_id" example:"colombo-kandy"`
	TruckRouteID string      `json:"truck_route_id" example:"kandy-peradeniya"`
	Items        []OrderItem `json:"items"`
	Status       OrderStatus `json:"status" example:"pending"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Version      int         `json:"version" example:"1"`
} // @name Order

// Validate checks order and item invariants.
func (o Order) Validate() error {
	if o.ID == "" {
		return Invalid("id", "must not be empty")
	}
	if o.CustomerID == "" {
		return Invalid("customer_id", "must not be empty")
	}
	if o.TrainRouteID == "" {
		return Invalid("train_route_id", "must not be empty")
	}
	if o.TruckRouteID == "" {
		return Invalid("truck_route_id", "must not be empty")
	}
	if len(o.Items) == 0 {
		return Invalid("items", "must contain at least one item")
	}
	seen := make(map[string]struct{}, len(o.Items))
	for _, item := range o.Items {
		if item.ID == "" {
			return Invalid("items.id", "must not be empty")
		}
		if _, dup := seen[item.ID]; dup {
			return Invalid("items.id", "duplicate item id "+item.ID)
		}
		seen[item.ID] = struct{}{}
		if item.ProductID == "" {
			return Invalid("items.product_id", "must not be empty")
		}
		if item.Quantity < 1 {
			return Invalid("items.quantity", "must be at least 1")
		}
		if item.UnitPrice.IsNegative() {
			return Invalid("items.unit_price", "must not be negative")
		}
	}
	return nil
}

// Item returns a pointer to the item with the given id, or nil.
func (o *Order) Item(id string) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i]
		}
	}
	return nil
}

// Cancelled reports whether the order has been cancelled.
func (o Order) Cancelled() bool {
	return o.Status == OrderCancelled
}

// Total returns Σ quantity × unit price.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Summarize derives the order status from its item statuses.
func (o Order) Summarize() OrderStatus {
	if o.Cancelled() {
		return OrderCancelled
	}
	allocated, unschedulable := 0, 0
	for _, item := range o.Items {
		switch item.Status {
		case ItemAllocated:
			allocated++
		case ItemUnschedulable:
			unschedulable++
		}
	}
	switch {
	case allocated == len(o.Items):
		return OrderAllocated
	case allocated > 0:
		return OrderPartiallyAllocated
	case unschedulable > 0:
		return OrderUnschedulable
	default:
		return OrderPending
	}
}
