package models

import (
	"strings"
	"time"
)

// Order represents one customer purchase moving through fulfillment.
type Order struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customer_name"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	Notes        string      `json:"notes,omitempty"`
	Dishes       []string    `json:"dishes"`
	Price        float64     `json:"price"`
	Status       OrderStatus `json:"status"`
	Priority     Priority    `json:"priority"`
	// AssignedCourier is the courier's display name, kept for the dashboard.
	// AssignedCourierID is the reference used for lookups.
	AssignedCourier   string         `json:"assigned_courier,omitempty"`
	AssignedCourierID string         `json:"assigned_courier_id,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	EstimatedDelivery *time.Time     `json:"estimated_delivery,omitempty"`
	History           []StatusChange `json:"history,omitempty"`
}

// StatusChange is one entry of an order's status history.
type StatusChange struct {
	Status OrderStatus `json:"status"`
	At     time.Time   `json:"at"`
	By     string      `json:"by,omitempty"`
}

// OrderDraft holds the caller-supplied fields of a new order.
type OrderDraft struct {
	CustomerName string
	Phone        string
	Address      string
	Notes        string
	Dishes       []string
	Price        float64
	Priority     Priority
}

// Clone returns a deep copy so reducers never share slices between states.
func (o Order) Clone() Order {
	cp := o
	if o.Dishes != nil {
		cp.Dishes = append([]string(nil), o.Dishes...)
	}
	if o.History != nil {
		cp.History = append([]StatusChange(nil), o.History...)
	}
	if o.EstimatedDelivery != nil {
		eta := *o.EstimatedDelivery
		cp.EstimatedDelivery = &eta
	}
	return cp
}

// IsLate reports whether the estimated delivery has passed for an undelivered order.
func (o Order) IsLate(now time.Time) bool {
	return o.EstimatedDelivery != nil && o.Status != StatusDelivered && now.After(*o.EstimatedDelivery)
}

// IsAtRisk reports whether an undelivered order is within window of its estimated delivery.
func (o Order) IsAtRisk(now time.Time, window time.Duration) bool {
	return o.EstimatedDelivery != nil && o.Status != StatusDelivered &&
		now.After(o.EstimatedDelivery.Add(-window))
}

// DeliveredAt returns when the order last entered DELIVERED, from its history.
func (o Order) DeliveredAt() (time.Time, bool) {
	for i := len(o.History) - 1; i >= 0; i-- {
		if o.History[i].Status == StatusDelivered {
			return o.History[i].At, true
		}
	}
	return time.Time{}, false
}

// CreateOrderRequest is the order intake form. Dishes arrive as the
// comma-separated text typed by staff.
type CreateOrderRequest struct {
	CustomerName string   `json:"customer_name" validate:"required,notblank"`
	Phone        string   `json:"phone" validate:"required,notblank"`
	Address      string   `json:"address" validate:"required,notblank"`
	Dishes       string   `json:"dishes" validate:"required,notblank"`
	Price        *float64 `json:"price" validate:"required,gte=0"`
	Priority     Priority `json:"priority,omitempty" validate:"omitempty,oneof=LOW NORMAL URGENT"`
	Notes        string   `json:"notes,omitempty"`
}

// Draft trims the form values and splits the dish list.
func (r CreateOrderRequest) Draft() OrderDraft {
	priority := r.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	var price float64
	if r.Price != nil {
		price = *r.Price
	}
	return OrderDraft{
		CustomerName: strings.TrimSpace(r.CustomerName),
		Phone:        strings.TrimSpace(r.Phone),
		Address:      strings.TrimSpace(r.Address),
		Notes:        strings.TrimSpace(r.Notes),
		Dishes:       SplitDishes(r.Dishes),
		Price:        price,
		Priority:     priority,
	}
}

// SplitDishes splits comma-separated dish names, dropping empty entries.
func SplitDishes(s string) []string {
	parts := strings.Split(s, ",")
	dishes := make([]string, 0, len(parts))
	for _, p := range parts {
		if d := strings.TrimSpace(p); d != "" {
			dishes = append(dishes, d)
		}
	}
	return dishes
}

// UpdateStatusRequest sets an order's status, optionally stamping a courier name.
type UpdateStatusRequest struct {
	Status      OrderStatus `json:"status" validate:"required,oneof=RECEIVED IN_PREP READY_FOR_PACK PACKING PACKED ASSIGNED ON_THE_WAY DELIVERED"`
	CourierName string      `json:"courier_name,omitempty"`
}

// AdvanceRequest asks a station to move an order to the given status.
type AdvanceRequest struct {
	To OrderStatus `json:"to" validate:"required,oneof=RECEIVED IN_PREP READY_FOR_PACK PACKING PACKED ASSIGNED ON_THE_WAY DELIVERED"`
}
