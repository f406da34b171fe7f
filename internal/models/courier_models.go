package models

// Courier represents a delivery staff member on the fixed roster.
type Courier struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
	// CurrentOrders only grows: ids are appended on assignment and kept after delivery.
	CurrentOrders []string `json:"current_orders"`
}

// Clone returns a deep copy of the courier.
func (c Courier) Clone() Courier {
	cp := c
	cp.CurrentOrders = append([]string{}, c.CurrentOrders...)
	return cp
}

// HasOrder reports whether orderID was ever assigned to the courier.
func (c Courier) HasOrder(orderID string) bool {
	for _, id := range c.CurrentOrders {
		if id == orderID {
			return true
		}
	}
	return false
}

// AssignCourierRequest assigns a packed order to a courier by id.
type AssignCourierRequest struct {
	CourierID string `json:"courier_id" validate:"required"`
}
