package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"delivery-ops/internal/models"
)

const orderIDPrefix = "ORD-"

// FormatOrderID renders a sequence number as an order id, e.g. ORD-004.
func FormatOrderID(seq int) string {
	return fmt.Sprintf("%s%03d", orderIDPrefix, seq)
}

// parseOrderSeq extracts the numeric suffix of an order id.
func parseOrderSeq(id string) (int, bool) {
	if !strings.HasPrefix(id, orderIDPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, orderIDPrefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// nextSeqAfter returns one past the highest sequence used by orders.
func nextSeqAfter(orders []models.Order) int {
	highest := 0
	for _, o := range orders {
		if n, ok := parseOrderSeq(o.ID); ok && n > highest {
			highest = n
		}
	}
	return highest + 1
}

// Login replaces the session with a freshly created user.
func Login(s State, id, name string, role models.UserRole) (State, error) {
	if !role.IsValid() {
		return s, models.ErrInvalidRole
	}
	s.Session = &models.User{ID: id, Name: name, Role: role}
	return s, nil
}

// Logout clears the session.
func Logout(s State) State {
	s.Session = nil
	return s
}

// AddOrder appends a new RECEIVED order. The id comes from the monotonic
// sequence, never from the list length.
func AddOrder(s State, draft models.OrderDraft, actor string, now time.Time, eta time.Duration) (State, models.Order) {
	seq := s.NextOrderSeq
	if floor := nextSeqAfter(s.Orders); seq < floor {
		seq = floor
	}
	priority := draft.Priority
	if !priority.IsValid() {
		priority = models.PriorityNormal
	}
	estimated := now.Add(eta)
	order := models.Order{
		ID:                FormatOrderID(seq),
		CustomerName:      draft.CustomerName,
		Phone:             draft.Phone,
		Address:           draft.Address,
		Notes:             draft.Notes,
		Dishes:            append([]string{}, draft.Dishes...),
		Price:             draft.Price,
		Status:            models.StatusReceived,
		Priority:          priority,
		CreatedAt:         now,
		UpdatedAt:         now,
		EstimatedDelivery: &estimated,
		History:           []models.StatusChange{{Status: models.StatusReceived, At: now, By: actor}},
	}

	orders := make([]models.Order, 0, len(s.Orders)+1)
	orders = append(orders, s.Orders...)
	s.Orders = append(orders, order)
	s.NextOrderSeq = seq + 1
	return s, order.Clone()
}

// UpdateOrderStatus replaces the status of orderID and, when courierName is
// set, stamps it on the order. An unknown id leaves the state unchanged.
func UpdateOrderStatus(s State, orderID string, status models.OrderStatus, courierName, actor string, now time.Time, policy Policy) (State, Change, error) {
	if !status.IsValid() {
		return s, Change{}, models.ErrInvalidStatus
	}
	idx := indexOfOrder(s.Orders, orderID)
	if idx < 0 {
		return s, Change{}, models.ErrOrderNotFound
	}
	from := s.Orders[idx].Status
	if policy == PolicyStrict && !models.CanTransition(from, status) {
		return s, Change{}, fmt.Errorf("%w: %s -> %s", models.ErrIllegalTransition, from, status)
	}

	order := s.Orders[idx].Clone()
	order.Status = status
	order.UpdatedAt = now
	order.History = append(order.History, models.StatusChange{Status: status, At: now, By: actor})
	if courierName != "" {
		order.AssignedCourier = courierName
		order.AssignedCourierID = courierIDByName(s.Couriers, courierName)
	}

	s.Orders = replaceOrder(s.Orders, idx, order)
	return s, Change{
		Kind:      ChangeStatusUpdated,
		OrderID:   orderID,
		From:      from,
		To:        status,
		CourierID: order.AssignedCourierID,
		Actor:     actor,
	}, nil
}

// AssignCourier moves orderID to ASSIGNED under courierID and records the
// order on the courier. The courier's active flag is not checked. If either
// side is missing nothing changes.
func AssignCourier(s State, orderID, courierID, actor string, now time.Time, policy Policy) (State, Change, error) {
	cidx := indexOfCourier(s.Couriers, courierID)
	if cidx < 0 {
		return s, Change{}, models.ErrCourierNotFound
	}
	oidx := indexOfOrder(s.Orders, orderID)
	if oidx < 0 {
		return s, Change{}, models.ErrOrderNotFound
	}
	from := s.Orders[oidx].Status
	if policy == PolicyStrict && !models.CanTransition(from, models.StatusAssigned) {
		return s, Change{}, fmt.Errorf("%w: %s -> %s", models.ErrIllegalTransition, from, models.StatusAssigned)
	}

	courier := s.Couriers[cidx].Clone()
	order := s.Orders[oidx].Clone()
	order.Status = models.StatusAssigned
	order.AssignedCourier = courier.Name
	order.AssignedCourierID = courier.ID
	order.UpdatedAt = now
	order.History = append(order.History, models.StatusChange{Status: models.StatusAssigned, At: now, By: actor})

	if !courier.HasOrder(orderID) {
		courier.CurrentOrders = append(courier.CurrentOrders, orderID)
	}

	s.Orders = replaceOrder(s.Orders, oidx, order)
	couriers := append([]models.Courier(nil), s.Couriers...)
	couriers[cidx] = courier
	s.Couriers = couriers
	return s, Change{
		Kind:      ChangeCourierAssign,
		OrderID:   orderID,
		From:      from,
		To:        models.StatusAssigned,
		CourierID: courierID,
		Actor:     actor,
	}, nil
}

// ToggleLanguage flips the UI language.
func ToggleLanguage(s State) State {
	s.Language = s.Language.Toggle()
	return s
}

func indexOfOrder(orders []models.Order, id string) int {
	for i := range orders {
		if orders[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfCourier(couriers []models.Courier, id string) int {
	for i := range couriers {
		if couriers[i].ID == id {
			return i
		}
	}
	return -1
}

// courierIDByName resolves a name to an id only when exactly one courier has it.
func courierIDByName(couriers []models.Courier, name string) string {
	id := ""
	for _, c := range couriers {
		if c.Name != name {
			continue
		}
		if id != "" {
			return ""
		}
		id = c.ID
	}
	return id
}

func replaceOrder(orders []models.Order, idx int, order models.Order) []models.Order {
	out := append([]models.Order(nil), orders...)
	out[idx] = order
	return out
}
