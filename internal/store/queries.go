package store

import (
	"sort"
	"strings"

	"delivery-ops/internal/models"
)

// OrdersByStatus returns the orders whose status is one of statuses, in list order.
func OrdersByStatus(s State, statuses ...models.OrderStatus) []models.Order {
	want := make(map[models.OrderStatus]struct{}, len(statuses))
	for _, st := range statuses {
		want[st] = struct{}{}
	}
	out := []models.Order{}
	for _, o := range s.Orders {
		if _, ok := want[o.Status]; ok {
			out = append(out, o.Clone())
		}
	}
	return out
}

// OrdersForCourier matches the denormalized courier name exactly (case-sensitive).
func OrdersForCourier(s State, courierName string) []models.Order {
	out := []models.Order{}
	for _, o := range s.Orders {
		if o.AssignedCourier != "" && o.AssignedCourier == courierName {
			out = append(out, o.Clone())
		}
	}
	return out
}

// OrdersForCourierID matches on the courier id reference.
func OrdersForCourierID(s State, courierID string) []models.Order {
	out := []models.Order{}
	for _, o := range s.Orders {
		if o.AssignedCourierID != "" && o.AssignedCourierID == courierID {
			out = append(out, o.Clone())
		}
	}
	return out
}

// FindOrder looks an order up by id.
func FindOrder(s State, id string) (models.Order, bool) {
	if i := indexOfOrder(s.Orders, id); i >= 0 {
		return s.Orders[i].Clone(), true
	}
	return models.Order{}, false
}

// FindCourier looks a courier up by id.
func FindCourier(s State, id string) (models.Courier, bool) {
	if i := indexOfCourier(s.Couriers, id); i >= 0 {
		return s.Couriers[i].Clone(), true
	}
	return models.Courier{}, false
}

// ActiveCouriers returns couriers with the active flag set.
func ActiveCouriers(s State) []models.Courier {
	out := []models.Courier{}
	for _, c := range s.Couriers {
		if c.IsActive {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Search keeps orders whose id, customer name, phone or address contains
// term, ignoring case. A blank term keeps everything.
func Search(orders []models.Order, term string) []models.Order {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := []models.Order{}
	for _, o := range orders {
		if needle == "" || matches(o, needle) {
			out = append(out, o)
		}
	}
	return out
}

func matches(o models.Order, needle string) bool {
	for _, field := range []string{o.ID, o.CustomerName, o.Phone, o.Address} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// RecentOrders returns up to n orders, newest first. The input is not reordered.
func RecentOrders(orders []models.Order, n int) []models.Order {
	sorted := append([]models.Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Filter keeps the orders accepted by keep.
func Filter(orders []models.Order, keep func(models.Order) bool) []models.Order {
	out := []models.Order{}
	for _, o := range orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// CountByStatus tallies orders per status; every status is present.
func CountByStatus(orders []models.Order) map[models.OrderStatus]int {
	counts := make(map[models.OrderStatus]int, len(models.AllStatuses))
	for _, st := range models.AllStatuses {
		counts[st] = 0
	}
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}
