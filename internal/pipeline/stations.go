// Package pipeline declares the work stations and the forward moves each one
// offers. The store itself only consults models.StatusFlow under the strict
// policy; stations are where the flow is actually followed.
package pipeline

import (
	"fmt"

	"delivery-ops/internal/models"
)

// StationName identifies a work station.
type StationName string

const (
	Kitchen   StationName = "kitchen"
	Packaging StationName = "packaging"
	Delivery  StationName = "delivery"
	Courier   StationName = "courier"
)

// Station is one board: the statuses it shows as columns and the moves its
// order cards offer.
type Station struct {
	Name    StationName
	Columns []models.OrderStatus
	// Moves maps a current status to the single status the card button sets.
	Moves map[models.OrderStatus]models.OrderStatus
	// Assigns marks boards where PACKED orders are handed to a courier.
	Assigns bool
}

var stations = map[StationName]Station{
	Kitchen: {
		Name:    Kitchen,
		Columns: []models.OrderStatus{models.StatusReceived, models.StatusInPrep},
		Moves: map[models.OrderStatus]models.OrderStatus{
			models.StatusReceived: models.StatusInPrep,
			models.StatusInPrep:   models.StatusReadyForPack,
		},
	},
	Packaging: {
		Name:    Packaging,
		Columns: []models.OrderStatus{models.StatusReadyForPack, models.StatusPacking},
		Moves: map[models.OrderStatus]models.OrderStatus{
			models.StatusReadyForPack: models.StatusPacking,
			models.StatusPacking:      models.StatusPacked,
		},
	},
	Delivery: {
		Name:    Delivery,
		Columns: []models.OrderStatus{models.StatusPacked, models.StatusAssigned, models.StatusOnTheWay},
		Moves: map[models.OrderStatus]models.OrderStatus{
			models.StatusAssigned: models.StatusOnTheWay,
			models.StatusOnTheWay: models.StatusDelivered,
		},
		Assigns: true,
	},
	Courier: {
		Name:    Courier,
		Columns: []models.OrderStatus{models.StatusAssigned, models.StatusOnTheWay, models.StatusDelivered},
		Moves: map[models.OrderStatus]models.OrderStatus{
			models.StatusAssigned: models.StatusOnTheWay,
			models.StatusOnTheWay: models.StatusDelivered,
		},
	},
}

// Lookup returns the station called name.
func Lookup(name string) (Station, error) {
	st, ok := stations[StationName(name)]
	if !ok {
		return Station{}, fmt.Errorf("%w: %q", models.ErrUnknownStation, name)
	}
	return st, nil
}

// Boards lists the stations reachable under /stations, in pipeline order.
func Boards() []Station {
	return []Station{stations[Kitchen], stations[Packaging], stations[Delivery]}
}

// Offered returns the actions a card in status from shows at this station.
func (s Station) Offered(from models.OrderStatus) []models.OrderStatus {
	if to, ok := s.Moves[from]; ok {
		return []models.OrderStatus{to}
	}
	return nil
}

// Check returns ErrActionNotOffered unless the station offers from -> to.
func (s Station) Check(from, to models.OrderStatus) error {
	if want, ok := s.Moves[from]; ok && want == to {
		return nil
	}
	return fmt.Errorf("%w: %s cannot move %s to %s", models.ErrActionNotOffered, s.Name, from, to)
}

// Shows reports whether orders in status appear on this board.
func (s Station) Shows(status models.OrderStatus) bool {
	for _, c := range s.Columns {
		if c == status {
			return true
		}
	}
	return false
}
