package station

import (
	"context"
	"fmt"
	"time"

	"delivery-ops/internal/models"
	"delivery-ops/internal/pipeline"
	"delivery-ops/internal/store"
	"delivery-ops/internal/view"
)

// StoreInterface is the part of the store a station needs.
type StoreInterface interface {
	Snapshot() store.State
	Now() time.Time
	AdvanceOrder(orderID string, status models.OrderStatus, check func(models.Order) error) (models.Order, error)
}

// ServiceInterface defines the contract for the station boards.
type ServiceInterface interface {
	Board(ctx context.Context, station string) (*Board, error)
	Advance(ctx context.Context, station, orderID string, to models.OrderStatus) (*view.Card, error)
}

// Column is one status lane of a board.
type Column struct {
	Status models.OrderStatus `json:"status"`
	Label  string             `json:"label"`
	Count  int                `json:"count"`
	Cards  []view.Card        `json:"cards"`
}

// Board is a station page: its lanes and the number of orders it holds.
type Board struct {
	Station pipeline.StationName `json:"station"`
	Columns []Column             `json:"columns"`
	Total   int                  `json:"total"`
}

type Service struct {
	st           StoreInterface
	atRiskWindow time.Duration
}

func NewService(st StoreInterface, atRiskWindow time.Duration) *Service {
	return &Service{st: st, atRiskWindow: atRiskWindow}
}

func (s *Service) Board(ctx context.Context, name string) (*Board, error) {
	station, err := pipeline.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("service.Board: %w", err)
	}
	snap := s.st.Snapshot()
	return BuildBoard(station, snap.Orders, view.NewRenderer(snap.Language, s.st.Now(), s.atRiskWindow)), nil
}

// BuildBoard lays orders out in the station's columns.
func BuildBoard(station pipeline.Station, orders []models.Order, r view.Renderer) *Board {
	board := &Board{Station: station.Name, Columns: make([]Column, 0, len(station.Columns))}
	for _, status := range station.Columns {
		lane := store.Filter(orders, func(o models.Order) bool { return o.Status == status })
		board.Columns = append(board.Columns, Column{
			Status: status,
			Label:  models.StatusLabels[status].In(r.Lang),
			Count:  len(lane),
			Cards:  r.StationCards(station, lane),
		})
		board.Total += len(lane)
	}
	return board
}

// Advance applies a card button: the move must be one the station offers for
// the order's current status.
func (s *Service) Advance(ctx context.Context, name, orderID string, to models.OrderStatus) (*view.Card, error) {
	station, err := pipeline.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("service.Advance: %w", err)
	}
	order, err := s.st.AdvanceOrder(orderID, to, func(current models.Order) error {
		return station.Check(current.Status, to)
	})
	if err != nil {
		return nil, fmt.Errorf("service.Advance: %w", err)
	}
	snap := s.st.Snapshot()
	card := view.NewRenderer(snap.Language, s.st.Now(), s.atRiskWindow).Card(order, station.Offered(order.Status))
	return &card, nil
}
