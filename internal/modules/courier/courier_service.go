package courier

import (
	"context"
	"fmt"
	"time"

	"delivery-ops/internal/models"
	"delivery-ops/internal/modules/station"
	"delivery-ops/internal/pipeline"
	"delivery-ops/internal/store"
	"delivery-ops/internal/view"
)

// StoreInterface is the part of the store the courier page needs.
type StoreInterface interface {
	Snapshot() store.State
	Now() time.Time
	AdvanceOrder(orderID string, status models.OrderStatus, check func(models.Order) error) (models.Order, error)
}

type ServiceInterface interface {
	MyDeliveries(ctx context.Context, courierName string) (*station.Board, error)
	Advance(ctx context.Context, courierName, orderID string, to models.OrderStatus) (*view.Card, error)
}

// Service serves the signed-in courier's own orders. Orders are matched on
// the courier name stamped on them, exactly as typed at login.
type Service struct {
	st           StoreInterface
	atRiskWindow time.Duration
}

func NewService(st StoreInterface, atRiskWindow time.Duration) *Service {
	return &Service{st: st, atRiskWindow: atRiskWindow}
}

func (s *Service) MyDeliveries(ctx context.Context, courierName string) (*station.Board, error) {
	board, err := pipeline.Lookup(string(pipeline.Courier))
	if err != nil {
		return nil, fmt.Errorf("service.MyDeliveries: %w", err)
	}
	snap := s.st.Snapshot()
	mine := store.OrdersForCourier(snap, courierName)
	return station.BuildBoard(board, mine, view.NewRenderer(snap.Language, s.st.Now(), s.atRiskWindow)), nil
}

// Advance moves one of the courier's own orders along. Orders belonging to
// someone else are reported as not found.
func (s *Service) Advance(ctx context.Context, courierName, orderID string, to models.OrderStatus) (*view.Card, error) {
	board, err := pipeline.Lookup(string(pipeline.Courier))
	if err != nil {
		return nil, fmt.Errorf("service.Advance: %w", err)
	}
	order, err := s.st.AdvanceOrder(orderID, to, func(current models.Order) error {
		if current.AssignedCourier == "" || current.AssignedCourier != courierName {
			return models.ErrOrderNotFound
		}
		return board.Check(current.Status, to)
	})
	if err != nil {
		return nil, fmt.Errorf("service.Advance: %w", err)
	}
	card := view.NewRenderer(s.st.Snapshot().Language, s.st.Now(), s.atRiskWindow).Card(order, board.Offered(order.Status))
	return &card, nil
}
