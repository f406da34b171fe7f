package dispatch

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

// ServiceInterface exposes the delivery desk: the board, the roster and
// courier assignment.
type ServiceInterface interface {
	Board(ctx context.Context) (*Board, error)
	ListCouriers(ctx context.Context) ([]CourierSummary, error)
	CourierOrders(ctx context.Context, courierID string) ([]view.Card, error)
	AssignOrder(ctx context.Context, orderID, courierID string) (*view.Card, error)
}

// CourierSummary is a roster entry with its workload.
type CourierSummary struct {
	models.Courier
	// ActiveLoad counts assigned orders that are not yet delivered.
	ActiveLoad int `json:"active_load"`
	// TotalAssigned is len(CurrentOrders), which never shrinks.
	TotalAssigned int `json:"total_assigned"`
	Delivered     int `json:"delivered"`
}

// Board is the delivery page.
type Board struct {
	*station.Board
	Couriers []CourierSummary `json:"couriers"`
}

type service struct {
	repo         RepositoryInterface
	atRiskWindow time.Duration
}

func NewService(repo RepositoryInterface, atRiskWindow time.Duration) ServiceInterface {
	return &service{repo: repo, atRiskWindow: atRiskWindow}
}

func (s *service) Board(ctx context.Context) (*Board, error) {
	orders, lang, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.Board: %w", err)
	}
	couriers, err := s.repo.ListCouriers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.Board: %w", err)
	}
	delivery, err := pipeline.Lookup(string(pipeline.Delivery))
	if err != nil {
		return nil, fmt.Errorf("service.Board: %w", err)
	}

	active := make([]models.Courier, 0, len(couriers))
	for _, c := range couriers {
		if c.IsActive {
			active = append(active, c)
		}
	}
	r := view.NewRenderer(lang, s.repo.Now(), s.atRiskWindow)
	return &Board{
		Board:    station.BuildBoard(delivery, orders, r),
		Couriers: summarize(active, orders),
	}, nil
}

func (s *service) ListCouriers(ctx context.Context) ([]CourierSummary, error) {
	couriers, err := s.repo.ListCouriers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ListCouriers: %w", err)
	}
	orders, _, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ListCouriers: %w", err)
	}
	return summarize(couriers, orders), nil
}

// CourierOrders lists the orders assigned to a courier by id.
func (s *service) CourierOrders(ctx context.Context, courierID string) ([]view.Card, error) {
	if _, err := s.repo.FindCourier(ctx, courierID); err != nil {
		return nil, fmt.Errorf("service.CourierOrders: %w", err)
	}
	orders, lang, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CourierOrders: %w", err)
	}
	mine := store.Filter(orders, func(o models.Order) bool { return o.AssignedCourierID == courierID })
	return view.NewRenderer(lang, s.repo.Now(), s.atRiskWindow).Cards(mine), nil
}

// AssignOrder gives orderID to courierID. The courier's active flag is not
// checked here, matching the store.
func (s *service) AssignOrder(ctx context.Context, orderID, courierID string) (*view.Card, error) {
	order, err := s.repo.AssignCourier(ctx, orderID, courierID)
	if err != nil {
		return nil, fmt.Errorf("service.AssignOrder: %w", err)
	}
	_, lang, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.AssignOrder: %w", err)
	}
	delivery, err := pipeline.Lookup(string(pipeline.Delivery))
	if err != nil {
		return nil, fmt.Errorf("service.AssignOrder: %w", err)
	}
	card := view.NewRenderer(lang, s.repo.Now(), s.atRiskWindow).Card(*order, delivery.Offered(order.Status))
	return &card, nil
}

func summarize(couriers []models.Courier, orders []models.Order) []CourierSummary {
	out := make([]CourierSummary, 0, len(couriers))
	for _, c := range couriers {
		sum := CourierSummary{Courier: c, TotalAssigned: len(c.CurrentOrders)}
		for _, o := range orders {
			if o.AssignedCourierID != c.ID {
				continue
			}
			if o.Status == models.StatusDelivered {
				sum.Delivered++
			} else {
				sum.ActiveLoad++
			}
		}
		out = append(out, sum)
	}
	return out
}
