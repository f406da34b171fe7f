package order

import (
	"context"
	"fmt"
	"time"

	"delivery-ops/internal/models"
	"delivery-ops/internal/view"
)

// ServiceInterface defines the contract for the order service.
type ServiceInterface interface {
	ListOrders(ctx context.Context, query string) ([]view.Card, error)
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*view.Card, error)
	GetOrderDetails(ctx context.Context, orderID string) (*view.Card, error)
	UpdateStatus(ctx context.Context, orderID string, req models.UpdateStatusRequest) (*view.Card, error)
	GetHistory(ctx context.Context, orderID string) ([]models.StatusChange, error)
	ListByStatus(ctx context.Context, statuses []models.OrderStatus) ([]view.Card, error)
}

// Service implements the order service logic.
type Service struct {
	repo         RepositoryInterface
	atRiskWindow time.Duration
}

// NewService creates a new order service.
func NewService(repo RepositoryInterface, atRiskWindow time.Duration) *Service {
	return &Service{repo: repo, atRiskWindow: atRiskWindow}
}

func (s *Service) renderer(lang models.Language) view.Renderer {
	return view.NewRenderer(lang, s.repo.Now(), s.atRiskWindow)
}

// ListOrders returns every order matching query, in intake order.
func (s *Service) ListOrders(ctx context.Context, query string) ([]view.Card, error) {
	orders, lang, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service.ListOrders: %w", err)
	}
	return s.renderer(lang).Cards(orders), nil
}

// CreateOrder runs intake for a validated form.
func (s *Service) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*view.Card, error) {
	draft := req.Draft()
	if len(draft.Dishes) == 0 {
		return nil, fmt.Errorf("service.CreateOrder: %w", ErrNoDishes)
	}
	order, err := s.repo.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("service.CreateOrder: %w", err)
	}
	card := s.renderer(s.repo.Language(ctx)).Card(*order, nil)
	return &card, nil
}

func (s *Service) GetOrderDetails(ctx context.Context, orderID string) (*view.Card, error) {
	order, lang, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.GetOrderDetails: %w", err)
	}
	card := s.renderer(lang).Card(*order, nil)
	return &card, nil
}

// UpdateStatus sets any status on the order, subject to the store's policy.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, req models.UpdateStatusRequest) (*view.Card, error) {
	order, err := s.repo.UpdateStatus(ctx, orderID, req.Status, req.CourierName)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateStatus: %w", err)
	}
	card := s.renderer(s.repo.Language(ctx)).Card(*order, nil)
	return &card, nil
}

func (s *Service) GetHistory(ctx context.Context, orderID string) ([]models.StatusChange, error) {
	order, _, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.GetHistory: %w", err)
	}
	if order.History == nil {
		return []models.StatusChange{}, nil
	}
	return order.History, nil
}

func (s *Service) ListByStatus(ctx context.Context, statuses []models.OrderStatus) ([]view.Card, error) {
	for _, st := range statuses {
		if !st.IsValid() {
			return nil, fmt.Errorf("service.ListByStatus: %w: %q", models.ErrInvalidStatus, st)
		}
	}
	orders, lang, err := s.repo.ListByStatus(ctx, statuses)
	if err != nil {
		return nil, fmt.Errorf("service.ListByStatus: %w", err)
	}
	return s.renderer(lang).Cards(orders), nil
}
