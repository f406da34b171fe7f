package order

import (
	"context"
	"time"

	"delivery-ops/internal/models"
	"delivery-ops/internal/store"
)

// RepositoryInterface is the order module's view of the state store.
type RepositoryInterface interface {
	Search(ctx context.Context, term string) ([]models.Order, models.Language, error)
	FindByID(ctx context.Context, orderID string) (*models.Order, models.Language, error)
	ListByStatus(ctx context.Context, statuses []models.OrderStatus) ([]models.Order, models.Language, error)
	Create(ctx context.Context, draft models.OrderDraft) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus, courierName string) (*models.Order, error)
	Language(ctx context.Context) models.Language
	Now() time.Time
}

// Repository reads and writes orders through the shared store.
type Repository struct {
	st *store.Store
}

func NewRepository(st *store.Store) RepositoryInterface {
	return &Repository{st: st}
}

func (r *Repository) Search(ctx context.Context, term string) ([]models.Order, models.Language, error) {
	snap := r.st.Snapshot()
	return store.Search(snap.Orders, term), snap.Language, nil
}

func (r *Repository) FindByID(ctx context.Context, orderID string) (*models.Order, models.Language, error) {
	snap := r.st.Snapshot()
	o, ok := store.FindOrder(snap, orderID)
	if !ok {
		return nil, snap.Language, models.ErrOrderNotFound
	}
	return &o, snap.Language, nil
}

func (r *Repository) ListByStatus(ctx context.Context, statuses []models.OrderStatus) ([]models.Order, models.Language, error) {
	snap := r.st.Snapshot()
	return store.OrdersByStatus(snap, statuses...), snap.Language, nil
}

func (r *Repository) Create(ctx context.Context, draft models.OrderDraft) (*models.Order, error) {
	o := r.st.AddOrder(draft)
	return &o, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus, courierName string) (*models.Order, error) {
	o, err := r.st.UpdateOrderStatus(orderID, status, courierName)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) Language(ctx context.Context) models.Language {
	return r.st.Snapshot().Language
}

func (r *Repository) Now() time.Time { return r.st.Now() }
