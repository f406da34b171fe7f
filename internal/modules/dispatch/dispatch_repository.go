package dispatch

import (
	"context"
	"time"

	"delivery-ops/internal/models"
	"delivery-ops/internal/store"
)

// RepositoryInterface lists the roster and order operations dispatch needs.
type RepositoryInterface interface {
	// ListCouriers returns the whole roster, active or not.
	ListCouriers(ctx context.Context) ([]models.Courier, error)
	// FindCourier looks a courier up by id.
	FindCourier(ctx context.Context, courierID string) (*models.Courier, error)
	// ListOrders returns every order with the current UI language.
	ListOrders(ctx context.Context) ([]models.Order, models.Language, error)
	// AssignCourier hands an order to a courier and returns the updated order.
	AssignCourier(ctx context.Context, orderID, courierID string) (*models.Order, error)
	Now() time.Time
}

// Repository implements RepositoryInterface on top of the shared store.
type Repository struct {
	st *store.Store
}

func NewRepository(st *store.Store) RepositoryInterface {
	return &Repository{st: st}
}

func (r *Repository) ListCouriers(ctx context.Context) ([]models.Courier, error) {
	return r.st.Snapshot().Couriers, nil
}

func (r *Repository) FindCourier(ctx context.Context, courierID string) (*models.Courier, error) {
	c, ok := store.FindCourier(r.st.Snapshot(), courierID)
	if !ok {
		return nil, models.ErrCourierNotFound
	}
	return &c, nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]models.Order, models.Language, error) {
	snap := r.st.Snapshot()
	return snap.Orders, snap.Language, nil
}

func (r *Repository) AssignCourier(ctx context.Context, orderID, courierID string) (*models.Order, error) {
	o, err := r.st.AssignCourier(orderID, courierID)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) Now() time.Time { return r.st.Now() }
