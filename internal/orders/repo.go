package orders

import (
	"context"
	"fmt"

	"github.com/locallink/locallink-backend/internal/state"
	"github.com/locallink/locallink-backend/pkg/enums"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
)

// Repository reads and writes the order ledger, newest first.
type Repository struct {
	orders *state.Collection[Order]
}

// NewRepository binds the repository to its collection.
func NewRepository(orders *state.Collection[Order]) (*Repository, error) {
	if orders == nil {
		return nil, fmt.Errorf("orders collection required")
	}
	return &Repository{orders: orders}, nil
}

func (r *Repository) List(_ context.Context) []Order {
	return r.orders.Items()
}

func (r *Repository) FindByID(_ context.Context, id string) (*Order, error) {
	order, ok := r.orders.Find(func(o Order) bool { return o.ID == id })
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// Prepend stores order at the head of the ledger.
func (r *Repository) Prepend(ctx context.Context, order Order) error {
	return r.orders.Update(ctx, func(orders []Order) ([]Order, error) {
		return append([]Order{order}, orders...), nil
	})
}

// SetStatus runs check against the current status and, when it passes,
// stores next. The updated order is returned even if mirroring failed.
func (r *Repository) SetStatus(ctx context.Context, id string, next enums.OrderStatus, check func(current enums.OrderStatus) error) (*Order, error) {
	var updated Order
	err := r.orders.Update(ctx, func(orders []Order) ([]Order, error) {
		for i := range orders {
			if orders[i].ID != id {
				continue
			}
			if check != nil {
				if err := check(orders[i].Status); err != nil {
					return nil, err
				}
			}
			orders[i].Status = next
			updated = orders[i]
			return orders, nil
		}
		return nil, ErrOrderNotFound
	})
	if err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		return nil, err
	}
	return &updated, err
}
