package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/locallink/locallink-backend/internal/catalog"
	"github.com/locallink/locallink-backend/internal/state"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrItemNotFound is returned when removing a product that is not in the cart.
var ErrItemNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")

// Service is the shopper's cart.
type Service interface {
	Add(ctx context.Context, product catalog.Product) (*Item, error)
	Remove(ctx context.Context, productID string) error
	Items(ctx context.Context) []Item
	Total(ctx context.Context) decimal.Decimal
	Count(ctx context.Context) int
	Summary(ctx context.Context) Summary
	Clear(ctx context.Context) error
	Discard(ctx context.Context)
}

type service struct {
	items *state.Collection[Item]
}

// NewService binds the cart to its owned collection.
func NewService(items *state.Collection[Item]) (Service, error) {
	if items == nil {
		return nil, fmt.Errorf("cart collection required")
	}
	return &service{items: items}, nil
}

// Add increments the line for product.ID, or inserts a quantity-1 line with
// a snapshot of product. Later catalog edits do not touch existing lines.
func (s *service) Add(ctx context.Context, product catalog.Product) (*Item, error) {
	if strings.TrimSpace(product.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	var added Item
	err := s.items.Update(ctx, func(items []Item) ([]Item, error) {
		for i := range items {
			if items[i].ID == product.ID {
				items[i].Quantity++
				added = items[i]
				return items, nil
			}
		}
		added = Item{Product: product, Quantity: 1}
		return append(items, added), nil
	})
	if err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		return nil, err
	}
	return &added, err
}

// Remove deletes the line outright regardless of quantity.
func (s *service) Remove(ctx context.Context, productID string) error {
	return s.items.Update(ctx, func(items []Item) ([]Item, error) {
		for i := range items {
			if items[i].ID == productID {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, ErrItemNotFound
	})
}

func (s *service) Items(_ context.Context) []Item {
	return s.items.Items()
}

func (s *service) Total(_ context.Context) decimal.Decimal {
	return Total(s.items.Items())
}

func (s *service) Count(_ context.Context) int {
	count := 0
	for _, item := range s.items.Items() {
		count += item.Quantity
	}
	return count
}

func (s *service) Summary(ctx context.Context) Summary {
	items := s.items.Items()
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return Summary{Items: items, Total: Total(items), Count: count}
}

// Clear empties the cart and mirrors the empty list.
func (s *service) Clear(ctx context.Context) error {
	return s.items.Update(ctx, func([]Item) ([]Item, error) { return []Item{}, nil })
}

// Discard empties the live cart without touching the stored blob.
func (s *service) Discard(_ context.Context) {
	s.items.UpdateInMemory(func([]Item) []Item { return []Item{} })
}
