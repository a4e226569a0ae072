package catalog

import (
	"context"
	"fmt"

	"github.com/locallink/locallink-backend/internal/state"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
	"go.uber.org/multierr"
)

var (
	ErrProductNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	ErrStoreNotFound   = pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
)

// Repository holds the product and store collections.
type Repository struct {
	products *state.Collection[Product]
	stores   *state.Collection[Store]
}

func NewRepository(products *state.Collection[Product], stores *state.Collection[Store]) (*Repository, error) {
	if products == nil {
		return nil, fmt.Errorf("products collection required")
	}
	if stores == nil {
		return nil, fmt.Errorf("stores collection required")
	}
	return &Repository{products: products, stores: stores}, nil
}

func (r *Repository) Products(_ context.Context) []Product {
	return r.products.Items()
}

func (r *Repository) Stores(_ context.Context) []Store {
	return r.stores.Items()
}

func (r *Repository) FindProduct(_ context.Context, id string) (*Product, error) {
	p, ok := r.products.Find(func(p Product) bool { return p.ID == id })
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (r *Repository) FindStore(_ context.Context, id string) (*Store, error) {
	s, ok := r.stores.Find(func(s Store) bool { return s.ID == id })
	if !ok {
		return nil, ErrStoreNotFound
	}
	return &s, nil
}

func (r *Repository) AppendProduct(ctx context.Context, p Product) error {
	return r.products.Update(ctx, func(items []Product) ([]Product, error) {
		return append(items, p), nil
	})
}

func (r *Repository) AppendStore(ctx context.Context, s Store) error {
	return r.stores.Update(ctx, func(items []Store) ([]Store, error) {
		return append(items, s), nil
	})
}

// ReplaceStore swaps the store with s.ID and rewrites the denormalized
// storeName/storeType of every product listed under it. The product resync
// runs even when the store mirror fails so memory never disagrees with itself.
func (r *Repository) ReplaceStore(ctx context.Context, s Store) error {
	storeErr := r.stores.Update(ctx, func(items []Store) ([]Store, error) {
		for i := range items {
			if items[i].ID == s.ID {
				items[i] = s
				return items, nil
			}
		}
		return nil, ErrStoreNotFound
	})
	if pkgerrors.IsCode(storeErr, pkgerrors.CodeNotFound) {
		return storeErr
	}

	productErr := r.products.Update(ctx, func(items []Product) ([]Product, error) {
		for i := range items {
			if items[i].StoreID == s.ID {
				items[i].StoreName = s.Name
				items[i].StoreType = s.Type
			}
		}
		return items, nil
	})
	return multierr.Combine(storeErr, productErr)
}
