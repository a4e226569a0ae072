package marketplace

import (
	"context"

	"github.com/locallink/locallink-backend/internal/catalog"
)

func (m *Marketplace) ListProducts(ctx context.Context, filter catalog.ListFilter) []catalog.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.ListProducts(ctx, filter)
}

func (m *Marketplace) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.GetProduct(ctx, id)
}

func (m *Marketplace) Categories(ctx context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.Categories(ctx)
}

func (m *Marketplace) ListStores(ctx context.Context, storeType string) []catalog.Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.ListStores(ctx, storeType)
}

func (m *Marketplace) GetStore(ctx context.Context, id string) (*catalog.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.GetStore(ctx, id)
}

// MyStores lists the stores owned by the signed-in merchant.
func (m *Marketplace) MyStores(ctx context.Context) ([]catalog.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	actor, err := m.actor()
	if err != nil {
		return nil, err
	}
	return m.catalog.StoresByOwner(ctx, actor.ID), nil
}

func (m *Marketplace) AddProduct(ctx context.Context, input catalog.ProductInput) (p *catalog.Product, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.observe("catalog.add_product", err) }()
	actor, err := m.actor()
	if err != nil {
		return nil, err
	}
	return m.catalog.AddProduct(ctx, actor, input)
}

func (m *Marketplace) AddStore(ctx context.Context, input catalog.StoreInput) (s *catalog.Store, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.observe("catalog.add_store", err) }()
	actor, err := m.actor()
	if err != nil {
		return nil, err
	}
	return m.catalog.AddStore(ctx, actor, input)
}

// UpdateStore edits a store and resyncs its products in one step.
func (m *Marketplace) UpdateStore(ctx context.Context, storeID string, input catalog.StoreInput) (s *catalog.Store, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.observe("catalog.update_store", err) }()
	actor, err := m.actor()
	if err != nil {
		return nil, err
	}
	s, err = m.catalog.UpdateStore(ctx, actor, storeID, input)
	if s != nil {
		m.logg.Info(m.logg.WithStoreID(ctx, s.ID), "catalog.store_updated")
	}
	return s, err
}
