package marketplace

import (
	"context"

	"github.com/locallink/locallink-backend/internal/cart"
	"github.com/locallink/locallink-backend/internal/orders"
	"github.com/locallink/locallink-backend/pkg/enums"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
)

func (m *Marketplace) Cart(ctx context.Context) cart.Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Summary(ctx)
}

// AddToCart adds one unit of a catalog product.
func (m *Marketplace) AddToCart(ctx context.Context, productID string) (summary cart.Summary, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.observe("cart.add", err) }()
	product, err := m.catalog.GetProduct(ctx, productID)
	if err != nil {
		return cart.Summary{}, err
	}
	_, err = m.cart.Add(ctx, *product)
	return m.cart.Summary(ctx), err
}

func (m *Marketplace) RemoveFromCart(ctx context.Context, productID string) (summary cart.Summary, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.observe("cart.remove", err) }()
	err = m.cart.Remove(ctx, productID)
	return m.cart.Summary(ctx), err
}

func (m *Marketplace) ClearCart(ctx context.Context) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.observe("cart.clear", err) }()
	return m.cart.Clear(ctx)
}

// Checkout places an order for the signed-in user and empties the cart.
func (m *Marketplace) Checkout(ctx context.Context, input orders.CheckoutInput) (o *orders.Order, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.observe("orders.checkout", err) }()
	actor, err := m.actor()
	if err != nil {
		return nil, err
	}
	o, err = m.orders.Checkout(ctx, actor, input)
	if o != nil {
		ctx = m.logg.WithOrderID(m.logg.WithUserID(ctx, actor.ID), o.ID)
		m.logg.Info(ctx, "orders.placed")
	}
	return o, err
}

func (m *Marketplace) MyOrders(ctx context.Context) ([]orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	actor, err := m.actor()
	if err != nil {
		return nil, err
	}
	return m.orders.ListForCustomer(ctx, actor), nil
}

// LatestOrder returns the signed-in user's newest order, or nil.
func (m *Marketplace) LatestOrder(ctx context.Context) (*orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	actor, err := m.actor()
	if err != nil {
		return nil, err
	}
	order, _ := m.orders.Latest(ctx, actor)
	return order, nil
}

func (m *Marketplace) CancelOrder(ctx context.Context, orderID string) (o *orders.Order, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.observe("orders.cancel", err) }()
	actor, err := m.actor()
	if err != nil {
		return nil, err
	}
	return m.orders.Cancel(ctx, actor, orderID)
}

// MerchantOrders lists orders touching the merchant's stores, or every
// order when all is set.
func (m *Marketplace) MerchantOrders(ctx context.Context, all bool) ([]orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	actor, err := m.actor()
	if err != nil {
		return nil, err
	}
	if actor.Role != enums.UserRoleMerchant {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "merchant role required")
	}
	if all {
		return m.orders.ListAll(ctx), nil
	}
	var storeIDs []string
	for _, s := range m.catalog.StoresByOwner(ctx, actor.ID) {
		storeIDs = append(storeIDs, s.ID)
	}
	return m.orders.ListForStores(ctx, storeIDs), nil
}

func (m *Marketplace) UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) (o *orders.Order, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.observe("orders.update_status", err) }()
	actor, err := m.actor()
	if err != nil {
		return nil, err
	}
	o, err = m.orders.UpdateStatus(ctx, actor, orderID, status)
	if o != nil {
		m.logg.Info(m.logg.WithField(m.logg.WithOrderID(ctx, o.ID), "status", o.Status), "orders.status_changed")
	}
	return o, err
}
