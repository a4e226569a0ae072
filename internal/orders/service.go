package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/locallink/locallink-backend/internal/cart"
	"github.com/locallink/locallink-backend/internal/users"
	"github.com/locallink/locallink-backend/pkg/enums"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
)

var (
	ErrOrderNotFound         = pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	ErrMissingCheckoutFields = pkgerrors.New(pkgerrors.CodeValidation, "Please fill in all delivery details")
	ErrIllegalTransition     = pkgerrors.New(pkgerrors.CodeStateConflict, "order status change not allowed")
)

var transitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusPreparing, enums.OrderStatusCancelled},
	enums.OrderStatusPreparing:  {enums.OrderStatusDelivering, enums.OrderStatusCancelled},
	enums.OrderStatusDelivering: {enums.OrderStatusDelivered},
}

type repository interface {
	List(ctx context.Context) []Order
	FindByID(ctx context.Context, id string) (*Order, error)
	Prepend(ctx context.Context, order Order) error
	SetStatus(ctx context.Context, id string, next enums.OrderStatus, check func(enums.OrderStatus) error) (*Order, error)
}

type cartSource interface {
	Items(ctx context.Context) []cart.Item
	Clear(ctx context.Context) error
}

// Service is the order ledger.
type Service interface {
	Checkout(ctx context.Context, customer users.User, input CheckoutInput) (*Order, error)
	Cancel(ctx context.Context, actor users.User, orderID string) (*Order, error)
	UpdateStatus(ctx context.Context, actor users.User, orderID string, status enums.OrderStatus) (*Order, error)
	ListForCustomer(ctx context.Context, customer users.User) []Order
	Latest(ctx context.Context, customer users.User) (*Order, bool)
	ListAll(ctx context.Context) []Order
	ListForStores(ctx context.Context, storeIDs []string) []Order
}

// Option configures the order service.
type Option func(*service)

// WithStrictTransitions enforces the pending, preparing, delivering,
// delivered progression. Without it any valid status may follow any other.
func WithStrictTransitions(strict bool) Option {
	return func(s *service) { s.strict = strict }
}

// WithClock overrides the checkout timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

type service struct {
	repo   repository
	cart   cartSource
	strict bool
	now    func() time.Time
	newID  func() string
}

// NewService builds the order ledger on top of the shopper's cart.
func NewService(repo repository, cart cartSource, opts ...Option) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart required")
	}
	s := &service{repo: repo, cart: cart, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Checkout freezes the cart into a pending order, prepends it and empties
// the cart.
func (s *service) Checkout(ctx context.Context, customer users.User, input CheckoutInput) (*Order, error) {
	items := s.cart.Items(ctx)
	address := strings.TrimSpace(input.Address)
	phone := strings.TrimSpace(input.PhoneNumber)
	if len(items) == 0 || address == "" || phone == "" {
		return nil, ErrMissingCheckoutFields
	}
	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodCOD
	}
	if !method.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid payment method %q", method)
	}

	order := Order{
		ID:            s.newID(),
		Items:         items,
		Total:         cart.Total(items),
		Status:        enums.OrderStatusPending,
		Timestamp:     s.now().UnixMilli(),
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		Address:       address,
		PhoneNumber:   phone,
		PaymentMethod: method,
	}
	if err := s.repo.Prepend(ctx, order); err != nil {
		if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
			return nil, err
		}
		_ = s.cart.Clear(ctx)
		return &order, err
	}
	if err := s.cart.Clear(ctx); err != nil {
		return &order, err
	}
	return &order, nil
}

// Cancel is available to the customer who placed the order and to
// merchants.
func (s *service) Cancel(ctx context.Context, actor users.User, orderID string) (*Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != enums.UserRoleMerchant && !order.BelongsTo(actor) {
		return nil, ErrOrderNotFound
	}
	return s.repo.SetStatus(ctx, orderID, enums.OrderStatusCancelled, s.checkTransition(enums.OrderStatusCancelled))
}

func (s *service) UpdateStatus(ctx context.Context, actor users.User, orderID string, status enums.OrderStatus) (*Order, error) {
	if actor.Role != enums.UserRoleMerchant {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only merchants can update order status")
	}
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", status)
	}
	return s.repo.SetStatus(ctx, orderID, status, s.checkTransition(status))
}

func (s *service) checkTransition(next enums.OrderStatus) func(enums.OrderStatus) error {
	if !s.strict {
		return nil
	}
	return func(current enums.OrderStatus) error {
		for _, allowed := range transitions[current] {
			if allowed == next {
				return nil
			}
		}
		return ErrIllegalTransition.WithDetails(map[string]any{"from": current, "to": next})
	}
}

func (s *service) ListForCustomer(ctx context.Context, customer users.User) []Order {
	var out []Order
	for _, order := range s.repo.List(ctx) {
		if order.BelongsTo(customer) {
			out = append(out, order)
		}
	}
	return out
}

// Latest returns the customer's most recent order.
func (s *service) Latest(ctx context.Context, customer users.User) (*Order, bool) {
	for _, order := range s.repo.List(ctx) {
		if order.BelongsTo(customer) {
			return &order, true
		}
	}
	return nil, false
}

func (s *service) ListAll(ctx context.Context) []Order {
	return s.repo.List(ctx)
}

// ListForStores returns orders with at least one item from storeIDs.
func (s *service) ListForStores(ctx context.Context, storeIDs []string) []Order {
	set := make(map[string]struct{}, len(storeIDs))
	for _, id := range storeIDs {
		set[id] = struct{}{}
	}
	var out []Order
	for _, order := range s.repo.List(ctx) {
		if order.HasStore(set) {
			out = append(out, order)
		}
	}
	return out
}
