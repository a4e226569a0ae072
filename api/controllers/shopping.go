package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/locallink/locallink-backend/api/responses"
	"github.com/locallink/locallink-backend/api/validators"
	"github.com/locallink/locallink-backend/internal/cart"
	"github.com/locallink/locallink-backend/internal/orders"
	"github.com/locallink/locallink-backend/pkg/enums"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
	"github.com/locallink/locallink-backend/pkg/logger"
)

type cartService interface {
	Cart(ctx context.Context) cart.Summary
	AddToCart(ctx context.Context, productID string) (cart.Summary, error)
	RemoveFromCart(ctx context.Context, productID string) (cart.Summary, error)
	ClearCart(ctx context.Context) error
}

type orderService interface {
	Checkout(ctx context.Context, input orders.CheckoutInput) (*orders.Order, error)
	MyOrders(ctx context.Context) ([]orders.Order, error)
	LatestOrder(ctx context.Context) (*orders.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*orders.Order, error)
}

type cartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type checkoutRequest struct {
	Address       string `json:"address"`
	PhoneNumber   string `json:"phoneNumber"`
	PaymentMethod string `json:"paymentMethod"`
}

func CartGet(svc cartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Cart(r.Context()))
	}
}

// CartAddItem adds one unit of a catalog product to the cart.
func CartAddItem(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		summary, err := svc.AddToCart(r.Context(), req.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// CartRemoveItem drops the whole line for a product.
func CartRemoveItem(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.RemoveFromCart(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func CartClear(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ClearCart(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// OrdersCheckout turns the cart into a PENDING order. The payment method
// defaults to cash on delivery.
func OrdersCheckout(svc orderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.CheckoutInput{
			Address:     validators.SanitizeString(req.Address, 300),
			PhoneNumber: validators.SanitizeString(req.PhoneNumber, 40),
		}
		if raw := validators.SanitizeString(req.PaymentMethod, 20); raw != "" {
			method, err := enums.ParsePaymentMethod(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
				return
			}
			input.PaymentMethod = method
		}

		order, err := svc.Checkout(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrdersList(svc orderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.MyOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrdersLatest returns the newest order of the signed-in user, or null.
func OrdersLatest(svc orderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.LatestOrder(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrdersCancel(svc orderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.CancelOrder(r.Context(), chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
