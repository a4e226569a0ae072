package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/locallink/locallink-backend/api/responses"
	"github.com/locallink/locallink-backend/api/validators"
	"github.com/locallink/locallink-backend/internal/catalog"
	"github.com/locallink/locallink-backend/internal/orders"
	"github.com/locallink/locallink-backend/pkg/enums"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
	"github.com/locallink/locallink-backend/pkg/logger"
)

type merchantCatalog interface {
	AddProduct(ctx context.Context, input catalog.ProductInput) (*catalog.Product, error)
	AddStore(ctx context.Context, input catalog.StoreInput) (*catalog.Store, error)
	UpdateStore(ctx context.Context, storeID string, input catalog.StoreInput) (*catalog.Store, error)
	MyStores(ctx context.Context) ([]catalog.Store, error)
}

type merchantOrders interface {
	MerchantOrders(ctx context.Context, all bool) ([]orders.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) (*orders.Order, error)
}

type productRequest struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Description string          `json:"description" validate:"max=1000"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"max=60"`
	ImageURL    string          `json:"imageUrl" validate:"omitempty,url"`
	Stock       int             `json:"stock" validate:"gte=0"`
	StoreID     string          `json:"storeId"`
	Distance    string          `json:"distance"`
}

type storeRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Type        string `json:"type" validate:"required"`
	Address     string `json:"address" validate:"max=300"`
	PhoneNumber string `json:"phoneNumber" validate:"max=40"`
}

func (r storeRequest) toInput() (catalog.StoreInput, error) {
	storeType, err := enums.ParseStoreType(r.Type)
	if err != nil {
		return catalog.StoreInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store type")
	}
	return catalog.StoreInput{
		Name:        validators.SanitizeString(r.Name, 120),
		Type:        storeType,
		Address:     validators.SanitizeString(r.Address, 300),
		PhoneNumber: validators.SanitizeString(r.PhoneNumber, 40),
	}, nil
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// MerchantAddProduct lists a new product under one of the merchant's stores.
// Without storeId the merchant's first store is used.
func MerchantAddProduct(svc merchantCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AddProduct(r.Context(), catalog.ProductInput{
			Name:        validators.SanitizeString(req.Name, 120),
			Description: validators.SanitizeString(req.Description, 1000),
			Price:       req.Price,
			Category:    validators.SanitizeString(req.Category, 60),
			ImageURL:    req.ImageURL,
			Stock:       req.Stock,
			StoreID:     req.StoreID,
			Distance:    req.Distance,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func MerchantAddStore(svc merchantCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req storeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.AddStore(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, store)
	}
}

// MerchantUpdateStore replaces a store's editable fields. Products of the
// store pick up the new name and type.
func MerchantUpdateStore(svc merchantCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req storeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.UpdateStore(r.Context(), chi.URLParam(r, "storeId"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

func MerchantStores(svc merchantCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := svc.MyStores(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stores)
	}
}

// MerchantOrders lists orders touching the merchant's stores, or every
// order when all=true.
func MerchantOrders(svc merchantOrders, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := validators.ParseQueryBool(r, "all", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.MerchantOrders(r.Context(), all)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func MerchantUpdateOrderStatus(svc merchantOrders, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := svc.UpdateOrderStatus(r.Context(), chi.URLParam(r, "orderId"), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
