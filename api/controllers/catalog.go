package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/locallink/locallink-backend/api/responses"
	"github.com/locallink/locallink-backend/api/validators"
	"github.com/locallink/locallink-backend/internal/catalog"
	"github.com/locallink/locallink-backend/pkg/enums"
	"github.com/locallink/locallink-backend/pkg/logger"
)

type catalogReader interface {
	ListProducts(ctx context.Context, filter catalog.ListFilter) []catalog.Product
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	Categories(ctx context.Context) []string
	ListStores(ctx context.Context, storeType string) []catalog.Store
	GetStore(ctx context.Context, id string) (*catalog.Store, error)
}

// CatalogProducts lists products. Supported query params: storeType,
// category, storeId, q and highlight (comma separated product ids).
func CatalogProducts(svc catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := catalog.ListFilter{
			StoreType: validators.QueryString(r, "storeType"),
			Category:  validators.QueryString(r, "category"),
			StoreID:   validators.QueryString(r, "storeId"),
			Query:     validators.QueryString(r, "q"),
		}
		if raw := validators.QueryString(r, "highlight"); raw != "" {
			filter.Highlight = strings.Split(raw, ",")
		}
		responses.WriteSuccess(w, svc.ListProducts(r.Context(), filter))
	}
}

func CatalogProduct(svc catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.GetProduct(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CatalogCategories(svc catalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Categories(r.Context()))
	}
}

// CatalogStoreTypes lists the store types the browse view offers.
func CatalogStoreTypes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, enums.StoreTypes())
	}
}

func CatalogStores(svc catalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.ListStores(r.Context(), validators.QueryString(r, "storeType")))
	}
}

func CatalogStore(svc catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := svc.GetStore(r.Context(), chi.URLParam(r, "storeId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}
