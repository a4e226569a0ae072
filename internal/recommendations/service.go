// Package recommendations turns free-text shopping requests into a set of
// highlighted catalog products.
package recommendations

import (
	"context"
	"fmt"
	"strings"

	"github.com/locallink/locallink-backend/internal/catalog"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
	"github.com/locallink/locallink-backend/pkg/logger"
)

// NoMatchHint is shown when nothing in the catalog matched.
const NoMatchHint = "AI couldn't find specific matches, but feel free to browse!"

// Result carries the matched ids, the highlighted products and, when empty,
// a hint for the shopper.
type Result struct {
	Query    string            `json:"query"`
	IDs      []string          `json:"ids"`
	Products []catalog.Product `json:"products"`
	Hint     string            `json:"hint,omitempty"`
}

type catalogReader interface {
	ListProducts(ctx context.Context, filter catalog.ListFilter) []catalog.Product
}

type Service interface {
	Recommend(ctx context.Context, query string) (*Result, error)
}

type service struct {
	catalog  catalogReader
	primary  Recommender
	fallback Recommender
	logg     *logger.Logger
}

// NewService builds the service. fallback answers when primary fails and
// may be nil.
func NewService(catalog catalogReader, primary, fallback Recommender, logg *logger.Logger) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if primary == nil {
		return nil, fmt.Errorf("recommender required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{catalog: catalog, primary: primary, fallback: fallback, logg: logg}, nil
}

func (s *service) Recommend(ctx context.Context, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query is required")
	}

	products := s.catalog.ListProducts(ctx, catalog.ListFilter{})
	ids, err := s.primary.Recommend(ctx, query, products)
	if err != nil {
		if s.fallback == nil {
			return nil, err
		}
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "recommendations.primary_failed")
		ids, err = s.fallback.Recommend(ctx, query, products)
		if err != nil {
			return nil, err
		}
	}

	known := make(map[string]struct{}, len(products))
	for _, p := range products {
		known[p.ID] = struct{}{}
	}
	seen := map[string]struct{}{}
	filtered := []string{}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		filtered = append(filtered, id)
	}

	result := &Result{Query: query, IDs: filtered, Products: []catalog.Product{}}
	if len(filtered) == 0 {
		result.Hint = NoMatchHint
		return result, nil
	}
	result.Products = s.catalog.ListProducts(ctx, catalog.ListFilter{Highlight: filtered})
	return result, nil
}
