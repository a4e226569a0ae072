package controllers

import (
	"context"
	"net/http"

	"github.com/locallink/locallink-backend/api/responses"
	"github.com/locallink/locallink-backend/api/validators"
	"github.com/locallink/locallink-backend/internal/recommendations"
	"github.com/locallink/locallink-backend/pkg/logger"
)

type recommender interface {
	Recommend(ctx context.Context, query string) (*recommendations.Result, error)
}

type recommendRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

// Recommend matches a free-text request against the catalog. The response
// carries the highlighted products, or a hint when nothing matched.
func Recommend(svc recommender, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recommendRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Recommend(r.Context(), req.Query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
