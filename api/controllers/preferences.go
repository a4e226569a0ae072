package controllers

import (
	"context"
	"net/http"

	"github.com/locallink/locallink-backend/api/responses"
	"github.com/locallink/locallink-backend/api/validators"
	"github.com/locallink/locallink-backend/internal/preferences"
	"github.com/locallink/locallink-backend/pkg/logger"
)

type preferenceService interface {
	Preferences(ctx context.Context) preferences.Preferences
	SetDarkMode(ctx context.Context, enabled bool) (preferences.Preferences, error)
}

type preferencesRequest struct {
	DarkMode *bool `json:"darkMode" validate:"required"`
}

func PreferencesGet(svc preferenceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Preferences(r.Context()))
	}
}

func PreferencesUpdate(svc preferenceService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req preferencesRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		prefs, err := svc.SetDarkMode(r.Context(), *req.DarkMode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prefs)
	}
}
