package controllers

import (
	"context"
	"net/http"

	"github.com/locallink/locallink-backend/api/responses"
	"github.com/locallink/locallink-backend/api/validators"
	"github.com/locallink/locallink-backend/internal/session"
	"github.com/locallink/locallink-backend/internal/users"
	"github.com/locallink/locallink-backend/pkg/enums"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
	"github.com/locallink/locallink-backend/pkg/logger"
)

type sessionAuthenticator interface {
	Login(ctx context.Context, email, password string) (*users.User, error)
	Register(ctx context.Context, input session.RegisterInput) (*users.User, error)
}

type sessionReader interface {
	CurrentUser() (users.User, error)
}

type sessionTerminator interface {
	Logout(ctx context.Context)
}

type profileUpdater interface {
	UpdateProfile(ctx context.Context, patch users.ProfilePatch) (*users.User, error)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type profileRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Address     *string `json:"address,omitempty"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

// SessionLogin signs a user in. The response arrives after the configured
// authentication latency.
func SessionLogin(svc sessionAuthenticator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func SessionRegister(svc sessionAuthenticator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		var req registerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		role, err := enums.ParseUserRole(req.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		user, err := svc.Register(r.Context(), session.RegisterInput{
			Name:     validators.SanitizeString(req.Name, 120),
			Email:    req.Email,
			Password: req.Password,
			Role:     role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

func SessionLogout(svc sessionTerminator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.Logout(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

func SessionCurrent(svc sessionReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.CurrentUser()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// SessionUpdateProfile applies a partial profile edit to the signed-in user.
func SessionUpdateProfile(svc profileUpdater, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UpdateProfile(r.Context(), users.ProfilePatch{
			Name:        req.Name,
			PhoneNumber: req.PhoneNumber,
			Address:     req.Address,
			Bio:         req.Bio,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
