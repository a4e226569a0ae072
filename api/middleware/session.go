package middleware

import (
	"net/http"

	"github.com/locallink/locallink-backend/api/responses"
	"github.com/locallink/locallink-backend/internal/session"
	"github.com/locallink/locallink-backend/internal/users"
	"github.com/locallink/locallink-backend/pkg/logger"
)

type sessionSource interface {
	CurrentUser() (users.User, error)
}

// Session copies the signed-in user, if any, into the request context and
// the request logger.
func Session(src sessionSource, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if src == nil {
				next.ServeHTTP(w, r)
				return
			}
			u, err := src.CurrentUser()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithRole(WithUserID(r.Context(), u.ID), u.Role.String())
			if logg != nil {
				ctx = logg.WithRole(logg.WithUserID(ctx, u.ID), u.Role.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests without a signed-in user.
func RequireSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, session.ErrNoSession)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
