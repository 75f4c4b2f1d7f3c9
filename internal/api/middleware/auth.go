package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/roulettegame/internal/api/apierr"
	"github.com/mcoot/roulettegame/internal/model"
	"github.com/mcoot/roulettegame/internal/services/auth"
)

type contextKey string

const adminContextKey contextKey = "admin"

// RequireAdmin rejects requests without a valid admin token and puts the
// authenticated admin in the request context
func RequireAdmin(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			admin, err := authService.Authenticate(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), admin)))
		})
	}
}

// OptionalAdmin adds the admin to the context when a valid token is present
// but lets every request through
func OptionalAdmin(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := auth.TokenFromRequest(r); token != "" {
				if admin, err := authService.Authenticate(r.Context(), token); err == nil {
					r = r.WithContext(WithAdmin(r.Context(), admin))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithAdmin returns a copy of ctx carrying the admin
func WithAdmin(ctx context.Context, admin *model.Admin) context.Context {
	return context.WithValue(ctx, adminContextKey, admin)
}

// GetAdmin returns the authenticated admin from the context, or nil
func GetAdmin(ctx context.Context) *model.Admin {
	admin, _ := ctx.Value(adminContextKey).(*model.Admin)
	return admin
}

// MustGetAdmin returns the authenticated admin or panics
func MustGetAdmin(ctx context.Context) *model.Admin {
	admin := GetAdmin(ctx)
	if admin == nil {
		panic("no admin in context - auth middleware not applied?")
	}
	return admin
}
