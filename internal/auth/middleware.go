package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/royalcarriage/platform/internal/shared"
)

// Middleware resolves bearer tokens into request identities.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// Authenticate attaches the identity to context when a valid bearer token
// is present, and passes through anonymously otherwise. Route guards decide
// whether anonymous access is acceptable.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := m.Service.VerifyBearer(r.Context(), header)
		if err != nil {
			if errors.Is(err, shared.ErrNotAuthenticated) {
				shared.RespondError(w, http.StatusUnauthorized, "invalid or expired authentication token")
				return
			}
			if m.Logger != nil {
				m.Logger.Error("verify bearer", slog.Any("error", err))
			}
			shared.RespondError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}
		ctx := shared.ContextWithIdentity(r.Context(), user.Identity())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects requests that carry no authenticated identity.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.IdentityFromContext(r.Context()) == nil {
			shared.RespondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
