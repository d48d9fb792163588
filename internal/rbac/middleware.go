package rbac

import (
	"log/slog"
	"net/http"

	"github.com/royalcarriage/platform/internal/shared"
)

// Middleware wires authorization checks for HTTP handlers. It expects the
// auth layer to have placed the identity in the request context already.
type Middleware struct {
	Logger *slog.Logger
}

// Require ensures the current user holds every one of the given permissions.
func (m Middleware) Require(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := shared.IdentityFromContext(r.Context())
			if id == nil {
				shared.RespondError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			for _, perm := range perms {
				if res := RequirePermission(id, perm); !res.Allowed {
					if m.Logger != nil {
						m.Logger.Warn("permission denied",
							slog.String("user_id", id.ID),
							slog.String("permission", string(perm)),
							slog.String("path", r.URL.Path))
					}
					shared.RespondError(w, http.StatusForbidden, res.Reason)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAny ensures the current user holds at least one of the permissions.
func (m Middleware) RequireAny(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			id := shared.IdentityFromContext(r.Context())
			if id == nil {
				shared.RespondError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !HasAnyPermission(id, perms...) {
				if m.Logger != nil {
					m.Logger.Warn("permission denied",
						slog.String("user_id", id.ID),
						slog.String("path", r.URL.Path))
				}
				shared.RespondError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
