package rbac

import (
	"log/slog"
	"net/http"

	"github.com/paletar/paletar/internal/shared"
)

// Middleware wires capability checks into HTTP routes.
type Middleware struct {
	Logger *slog.Logger
}

// Require ensures the current user holds a capability within the domain.
// Unauthenticated requests get 401, authenticated ones without the
// capability get 403.
func (m Middleware) Require(domain Domain, check Check) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || sess.User() == "" {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			role := Role(sess.Role())
			if !role.Valid() {
				if m.Logger != nil {
					m.Logger.Warn("unknown role on session", slog.String("role", sess.Role()))
				}
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			if !check(role.Permissions(domain)) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated only checks for a logged-in user.
func (m Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.User() == "" {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
