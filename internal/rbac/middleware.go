package rbac

import (
	"context"
	"net/http"

	"log/slog"

	"github.com/campus-insights/campus-insights/internal/identity"
	"github.com/campus-insights/campus-insights/internal/platform/httpx"
)

// AuditFunc receives the outcome of every registry check performed by the
// middleware. Implementations must not block; the audit recorder detaches
// its own goroutine.
type AuditFunc func(ctx context.Context, id identity.Identity, resource Resource, permission Permission, allowed bool)

// Middleware wires authorization helpers for HTTP handlers.
type Middleware struct {
	Logger *slog.Logger
	Audit  AuditFunc
}

// Require ensures the caller's role grants the permission on the resource.
// Requests without an identity in context are denied outright.
func (m Middleware) Require(resource Resource, permission Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.FromContext(r.Context())
			if !ok {
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			allowed := Allowed(id.Role, resource, permission)
			if m.Audit != nil {
				m.Audit(r.Context(), id, resource, permission, allowed)
			}
			if !allowed {
				if m.Logger != nil {
					m.Logger.Info("permission denied",
						slog.String("user", id.Username),
						slog.String("role", string(id.Role)),
						slog.String("resource", string(resource)),
						slog.String("permission", string(permission)))
				}
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
