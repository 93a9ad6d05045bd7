package identity

import (
	"log/slog"
	"net/http"
	"strconv"
)

// Header names set by the auth gateway after token verification.
const (
	HeaderUser       = "X-Auth-User"
	HeaderRole       = "X-Auth-Role"
	HeaderFaculty    = "X-Auth-Faculty"
	HeaderDepartment = "X-Auth-Department"
	HeaderStudent    = "X-Auth-Student"
)

// Middleware populates the request context with the caller identity parsed
// from gateway headers. Requests without a recognizable role proceed with no
// identity in context, so every permission check downstream denies them.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := ParseRole(r.Header.Get(HeaderRole))
			if !ok {
				if logger != nil && r.Header.Get(HeaderRole) != "" {
					logger.Warn("unknown role header", slog.String("role", r.Header.Get(HeaderRole)))
				}
				next.ServeHTTP(w, r)
				return
			}
			id := Identity{
				Username:   r.Header.Get(HeaderUser),
				Role:       role,
				StudentKey: r.Header.Get(HeaderStudent),
			}
			if v := r.Header.Get(HeaderFaculty); v != "" {
				if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
					id.FacultyID = parsed
				}
			}
			if v := r.Header.Get(HeaderDepartment); v != "" {
				if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
					id.DepartmentID = parsed
				}
			}
			next.ServeHTTP(w, r.WithContext(ContextWith(r.Context(), id)))
		})
	}
}
