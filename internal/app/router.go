package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/campus-insights/campus-insights/internal/assignment"
	"github.com/campus-insights/campus-insights/internal/audit"
	"github.com/campus-insights/campus-insights/internal/etl"
	"github.com/campus-insights/campus-insights/internal/observability"
	"github.com/campus-insights/campus-insights/internal/org"
	"github.com/campus-insights/campus-insights/internal/scope"
	"github.com/campus-insights/campus-insights/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AssignmentHandler *assignment.Handler
	AuditHandler      *audit.Handler
	EtlHandler        *etl.Handler
	UsersHandler      *users.Handler
	OrgHandler        *org.Handler
	ScopeHandler      *scope.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with the engine's route layout.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		if params.AuditHandler != nil {
			params.AuditHandler.MountEventRoutes(r)
		}
		if params.AssignmentHandler != nil {
			r.Route("/assignments", params.AssignmentHandler.MountRoutes)
		}
		if params.ScopeHandler != nil {
			r.Route("/scope", params.ScopeHandler.MountRoutes)
		}
		r.Route("/admin", func(r chi.Router) {
			if params.AuditHandler != nil {
				params.AuditHandler.MountAdminRoutes(r)
			}
			if params.EtlHandler != nil {
				params.EtlHandler.MountRoutes(r)
			}
			if params.UsersHandler != nil {
				params.UsersHandler.MountRoutes(r)
			}
			if params.OrgHandler != nil {
				params.OrgHandler.MountRoutes(r)
			}
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
