package audit

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/campus-insights/campus-insights/internal/identity"
	"github.com/campus-insights/campus-insights/internal/platform/httpx"
	"github.com/campus-insights/campus-insights/internal/rbac"
)

// Handler serves the audit log admin endpoints and the client event sink.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	recorder *Recorder
	rbac     rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, recorder *Recorder, rbacMW rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, recorder: recorder, rbac: rbacMW}
}

// MountAdminRoutes registers the sysadmin-only audit endpoints.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceAuditLogs, rbac.PermissionRead))
		r.Get("/audit-logs", h.listLogs)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceSettings, rbac.PermissionWrite))
		r.With(httprate.LimitByIP(5, time.Minute)).Post("/setup-audit-db", h.setupStore)
	})
}

// MountEventRoutes registers the client-reported event sink. Any
// authenticated identity may report page views and similar UI events.
func (h *Handler) MountEventRoutes(r chi.Router) {
	r.Post("/audit-event", h.clientEvent)
}

type listResponse struct {
	Logs    []Record `json:"logs"`
	Total   int      `json:"total"`
	Message string   `json:"message,omitempty"`
}

func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	search := r.URL.Query().Get("search")

	records, err := h.service.Query(r.Context(), limit, search)
	if err != nil {
		if errors.Is(err, httpx.ErrNotConfigured) {
			httpx.JSON(w, http.StatusOK, listResponse{
				Logs:    []Record{},
				Message: "audit store not configured; run setup-audit-db to create it",
			})
			return
		}
		h.logger.Error("query audit logs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if records == nil {
		records = []Record{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Logs: records, Total: len(records)})
}

func (h *Handler) setupStore(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SetupStore(r.Context()); err != nil {
		h.logger.Error("setup audit store", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if id, ok := identity.FromContext(r.Context()); ok {
		h.recorder.Success(id.Username, string(id.Role), "audit_db_setup", "system", "audit_logs")
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "audit store ready"})
}

type clientEventRequest struct {
	Action     string `json:"action"`
	Resource   string `json:"resource"`
	ResourceID string `json:"resource_id"`
}

func (h *Handler) clientEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req clientEventRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	action := strings.TrimSpace(req.Action)
	if action == "" {
		action = "unknown"
	}
	resource := strings.TrimSpace(req.Resource)
	if resource == "" {
		resource = "app"
	}
	h.recorder.Success(id.Username, string(id.Role), action, resource, strings.TrimSpace(req.ResourceID))
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
