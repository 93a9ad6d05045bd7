package etl

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/campus-insights/campus-insights/internal/audit"
	"github.com/campus-insights/campus-insights/internal/identity"
	"github.com/campus-insights/campus-insights/internal/platform/httpx"
	"github.com/campus-insights/campus-insights/internal/rbac"
)

// Handler serves the pipeline tracking endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	recorder *audit.Recorder
	rbac     rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, recorder *audit.Recorder, rbacMW rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, recorder: recorder, rbac: rbacMW}
}

// MountRoutes registers the tracker endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceEtl, rbac.PermissionRead))
		r.Get("/system-status", h.systemStatus)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceEtl, rbac.PermissionWrite))
		r.With(httprate.LimitByIP(6, time.Minute)).Post("/run-etl", h.runPipeline)
	})
}

type runPayload struct {
	LogReference    string  `json:"log_reference"`
	StartTime       string  `json:"start_time"`
	DurationSeconds float64 `json:"duration_seconds"`
	Success         bool    `json:"success"`
}

func (h *Handler) systemStatus(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("etl_runs_limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "etl_runs_limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	runs, err := h.service.RecentRuns(r.Context(), limit)
	if err != nil {
		h.logger.Error("recent runs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	counts, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("warehouse snapshot", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	warehouse := make(map[string]any, len(counts))
	for _, c := range counts {
		if c.Known {
			warehouse[c.Table] = c.Rows
		} else {
			warehouse[c.Table] = nil
		}
	}
	payloads := make([]runPayload, 0, len(runs))
	for _, run := range runs {
		payloads = append(payloads, runPayload{
			LogReference:    run.LogRef,
			StartTime:       run.StartedAt.Format(time.RFC3339),
			DurationSeconds: run.Duration.Seconds(),
			Success:         run.Success,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"warehouse": warehouse,
		"etl_runs":  payloads,
	})
}

func (h *Handler) runPipeline(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	handle, err := h.service.Trigger(r.Context(), id.Username)
	if err != nil {
		h.logger.Error("trigger pipeline", slog.Any("error", err))
		h.recorder.Failure(id.Username, string(id.Role), "etl_started", "system", err.Error())
		httpx.RespondError(w, err)
		return
	}
	h.recorder.Success(id.Username, string(id.Role), "etl_started", "system", handle.LogRef)
	httpx.JSON(w, http.StatusAccepted, map[string]any{
		"message": "pipeline run enqueued; poll system-status for the new run",
		"started": true,
		"log_ref": handle.LogRef,
	})
}
