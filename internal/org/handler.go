package org

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campus-insights/campus-insights/internal/platform/httpx"
	"github.com/campus-insights/campus-insights/internal/rbac"
)

// Catalogue abstracts the dimension reads for the handler.
type Catalogue interface {
	Faculties(ctx context.Context) ([]Faculty, error)
	Departments(ctx context.Context, facultyID *int64) ([]Department, error)
}

// Handler serves the catalogue endpoints used by account provisioning.
type Handler struct {
	logger    *slog.Logger
	catalogue Catalogue
	rbac      rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, catalogue Catalogue, rbacMW rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, catalogue: catalogue, rbac: rbacMW}
}

// MountRoutes registers the catalogue endpoints. They back the account
// provisioning forms, so they share the users resource gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceUsers, rbac.PermissionRead))
		r.Get("/faculties", h.faculties)
		r.Get("/departments", h.departments)
	})
}

func (h *Handler) faculties(w http.ResponseWriter, r *http.Request) {
	faculties, err := h.catalogue.Faculties(r.Context())
	if err != nil {
		h.logger.Error("list faculties", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if faculties == nil {
		faculties = []Faculty{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"faculties": faculties})
}

func (h *Handler) departments(w http.ResponseWriter, r *http.Request) {
	var facultyID *int64
	if raw := r.URL.Query().Get("faculty_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "faculty_id must be an integer")
			return
		}
		facultyID = &parsed
	}
	departments, err := h.catalogue.Departments(r.Context(), facultyID)
	if err != nil {
		h.logger.Error("list departments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if departments == nil {
		departments = []Department{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"departments": departments})
}
