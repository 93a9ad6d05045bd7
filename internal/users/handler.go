package users

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/campus-insights/campus-insights/internal/audit"
	"github.com/campus-insights/campus-insights/internal/identity"
	"github.com/campus-insights/campus-insights/internal/platform/httpx"
	"github.com/campus-insights/campus-insights/internal/rbac"
)

// Handler serves account management endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	recorder *audit.Recorder
	rbac     rbac.Middleware
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, recorder *audit.Recorder, rbacMW rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		recorder: recorder,
		rbac:     rbacMW,
		validate: validator.New(),
	}
}

// MountRoutes registers the account endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceUsers, rbac.PermissionRead))
		r.Get("/users", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceUsers, rbac.PermissionWrite))
		r.With(httprate.LimitByIP(10, time.Minute)).Post("/users", h.create)
	})
}

type userPayload struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	FullName     string `json:"full_name,omitempty"`
	FacultyID    *int64 `json:"faculty_id,omitempty"`
	DepartmentID *int64 `json:"department_id,omitempty"`
}

func toPayload(u User) userPayload {
	return userPayload{
		ID:           u.ID,
		Username:     u.Username,
		Role:         string(u.Role),
		FullName:     u.FullName,
		FacultyID:    u.FacultyID,
		DepartmentID: u.DepartmentID,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	payloads := make([]userPayload, 0, len(accounts))
	for _, u := range accounts {
		payloads = append(payloads, toPayload(u))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": payloads})
}

type createRequest struct {
	Username     string `json:"username" validate:"required,min=2,max=64"`
	Password     string `json:"password" validate:"required,min=8"`
	Role         string `json:"role" validate:"required"`
	FullName     string `json:"full_name" validate:"max=128"`
	FacultyID    *int64 `json:"faculty_id"`
	DepartmentID *int64 `json:"department_id"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	role, ok := identity.ParseRole(req.Role)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown role "+req.Role)
		return
	}

	created, err := h.service.Create(r.Context(), CreateInput{
		Username:     req.Username,
		Password:     req.Password,
		Role:         role,
		FullName:     req.FullName,
		FacultyID:    req.FacultyID,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		h.recorder.Failure(caller.Username, string(caller.Role), "user_created", "users", err.Error())
		httpx.RespondError(w, err)
		return
	}
	h.recorder.Success(caller.Username, string(caller.Role), "user_created", "users", "created "+created.Username)
	httpx.JSON(w, http.StatusCreated, toPayload(created))
}
