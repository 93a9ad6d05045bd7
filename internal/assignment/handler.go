package assignment

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/campus-insights/campus-insights/internal/audit"
	"github.com/campus-insights/campus-insights/internal/identity"
	"github.com/campus-insights/campus-insights/internal/platform/httpx"
	"github.com/campus-insights/campus-insights/internal/rbac"
)

// Handler serves the course assignment endpoints.
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

// MountRoutes registers assignment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceStaff, rbac.PermissionRead))
		r.Get("/courses", h.listCourses)
		r.Get("/staff", h.listStaff)
		r.Get("/{staffUsername}", h.getAssignments)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceStaff, rbac.PermissionUpdate))
		r.With(httprate.LimitByIP(30, time.Minute)).Put("/{staffUsername}", h.replaceAssignments)
	})
}

// departmentFor resolves the department a listing applies to: the explicit
// query parameter when present, otherwise the caller's own department.
func departmentFor(r *http.Request) (int64, error) {
	if raw := r.URL.Query().Get("department_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("%w: department_id must be a positive integer", httpx.ErrValidation)
		}
		return id, nil
	}
	if id, ok := identity.FromContext(r.Context()); ok && id.HasDepartment() {
		return id.DepartmentID, nil
	}
	return 0, fmt.Errorf("%w: department_id is required", httpx.ErrValidation)
}

func (h *Handler) listCourses(w http.ResponseWriter, r *http.Request) {
	departmentID, err := departmentFor(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	courses, err := h.service.CoursesInDepartment(r.Context(), departmentID)
	if err != nil {
		h.logger.Error("list courses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	payload := make([]map[string]any, 0, len(courses))
	for _, c := range courses {
		payload = append(payload, map[string]any{
			"course_code":   c.Code,
			"course_name":   c.Name,
			"department_id": c.DepartmentID,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"courses": payload})
}

func (h *Handler) listStaff(w http.ResponseWriter, r *http.Request) {
	departmentID, err := departmentFor(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	staff, err := h.service.StaffInDepartment(r.Context(), departmentID)
	if err != nil {
		h.logger.Error("list staff", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	payload := make([]map[string]any, 0, len(staff))
	for _, s := range staff {
		payload = append(payload, map[string]any{
			"username":      s.Username,
			"full_name":     s.FullName,
			"department_id": s.DepartmentID,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"staff": payload})
}

func (h *Handler) getAssignments(w http.ResponseWriter, r *http.Request) {
	staffUsername := strings.TrimSpace(chi.URLParam(r, "staffUsername"))
	codes, err := h.service.Assignments(r.Context(), staffUsername)
	if err != nil {
		h.logger.Error("get assignments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if codes == nil {
		codes = []string{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"staff_username": staffUsername, "courses": codes})
}

type replaceRequest struct {
	Courses []string `json:"courses" validate:"omitempty,dive,min=2,max=32"`
}

func (h *Handler) replaceAssignments(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	staffUsername := strings.TrimSpace(chi.URLParam(r, "staffUsername"))

	var req replaceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.Replace(r.Context(), actor, staffUsername, req.Courses); err != nil {
		h.recorder.Failure(actor.Username, string(actor.Role), "assignments_replace", "staff", err.Error())
		httpx.RespondError(w, err)
		return
	}
	h.recorder.Success(actor.Username, string(actor.Role), "assignments_replace", "staff", staffUsername)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "assignments updated"})
}
