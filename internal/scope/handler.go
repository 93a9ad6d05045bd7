package scope

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campus-insights/campus-insights/internal/identity"
	"github.com/campus-insights/campus-insights/internal/platform/httpx"
)

// Handler exposes the caller's resolved scope for debugging dashboards and
// support tickets.
type Handler struct {
	logger   *slog.Logger
	resolver *Resolver
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, resolver *Resolver) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, resolver: resolver}
}

// MountRoutes registers the preview endpoint.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/preview", h.preview)
}

type previewPayload struct {
	Kind   string   `json:"kind"`
	Column string   `json:"column,omitempty"`
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

func describe(p Predicate) previewPayload {
	switch v := p.(type) {
	case Unrestricted:
		return previewPayload{Kind: "unrestricted"}
	case Denied:
		return previewPayload{Kind: "denied", Reason: v.Reason}
	case Equals:
		return previewPayload{Kind: "equals", Column: v.Column, Value: v.Value}
	case In:
		return previewPayload{Kind: "in", Column: v.Column, Values: v.Values}
	default:
		return previewPayload{Kind: "denied", Reason: "unknown predicate"}
	}
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	predicate, err := h.resolver.Resolve(r.Context(), id)
	if err != nil {
		// The predicate is already fail-closed; report the denial rather
		// than a bare 500 so support can see what the caller would get.
		h.logger.Error("resolve scope", slog.String("user", id.Username), slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"username": id.Username,
		"role":     string(id.Role),
		"scope":    describe(predicate),
	})
}
