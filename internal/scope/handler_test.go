package scope

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/campus-insights/campus-insights/internal/identity"
)

func TestPreviewDescribesStaffScope(t *testing.T) {
	resolver := NewResolver(&stubAssignments{codes: map[string][]string{"t.adeke": {"CS101", "CS102"}}})
	router := chi.NewRouter()
	NewHandler(nil, resolver).MountRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/preview", nil)
	req = req.WithContext(identity.ContextWith(req.Context(), identity.Identity{Username: "t.adeke", Role: identity.RoleStaff}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Username string         `json:"username"`
		Scope    previewPayload `json:"scope"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Scope.Kind != "in" || body.Scope.Column != ColumnCourseCode {
		t.Fatalf("unexpected scope: %+v", body.Scope)
	}
	if len(body.Scope.Values) != 2 {
		t.Fatalf("expected both assigned courses, got %v", body.Scope.Values)
	}
}

func TestPreviewRequiresIdentity(t *testing.T) {
	router := chi.NewRouter()
	NewHandler(nil, NewResolver(nil)).MountRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preview", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
