package org

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/campus-insights/campus-insights/internal/identity"
	"github.com/campus-insights/campus-insights/internal/rbac"
)

type stubCatalogue struct {
	faculties   []Faculty
	departments []Department
	lastFilter  *int64
}

func (s *stubCatalogue) Faculties(context.Context) ([]Faculty, error) {
	return s.faculties, nil
}

func (s *stubCatalogue) Departments(_ context.Context, facultyID *int64) ([]Department, error) {
	s.lastFilter = facultyID
	return s.departments, nil
}

func newTestRouter(cat Catalogue) chi.Router {
	r := chi.NewRouter()
	NewHandler(nil, cat, rbac.Middleware{}).MountRoutes(r)
	return r
}

func asRole(req *http.Request, role identity.Role) *http.Request {
	id := identity.Identity{Username: "tester", Role: role}
	return req.WithContext(identity.ContextWith(req.Context(), id))
}

func TestDepartmentsFiltersByFaculty(t *testing.T) {
	cat := &stubCatalogue{departments: []Department{{ID: 1, Name: "Computer Science", FacultyID: 3}}}
	router := newTestRouter(cat)

	req := asRole(httptest.NewRequest(http.MethodGet, "/departments?faculty_id=3", nil), identity.RoleSystemAdministrator)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, cat.lastFilter)
	require.EqualValues(t, 3, *cat.lastFilter)

	var body struct {
		Departments []Department `json:"departments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Departments, 1)
}

func TestDepartmentsRejectsBadFilter(t *testing.T) {
	router := newTestRouter(&stubCatalogue{})
	req := asRole(httptest.NewRequest(http.MethodGet, "/departments?faculty_id=abc", nil), identity.RoleSystemAdministrator)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogueIsAdministratorOnly(t *testing.T) {
	router := newTestRouter(&stubCatalogue{})
	req := asRole(httptest.NewRequest(http.MethodGet, "/faculties", nil), identity.RoleStaff)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFacultiesReturnsEmptyListNotNull(t *testing.T) {
	router := newTestRouter(&stubCatalogue{})
	req := asRole(httptest.NewRequest(http.MethodGet, "/faculties", nil), identity.RoleSystemAdministrator)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"faculties": []}`, rec.Body.String())
}
