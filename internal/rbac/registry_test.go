package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campus-insights/campus-insights/internal/identity"
)

var allResources = []Resource{
	ResourceDashboard, ResourceAnalytics, ResourceReports, ResourceStudents,
	ResourceStaff, ResourceFexAnalytics, ResourceHighSchoolAnalytics,
	ResourcePredictions, ResourceProfile, ResourceUsers, ResourceAuditLogs,
	ResourceEtl, ResourceSettings,
}

var allPermissions = []Permission{
	PermissionRead, PermissionWrite, PermissionUpdate,
	PermissionExport, PermissionShare, PermissionDelete,
}

func TestAllowedFailsClosedOutsideTable(t *testing.T) {
	for _, role := range identity.Roles {
		for _, resource := range allResources {
			if _, granted := grants[grantKey{role: role, resource: resource}]; granted {
				continue
			}
			for _, perm := range allPermissions {
				if Allowed(role, resource, perm) {
					t.Fatalf("role %s must not access %s/%s", role, resource, perm)
				}
			}
		}
	}
}

func TestAllowedUnknownInputs(t *testing.T) {
	if Allowed("wizard", ResourceAnalytics, PermissionRead) {
		t.Fatalf("unknown role allowed")
	}
	if Allowed(identity.RoleSystemAdministrator, "payroll", PermissionRead) {
		t.Fatalf("unknown resource allowed")
	}
	if Allowed(identity.RoleSystemAdministrator, ResourceAnalytics, "grant") {
		t.Fatalf("unknown permission allowed")
	}
}

func TestAdministrativeResourcesAreSysadminOnly(t *testing.T) {
	for _, resource := range []Resource{ResourceUsers, ResourceAuditLogs, ResourceEtl, ResourceSettings} {
		if !Allowed(identity.RoleSystemAdministrator, resource, PermissionRead) {
			t.Fatalf("sysadmin must read %s", resource)
		}
		for _, role := range identity.Roles {
			if role == identity.RoleSystemAdministrator {
				continue
			}
			if Allowed(role, resource, PermissionRead) {
				t.Fatalf("role %s must not read %s", role, resource)
			}
		}
	}
}

func TestStudentCannotExportAnalytics(t *testing.T) {
	if Allowed(identity.RoleStudent, ResourceAnalytics, PermissionRead) {
		t.Fatalf("student must not read analytics")
	}
	if Allowed(identity.RoleStudent, ResourceAnalytics, PermissionExport) {
		t.Fatalf("student must not export analytics")
	}
}

func TestRequireDeniesWithoutIdentity(t *testing.T) {
	mw := Middleware{}
	handler := mw.Require(ResourceAnalytics, PermissionRead)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireReportsOutcomeToAudit(t *testing.T) {
	type outcome struct {
		resource Resource
		allowed  bool
	}
	var seen []outcome
	mw := Middleware{Audit: func(_ context.Context, _ identity.Identity, resource Resource, _ Permission, allowed bool) {
		seen = append(seen, outcome{resource: resource, allowed: allowed})
	}}

	handler := mw.Require(ResourceAuditLogs, PermissionRead)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	asRole := func(role identity.Role) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(identity.ContextWith(req.Context(), identity.Identity{Username: "u", Role: role}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := asRole(identity.RoleSystemAdministrator); rec.Code != http.StatusOK {
		t.Fatalf("sysadmin expected 200, got %d", rec.Code)
	}
	if rec := asRole(identity.RoleDean); rec.Code != http.StatusForbidden {
		t.Fatalf("dean expected 403, got %d", rec.Code)
	}
	if len(seen) != 2 || !seen[0].allowed || seen[1].allowed {
		t.Fatalf("unexpected audit outcomes: %+v", seen)
	}
}
