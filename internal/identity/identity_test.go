package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseRole(t *testing.T) {
	if role, ok := ParseRole(" SysAdmin "); !ok || role != RoleSystemAdministrator {
		t.Fatalf("expected sysadmin, got %q ok=%v", role, ok)
	}
	if _, ok := ParseRole("superuser"); ok {
		t.Fatalf("unknown role must not parse")
	}
	if _, ok := ParseRole(""); ok {
		t.Fatalf("empty role must not parse")
	}
}

func TestMiddlewarePopulatesContext(t *testing.T) {
	var got Identity
	var present bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, present = FromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUser, "dean.okello")
	req.Header.Set(HeaderRole, "dean")
	req.Header.Set(HeaderFaculty, "3")
	Middleware(nil)(next).ServeHTTP(httptest.NewRecorder(), req)

	if !present {
		t.Fatalf("identity missing from context")
	}
	if got.Role != RoleDean || got.Username != "dean.okello" || got.FacultyID != 3 {
		t.Fatalf("unexpected identity: %+v", got)
	}
	if got.HasDepartment() {
		t.Fatalf("department should be unset")
	}
}

func TestMiddlewareUnknownRoleLeavesContextEmpty(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); ok {
			t.Fatalf("identity must not be set for unknown role")
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRole, "wizard")
	Middleware(nil)(next).ServeHTTP(httptest.NewRecorder(), req)
}
