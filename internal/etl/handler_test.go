package etl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/campus-insights/campus-insights/internal/identity"
	"github.com/campus-insights/campus-insights/internal/platform/httpx"
	"github.com/campus-insights/campus-insights/internal/rbac"
)

type failingStore struct{ err error }

func (s *failingStore) RecentRuns(context.Context, int) ([]Run, error) { return nil, s.err }

func (s *failingStore) TableCounts(context.Context, []string) ([]TableCount, error) {
	return nil, s.err
}

func statusRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(identity.ContextWith(req.Context(),
		identity.Identity{Username: "admin", Role: identity.RoleSystemAdministrator}))
}

func TestSystemStatusRejectsBadLimit(t *testing.T) {
	h := NewHandler(nil, NewService(&stubStore{}, nil), nil, rbac.Middleware{})
	router := chi.NewRouter()
	h.MountRoutes(router)

	for _, limit := range []string{"abc", "-1"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, statusRequest("/system-status?etl_runs_limit="+limit))
		require.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestSystemStatusSurfacesStoreOutage(t *testing.T) {
	store := &failingStore{err: fmt.Errorf("etl: recent runs: %w: dial refused", httpx.ErrUnavailable)}
	h := NewHandler(nil, NewService(store, nil), nil, rbac.Middleware{})
	router := chi.NewRouter()
	h.MountRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, statusRequest("/system-status"))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
