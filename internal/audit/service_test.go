package audit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/campus-insights/campus-insights/internal/platform/httpx"
)

type stubStore struct {
	records   []Record
	lastLimit int
	err       error
	schemaRun int
}

func (s *stubStore) Recent(_ context.Context, limit int) ([]Record, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	if limit > len(s.records) {
		limit = len(s.records)
	}
	return s.records[:limit], nil
}

func (s *stubStore) EnsureSchema(context.Context) error {
	s.schemaRun++
	return s.err
}

func record(user, role, action, resource, status string) Record {
	return Record{
		CreatedAt: time.Now(),
		Username:  user,
		RoleName:  role,
		Action:    action,
		Resource:  resource,
		Status:    status,
	}
}

func TestQueryClampsLimit(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store)

	if _, err := svc.Query(context.Background(), 10_000, ""); err != nil {
		t.Fatalf("query: %v", err)
	}
	if store.lastLimit != MaxQueryLimit {
		t.Fatalf("expected clamp to %d, got %d", MaxQueryLimit, store.lastLimit)
	}

	if _, err := svc.Query(context.Background(), 0, ""); err != nil {
		t.Fatalf("query: %v", err)
	}
	if store.lastLimit != DefaultQueryLimit {
		t.Fatalf("expected default %d, got %d", DefaultQueryLimit, store.lastLimit)
	}
}

func TestQuerySearchIsCaseInsensitive(t *testing.T) {
	store := &stubStore{records: []Record{
		record("admin", "sysadmin", "etl_started", "system", StatusSuccess),
		record("dean.okello", "dean", "export_pdf", "export", StatusSuccess),
		record("t.adeke", "staff", "login", "auth", StatusFailure),
	}}
	svc := NewService(store)

	got, err := svc.Query(context.Background(), 500, "ETL")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].Action != "etl_started" {
		t.Fatalf("unexpected result: %+v", got)
	}

	got, err = svc.Query(context.Background(), 500, "FAILURE")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].Username != "t.adeke" {
		t.Fatalf("status search failed: %+v", got)
	}
}

func TestQueryNoMatchesReturnsEmptyWithoutError(t *testing.T) {
	store := &stubStore{records: []Record{
		record("admin", "sysadmin", "login", "auth", StatusSuccess),
	}}
	svc := NewService(store)

	got, err := svc.Query(context.Background(), 500, "nonexistent-xyz")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestQueryPropagatesNotConfigured(t *testing.T) {
	store := &stubStore{err: fmt.Errorf("%w: audit_logs missing", httpx.ErrNotConfigured)}
	svc := NewService(store)

	_, err := svc.Query(context.Background(), 10, "")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestSetupStoreIsDelegatedEachCall(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store)
	if err := svc.SetupStore(context.Background()); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := svc.SetupStore(context.Background()); err != nil {
		t.Fatalf("setup twice: %v", err)
	}
	if store.schemaRun != 2 {
		t.Fatalf("expected 2 schema runs, got %d", store.schemaRun)
	}
}
