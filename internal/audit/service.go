package audit

import (
	"context"
	"fmt"
	"strings"
)

// Query limits. Whatever the client asks for, the fetched window never
// exceeds MaxQueryLimit.
const (
	DefaultQueryLimit = 200
	MaxQueryLimit     = 500
)

// Store is the read/bootstrap side of the audit log.
type Store interface {
	Recent(ctx context.Context, limit int) ([]Record, error)
	EnsureSchema(ctx context.Context) error
}

// Service exposes the bounded read path and the idempotent bootstrap.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Query returns up to min(limit, 500) records, newest first. The search term
// filters the fetched window only: an old record outside the window is not
// found, which is an accepted tradeoff, not full-corpus search.
func (s *Service) Query(ctx context.Context, limit int, search string) ([]Record, error) {
	if s.store == nil {
		return nil, fmt.Errorf("audit: store not configured")
	}
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}
	records, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return records, nil
	}
	filtered := make([]Record, 0, len(records))
	for _, rec := range records {
		if matches(rec, search) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// SetupStore creates the backing schema. Safe to call repeatedly.
func (s *Service) SetupStore(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("audit: store not configured")
	}
	return s.store.EnsureSchema(ctx)
}

func matches(rec Record, search string) bool {
	for _, field := range []string{rec.Username, rec.RoleName, rec.Action, rec.Resource, rec.Status} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
