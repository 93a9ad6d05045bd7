package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-insights/campus-insights/internal/platform/db"
	"github.com/campus-insights/campus-insights/internal/platform/httpx"
)

// Postgres error codes that mean the audit store was never set up.
const (
	codeUndefinedTable    = "42P01"
	codeInvalidCatalog    = "3D000"
	codeUndefinedFunction = "42883"
)

// Repository provides PostgreSQL backed persistence for audit records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert appends one audit record.
func (r *Repository) Insert(ctx context.Context, entry Entry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (username, role_name, action, resource, resource_id, status, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.Username, entry.RoleName, entry.Action, entry.Resource, entry.ResourceID, entry.Status, entry.ErrorMessage)
	if err != nil {
		return classify(err, "insert")
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT log_id, created_at, username, role_name, action, resource, COALESCE(resource_id, ''), status, COALESCE(error_message, '')
		 FROM audit_logs ORDER BY created_at DESC, log_id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, classify(err, "query")
	}
	defer rows.Close()
	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Username, &rec.RoleName, &rec.Action,
			&rec.Resource, &rec.ResourceID, &rec.Status, &rec.ErrorMessage); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// EnsureSchema creates the audit table when absent. Safe to call repeatedly.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS audit_logs (
			log_id        BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			username      VARCHAR(100) NOT NULL DEFAULT '',
			role_name     VARCHAR(50) NOT NULL DEFAULT '',
			action        VARCHAR(100) NOT NULL,
			resource      VARCHAR(100) NOT NULL DEFAULT '',
			resource_id   VARCHAR(100),
			status        VARCHAR(50) NOT NULL DEFAULT 'success',
			error_message TEXT,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("audit: ensure schema: %w", err)
	}
	_, err = r.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at ON audit_logs (created_at DESC)`)
	if err != nil {
		return fmt.Errorf("audit: ensure index: %w", err)
	}
	return nil
}

// classify maps "table/database missing" onto ErrNotConfigured so callers can
// offer the setup path, and connection-level failures onto ErrUnavailable so
// readers see a retryable outage instead of an opaque failure.
func classify(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUndefinedTable, codeInvalidCatalog, codeUndefinedFunction:
			return fmt.Errorf("%w: audit_logs missing", httpx.ErrNotConfigured)
		}
	}
	if db.Unreachable(err) {
		return fmt.Errorf("audit: %s: %w: %v", op, httpx.ErrUnavailable, err)
	}
	return fmt.Errorf("audit: %s: %w", op, err)
}
