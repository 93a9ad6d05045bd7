package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-insights/campus-insights/internal/platform/db"
	"github.com/campus-insights/campus-insights/internal/platform/httpx"
)

const codeUniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all managed accounts ordered by username.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, role, COALESCE(full_name, ''), faculty_id, department_id, created_at
		 FROM app_users ORDER BY username`)
	if err != nil {
		return nil, classify(err, "list")
	}
	defer rows.Close()
	var list []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.FullName, &u.FacultyID, &u.DepartmentID, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Insert stores a new account and returns its ID. Duplicate usernames map
// to ErrDuplicate.
func (r *Repository) Insert(ctx context.Context, input CreateInput, passwordHash string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO app_users (username, password_hash, role, full_name, faculty_id, department_id)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		input.Username, passwordHash, string(input.Role), input.FullName, input.FacultyID, input.DepartmentID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
			return 0, fmt.Errorf("%w: username %q", httpx.ErrDuplicate, input.Username)
		}
		return 0, classify(err, "insert")
	}
	return id, nil
}

// classify maps connection-level failures onto ErrUnavailable so callers see
// a retryable outage instead of an opaque internal error.
func classify(err error, op string) error {
	if db.Unreachable(err) {
		return fmt.Errorf("users: %s: %w: %v", op, httpx.ErrUnavailable, err)
	}
	return fmt.Errorf("users: %s: %w", op, err)
}
