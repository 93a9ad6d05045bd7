package org

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-insights/campus-insights/internal/platform/db"
	"github.com/campus-insights/campus-insights/internal/platform/httpx"
)

// Repository reads the organisational dimensions from the warehouse.
type Repository struct {
	warehouse *pgxpool.Pool
}

// NewRepository constructs a repository over the warehouse pool.
func NewRepository(warehouse *pgxpool.Pool) *Repository {
	return &Repository{warehouse: warehouse}
}

// Faculties returns every faculty ordered by name.
func (r *Repository) Faculties(ctx context.Context) ([]Faculty, error) {
	rows, err := r.warehouse.Query(ctx,
		`SELECT faculty_id, faculty_name FROM dim_faculty ORDER BY faculty_name`)
	if err != nil {
		return nil, classify(err, "faculties")
	}
	defer rows.Close()
	var list []Faculty
	for rows.Next() {
		var f Faculty
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// Departments returns departments ordered by name, optionally limited to a
// single faculty when facultyID is non-nil.
func (r *Repository) Departments(ctx context.Context, facultyID *int64) ([]Department, error) {
	query := `SELECT department_id, department_name, faculty_id FROM dim_department`
	args := []any{}
	if facultyID != nil {
		query += ` WHERE faculty_id = $1`
		args = append(args, *facultyID)
	}
	query += ` ORDER BY department_name`

	rows, err := r.warehouse.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "departments")
	}
	defer rows.Close()
	var list []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.FacultyID); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// classify maps connection-level failures onto ErrUnavailable so callers see
// a retryable outage instead of an opaque internal error.
func classify(err error, op string) error {
	if db.Unreachable(err) {
		return fmt.Errorf("org: %s: %w: %v", op, httpx.ErrUnavailable, err)
	}
	return fmt.Errorf("org: %s: %w", op, err)
}
