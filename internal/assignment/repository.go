package assignment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-insights/campus-insights/internal/platform/db"
	"github.com/campus-insights/campus-insights/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence. Courses live in the
// warehouse star schema; staff accounts and assignments live in the engine
// store.
type Repository struct {
	engine    *pgxpool.Pool
	warehouse *pgxpool.Pool
}

// NewRepository constructs a repository over the two pools.
func NewRepository(engine, warehouse *pgxpool.Pool) *Repository {
	return &Repository{engine: engine, warehouse: warehouse}
}

// CoursesInDepartment lists the department's courses ordered by code.
func (r *Repository) CoursesInDepartment(ctx context.Context, departmentID int64) ([]Course, error) {
	rows, err := r.warehouse.Query(ctx,
		`SELECT course_code, course_name, department_id FROM dim_course WHERE department_id = $1 ORDER BY course_code`,
		departmentID)
	if err != nil {
		return nil, classify(err, "list courses")
	}
	defer rows.Close()
	var courses []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.Code, &c.Name, &c.DepartmentID); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// StaffInDepartment lists staff accounts belonging to the department.
func (r *Repository) StaffInDepartment(ctx context.Context, departmentID int64) ([]StaffMember, error) {
	rows, err := r.engine.Query(ctx,
		`SELECT username, full_name, department_id FROM app_users WHERE role = 'staff' AND department_id = $1 ORDER BY username`,
		departmentID)
	if err != nil {
		return nil, classify(err, "list staff")
	}
	defer rows.Close()
	var staff []StaffMember
	for rows.Next() {
		var s StaffMember
		if err := rows.Scan(&s.Username, &s.FullName, &s.DepartmentID); err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

// StaffDepartment returns the department the staff account belongs to.
func (r *Repository) StaffDepartment(ctx context.Context, staffUsername string) (int64, error) {
	var departmentID *int64
	err := r.engine.QueryRow(ctx,
		`SELECT department_id FROM app_users WHERE username = $1 AND role = 'staff'`,
		staffUsername).Scan(&departmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrStaffNotFound
		}
		return 0, classify(err, "staff department")
	}
	if departmentID == nil {
		return 0, nil
	}
	return *departmentID, nil
}

// Assignments returns the course codes assigned to the staff member. No rows
// is an empty slice, not an error.
func (r *Repository) Assignments(ctx context.Context, staffUsername string) ([]string, error) {
	rows, err := r.engine.Query(ctx,
		`SELECT course_code FROM course_assignments WHERE staff_username = $1 ORDER BY course_code`,
		staffUsername)
	if err != nil {
		return nil, classify(err, "load assignments")
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// ReplaceAssignments atomically swaps the staff member's assignment set.
// Delete plus insert inside one transaction so a concurrent reader never
// observes a partial set.
func (r *Repository) ReplaceAssignments(ctx context.Context, staffUsername string, codes []string) error {
	err := db.WithTx(ctx, r.engine, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM course_assignments WHERE staff_username = $1`, staffUsername); err != nil {
			return fmt.Errorf("clear assignments: %w", err)
		}
		for _, code := range codes {
			if _, err := tx.Exec(ctx,
				`INSERT INTO course_assignments (staff_username, course_code) VALUES ($1, $2)`,
				staffUsername, code); err != nil {
				return fmt.Errorf("insert assignment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return classify(err, "replace assignments")
	}
	return nil
}

// classify maps connection-level failures onto ErrUnavailable so callers see
// a retryable outage instead of an opaque internal error.
func classify(err error, op string) error {
	if db.Unreachable(err) {
		return fmt.Errorf("assignment: %s: %w: %v", op, httpx.ErrUnavailable, err)
	}
	return fmt.Errorf("assignment: %s: %w", op, err)
}
