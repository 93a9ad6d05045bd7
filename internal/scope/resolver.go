package scope

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/campus-insights/campus-insights/internal/identity"
)

// AssignmentSource yields the course codes a staff member is assigned to.
// The resolver consults it on every call; assignments are admin-mutable and
// must never be cached across requests.
type AssignmentSource interface {
	Assignments(ctx context.Context, staffUsername string) ([]string, error)
}

// Resolver computes the row-level scope for an identity.
type Resolver struct {
	assignments AssignmentSource
}

// NewResolver constructs a Resolver.
func NewResolver(assignments AssignmentSource) *Resolver {
	return &Resolver{assignments: assignments}
}

// Resolve returns the predicate narrowing data access for the identity.
// When the assignment source is unreachable the returned predicate is Denied
// and the error is reported alongside it: callers that ignore the error still
// hold a fail-closed predicate.
func (r *Resolver) Resolve(ctx context.Context, id identity.Identity) (Predicate, error) {
	switch id.Role {
	case identity.RoleSystemAdministrator, identity.RoleSenate:
		return Unrestricted{}, nil

	case identity.RoleFinance, identity.RoleHumanResources, identity.RoleAnalyst:
		// Restricted at resource level by the registry, not at row level.
		return Unrestricted{}, nil

	case identity.RoleDean:
		if !id.HasFaculty() {
			return Denied{Reason: "dean identity has no faculty"}, nil
		}
		return Equals{Column: ColumnFacultyID, Value: strconv.FormatInt(id.FacultyID, 10)}, nil

	case identity.RoleHeadOfDepartment:
		if !id.HasDepartment() {
			return Denied{Reason: "head of department identity has no department"}, nil
		}
		return Equals{Column: ColumnDepartmentID, Value: strconv.FormatInt(id.DepartmentID, 10)}, nil

	case identity.RoleStaff:
		if r.assignments == nil {
			return Denied{Reason: "assignment source not configured"}, nil
		}
		codes, err := r.assignments.Assignments(ctx, id.Username)
		if err != nil {
			return Denied{Reason: "assignments unavailable"}, fmt.Errorf("scope: load assignments: %w", err)
		}
		if len(codes) == 0 {
			return Denied{Reason: "no course assignments"}, nil
		}
		sorted := make([]string, len(codes))
		copy(sorted, codes)
		sort.Strings(sorted)
		return In{Column: ColumnCourseCode, Values: sorted}, nil

	case identity.RoleStudent:
		if id.StudentKey == "" {
			return Denied{Reason: "student identity has no student key"}, nil
		}
		return Equals{Column: ColumnStudentKey, Value: id.StudentKey}, nil

	default:
		return Denied{Reason: "unknown role"}, nil
	}
}
