package assignment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/campus-insights/campus-insights/internal/identity"
	"github.com/campus-insights/campus-insights/internal/platform/httpx"
)

// ErrStaffNotFound indicates the target staff account does not exist.
var ErrStaffNotFound = errors.New("assignment: staff not found")

// Store abstracts persistence for the service.
type Store interface {
	CoursesInDepartment(ctx context.Context, departmentID int64) ([]Course, error)
	StaffInDepartment(ctx context.Context, departmentID int64) ([]StaffMember, error)
	StaffDepartment(ctx context.Context, staffUsername string) (int64, error)
	Assignments(ctx context.Context, staffUsername string) ([]string, error)
	ReplaceAssignments(ctx context.Context, staffUsername string, codes []string) error
}

// Service enforces the department-ownership rules around course assignments.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CoursesInDepartment lists the department's courses.
func (s *Service) CoursesInDepartment(ctx context.Context, departmentID int64) ([]Course, error) {
	return s.store.CoursesInDepartment(ctx, departmentID)
}

// StaffInDepartment lists the department's staff accounts.
func (s *Service) StaffInDepartment(ctx context.Context, departmentID int64) ([]StaffMember, error) {
	return s.store.StaffInDepartment(ctx, departmentID)
}

// Assignments returns the staff member's course codes. An unassigned staff
// member yields an empty set, not an error.
func (s *Service) Assignments(ctx context.Context, staffUsername string) ([]string, error) {
	return s.store.Assignments(ctx, staffUsername)
}

// Replace swaps the full assignment set for the staff member. The acting
// identity must be a head of department and the target staff must belong to
// the actor's department; every course must exist in that department. Full
// replace rather than add/remove keeps client and server state from drifting.
func (s *Service) Replace(ctx context.Context, actor identity.Identity, staffUsername string, codes []string) error {
	if actor.Role != identity.RoleHeadOfDepartment || !actor.HasDepartment() {
		return fmt.Errorf("%w: only a head of department may change assignments", httpx.ErrForbidden)
	}

	targetDept, err := s.store.StaffDepartment(ctx, staffUsername)
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return fmt.Errorf("%w: staff %q", httpx.ErrNotFound, staffUsername)
		}
		return err
	}
	if targetDept != actor.DepartmentID {
		return fmt.Errorf("%w: staff %q is outside your department", httpx.ErrForbidden, staffUsername)
	}

	normalized, err := s.normalize(ctx, actor.DepartmentID, codes)
	if err != nil {
		return err
	}
	return s.store.ReplaceAssignments(ctx, staffUsername, normalized)
}

// normalize dedupes and validates the requested codes against the
// department's course catalogue.
func (s *Service) normalize(ctx context.Context, departmentID int64, codes []string) ([]string, error) {
	courses, err := s.store.CoursesInDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		known[c.Code] = struct{}{}
	}

	seen := make(map[string]struct{}, len(codes))
	normalized := make([]string, 0, len(codes))
	for _, raw := range codes {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		if _, ok := known[code]; !ok {
			return nil, fmt.Errorf("%w: course %q is not in your department", httpx.ErrValidation, code)
		}
		seen[code] = struct{}{}
		normalized = append(normalized, code)
	}
	sort.Strings(normalized)
	return normalized, nil
}
