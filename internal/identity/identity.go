// Package identity models the authenticated caller as propagated by the
// auth gateway. The engine performs no authentication of its own: it trusts
// the role and organizational attributes handed to it and fails closed when
// they are absent.
package identity

import (
	"context"
	"strings"
)

// Role is the closed set of caller roles.
type Role string

const (
	RoleStudent             Role = "student"
	RoleStaff               Role = "staff"
	RoleHeadOfDepartment    Role = "hod"
	RoleDean                Role = "dean"
	RoleSenate              Role = "senate"
	RoleFinance             Role = "finance"
	RoleHumanResources      Role = "hr"
	RoleAnalyst             Role = "analyst"
	RoleSystemAdministrator Role = "sysadmin"
)

// Roles lists every known role.
var Roles = []Role{
	RoleStudent,
	RoleStaff,
	RoleHeadOfDepartment,
	RoleDean,
	RoleSenate,
	RoleFinance,
	RoleHumanResources,
	RoleAnalyst,
	RoleSystemAdministrator,
}

// ParseRole maps a wire value onto a known role. ok is false for anything
// outside the closed set, which downstream checks treat as "no permissions".
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Roles {
		if role == known {
			return role, true
		}
	}
	return "", false
}

// Identity describes the authenticated caller for the lifetime of one request.
// Organizational attributes are optional; a zero value means "not set".
type Identity struct {
	Username     string
	Role         Role
	FacultyID    int64
	DepartmentID int64
	StudentKey   string
}

// HasFaculty reports whether a faculty attribute was propagated.
func (id Identity) HasFaculty() bool { return id.FacultyID > 0 }

// HasDepartment reports whether a department attribute was propagated.
func (id Identity) HasDepartment() bool { return id.DepartmentID > 0 }

type identityContextKey struct{}

// ContextWith stores the identity in context.
func ContextWith(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// FromContext extracts the caller identity from context.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
