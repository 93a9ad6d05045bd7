package users

import (
	"time"

	"github.com/campus-insights/campus-insights/internal/identity"
)

// User is a managed dashboard account. Students authenticate against the
// warehouse student records instead and are never stored here.
type User struct {
	ID           int64
	Username     string
	Role         identity.Role
	FullName     string
	FacultyID    *int64
	DepartmentID *int64
	CreatedAt    time.Time
}

// CreateInput carries the fields for a new account.
type CreateInput struct {
	Username     string
	Password     string
	Role         identity.Role
	FullName     string
	FacultyID    *int64
	DepartmentID *int64
}

// creatableRoles is the closed set of roles an administrator may provision.
var creatableRoles = map[identity.Role]struct{}{
	identity.RoleDean:                {},
	identity.RoleHeadOfDepartment:    {},
	identity.RoleStaff:               {},
	identity.RoleHumanResources:      {},
	identity.RoleFinance:             {},
	identity.RoleAnalyst:             {},
	identity.RoleSystemAdministrator: {},
}
