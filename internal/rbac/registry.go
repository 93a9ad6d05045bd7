// Package rbac holds the static permission registry: which role may perform
// which operation on which resource. The whole grant table is one data
// literal so that adding a role or resource is a reviewable one-line change.
// Lookups are pure and fail closed for anything outside the table.
package rbac

import (
	"github.com/campus-insights/campus-insights/internal/identity"
)

// Resource is the closed set of permission-checked resources.
type Resource string

const (
	ResourceDashboard           Resource = "dashboard"
	ResourceAnalytics           Resource = "analytics"
	ResourceReports             Resource = "reports"
	ResourceStudents            Resource = "students"
	ResourceStaff               Resource = "staff"
	ResourceFexAnalytics        Resource = "fex_analytics"
	ResourceHighSchoolAnalytics Resource = "highschool_analytics"
	ResourcePredictions         Resource = "predictions"
	ResourceProfile             Resource = "profile"
	ResourceUsers               Resource = "users"
	ResourceAuditLogs           Resource = "audit_logs"
	ResourceEtl                 Resource = "etl"
	ResourceSettings            Resource = "settings"
)

// Permission is the closed set of operations on a resource.
type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionWrite  Permission = "write"
	PermissionUpdate Permission = "update"
	PermissionExport Permission = "export"
	PermissionShare  Permission = "share"
	PermissionDelete Permission = "delete"
)

type permissionSet map[Permission]struct{}

func perms(list ...Permission) permissionSet {
	set := make(permissionSet, len(list))
	for _, p := range list {
		set[p] = struct{}{}
	}
	return set
}

var (
	readOnly       = perms(PermissionRead)
	readExport     = perms(PermissionRead, PermissionExport)
	readExportShr  = perms(PermissionRead, PermissionExport, PermissionShare)
	readUpdate     = perms(PermissionRead, PermissionUpdate)
	fullManagement = perms(PermissionRead, PermissionWrite, PermissionUpdate, PermissionDelete)
)

type grantKey struct {
	role     identity.Role
	resource Resource
}

// grants is the authoritative role/resource/permission table. Anything not
// present here is denied.
var grants = map[grantKey]permissionSet{
	// Students see their own dashboard and profile, nothing else.
	{identity.RoleStudent, ResourceDashboard}: readOnly,
	{identity.RoleStudent, ResourceProfile}:   readUpdate,

	// Teaching staff: analytics over assigned courses only (row scoping is
	// the resolver's job, the grant is coarse).
	{identity.RoleStaff, ResourceDashboard}: readOnly,
	{identity.RoleStaff, ResourceAnalytics}: readExport,
	{identity.RoleStaff, ResourceStudents}:  readOnly,
	{identity.RoleStaff, ResourceProfile}:   readUpdate,

	{identity.RoleHeadOfDepartment, ResourceDashboard}: readOnly,
	{identity.RoleHeadOfDepartment, ResourceAnalytics}: readExport,
	{identity.RoleHeadOfDepartment, ResourceReports}:   readExport,
	{identity.RoleHeadOfDepartment, ResourceStudents}:  readOnly,
	{identity.RoleHeadOfDepartment, ResourceStaff}:     readUpdate,
	{identity.RoleHeadOfDepartment, ResourceProfile}:   readUpdate,

	{identity.RoleDean, ResourceDashboard}:   readOnly,
	{identity.RoleDean, ResourceAnalytics}:   readExport,
	{identity.RoleDean, ResourceReports}:     readExport,
	{identity.RoleDean, ResourceStudents}:    readOnly,
	{identity.RoleDean, ResourceStaff}:       readOnly,
	{identity.RoleDean, ResourcePredictions}: readOnly,
	{identity.RoleDean, ResourceProfile}:     readUpdate,

	{identity.RoleSenate, ResourceDashboard}:   readOnly,
	{identity.RoleSenate, ResourceAnalytics}:   readExportShr,
	{identity.RoleSenate, ResourceReports}:     readExportShr,
	{identity.RoleSenate, ResourcePredictions}: readOnly,
	{identity.RoleSenate, ResourceProfile}:     readUpdate,

	{identity.RoleFinance, ResourceDashboard}: readOnly,
	{identity.RoleFinance, ResourceAnalytics}: readExport,
	{identity.RoleFinance, ResourceReports}:   readExport,
	{identity.RoleFinance, ResourceProfile}:   readUpdate,

	{identity.RoleHumanResources, ResourceDashboard}: readOnly,
	{identity.RoleHumanResources, ResourceStaff}:     readExport,
	{identity.RoleHumanResources, ResourceReports}:   readExport,
	{identity.RoleHumanResources, ResourceProfile}:   readUpdate,

	{identity.RoleAnalyst, ResourceDashboard}:           readOnly,
	{identity.RoleAnalyst, ResourceAnalytics}:           readExportShr,
	{identity.RoleAnalyst, ResourceFexAnalytics}:        readExport,
	{identity.RoleAnalyst, ResourceHighSchoolAnalytics}: readExport,
	{identity.RoleAnalyst, ResourcePredictions}:         readExport,
	{identity.RoleAnalyst, ResourceReports}:             readExport,
	{identity.RoleAnalyst, ResourceProfile}:             readUpdate,

	{identity.RoleSystemAdministrator, ResourceDashboard}:           readOnly,
	{identity.RoleSystemAdministrator, ResourceAnalytics}:           readExportShr,
	{identity.RoleSystemAdministrator, ResourceReports}:             readExportShr,
	{identity.RoleSystemAdministrator, ResourceStudents}:            readOnly,
	{identity.RoleSystemAdministrator, ResourceStaff}:               fullManagement,
	{identity.RoleSystemAdministrator, ResourceFexAnalytics}:        readExport,
	{identity.RoleSystemAdministrator, ResourceHighSchoolAnalytics}: readExport,
	{identity.RoleSystemAdministrator, ResourcePredictions}:         readExport,
	{identity.RoleSystemAdministrator, ResourceProfile}:             readUpdate,
	{identity.RoleSystemAdministrator, ResourceUsers}:               fullManagement,
	{identity.RoleSystemAdministrator, ResourceAuditLogs}:           readExport,
	{identity.RoleSystemAdministrator, ResourceEtl}:                 perms(PermissionRead, PermissionWrite),
	{identity.RoleSystemAdministrator, ResourceSettings}:            fullManagement,
}

// Allowed reports whether the role may perform the permission on the
// resource. Unknown roles, resources or permissions always return false.
func Allowed(role identity.Role, resource Resource, permission Permission) bool {
	set, ok := grants[grantKey{role: role, resource: resource}]
	if !ok {
		return false
	}
	_, ok = set[permission]
	return ok
}
