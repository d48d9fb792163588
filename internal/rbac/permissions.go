// Package rbac is the single policy module shared by every deployment
// target: roles, the permission vocabulary, the role hierarchy, and the
// pure lookup functions over them. All tables are fixed at compile time.
package rbac

// Role is a named authorization tier assigned to a user.
type Role string

// All roles in the system.
const (
	RoleDispatcher   Role = "dispatcher"
	RoleAccountant   Role = "accountant"
	RoleFleetManager Role = "fleet_manager"
	RoleAdmin        Role = "admin"
	RoleSaasAdmin    Role = "saas_admin"
)

// Permission is a fine-grained capability tag.
type Permission string

// Permission vocabulary.
const (
	PermVehiclesView   Permission = "vehicles:view"
	PermVehiclesCreate Permission = "vehicles:create"
	PermVehiclesUpdate Permission = "vehicles:update"
	PermVehiclesDelete Permission = "vehicles:delete"
	PermVehiclesManage Permission = "vehicles:manage"

	PermDriversView           Permission = "drivers:view"
	PermDriversCreate         Permission = "drivers:create"
	PermDriversUpdate         Permission = "drivers:update"
	PermDriversDelete         Permission = "drivers:delete"
	PermDriversManage         Permission = "drivers:manage"
	PermDriversProfilesManage Permission = "drivers:profiles:manage"

	PermVehicleAssignmentsView   Permission = "vehicle_assignments:view"
	PermVehicleAssignmentsCreate Permission = "vehicle_assignments:create"
	PermVehicleAssignmentsUpdate Permission = "vehicle_assignments:update"
	PermVehicleAssignmentsDelete Permission = "vehicle_assignments:delete"

	PermVehicleIssuesView   Permission = "vehicle_issues:view"
	PermVehicleIssuesCreate Permission = "vehicle_issues:create"
	PermVehicleIssuesUpdate Permission = "vehicle_issues:update"
	PermVehicleIssuesDelete Permission = "vehicle_issues:delete"
	PermVehicleIssuesReport Permission = "vehicle_issues:report"

	PermFleetView   Permission = "fleet:view"
	PermFleetManage Permission = "fleet:manage"

	PermAccountingView      Permission = "accounting:view"
	PermAccountingImportCSV Permission = "accounting:import_csv"
	PermAccountingExport    Permission = "accounting:export"

	PermReceiptsView   Permission = "receipts:view"
	PermReceiptsUpload Permission = "receipts:upload"
	PermReceiptsDelete Permission = "receipts:delete"

	PermRefundsView    Permission = "refunds:view"
	PermRefundsReport  Permission = "refunds:report"
	PermRefundsApprove Permission = "refunds:approve"

	PermDeductionsView   Permission = "deductions:view"
	PermDeductionsCreate Permission = "deductions:create"
	PermDeductionsUpdate Permission = "deductions:update"
	PermDeductionsDelete Permission = "deductions:delete"

	PermOrganizationView        Permission = "organization:view"
	PermOrganizationUpdate      Permission = "organization:update"
	PermOrganizationManageUsers Permission = "organization:manage_users"

	PermUsersView        Permission = "users:view"
	PermUsersCreate      Permission = "users:create"
	PermUsersUpdate      Permission = "users:update"
	PermUsersDelete      Permission = "users:delete"
	PermUsersAssignRoles Permission = "users:assign_roles"

	PermSaasViewAllOrganizations Permission = "saas:view_all_organizations"
	PermSaasManageOrganizations  Permission = "saas:manage_organizations"
	PermSaasViewAllData          Permission = "saas:view_all_data"

	PermAIChatAccess            Permission = "ai_chat:access"
	PermAIChatViewSensitiveData Permission = "ai_chat:view_sensitive_data"
)

// AllRoles lists every known role.
var AllRoles = []Role{
	RoleDispatcher,
	RoleAccountant,
	RoleFleetManager,
	RoleAdmin,
	RoleSaasAdmin,
}

// AllPermissions is the global permission vocabulary.
var AllPermissions = []Permission{
	PermVehiclesView, PermVehiclesCreate, PermVehiclesUpdate, PermVehiclesDelete, PermVehiclesManage,
	PermDriversView, PermDriversCreate, PermDriversUpdate, PermDriversDelete, PermDriversManage, PermDriversProfilesManage,
	PermVehicleAssignmentsView, PermVehicleAssignmentsCreate, PermVehicleAssignmentsUpdate, PermVehicleAssignmentsDelete,
	PermVehicleIssuesView, PermVehicleIssuesCreate, PermVehicleIssuesUpdate, PermVehicleIssuesDelete, PermVehicleIssuesReport,
	PermFleetView, PermFleetManage,
	PermAccountingView, PermAccountingImportCSV, PermAccountingExport,
	PermReceiptsView, PermReceiptsUpload, PermReceiptsDelete,
	PermRefundsView, PermRefundsReport, PermRefundsApprove,
	PermDeductionsView, PermDeductionsCreate, PermDeductionsUpdate, PermDeductionsDelete,
	PermOrganizationView, PermOrganizationUpdate, PermOrganizationManageUsers,
	PermUsersView, PermUsersCreate, PermUsersUpdate, PermUsersDelete, PermUsersAssignRoles,
	PermSaasViewAllOrganizations, PermSaasManageOrganizations, PermSaasViewAllData,
	PermAIChatAccess, PermAIChatViewSensitiveData,
}

// RoleHierarchy ranks roles for relative seniority comparisons only;
// it never derives permissions.
var RoleHierarchy = map[Role]int{
	RoleDispatcher:   1,
	RoleAccountant:   1,
	RoleFleetManager: 2,
	RoleAdmin:        3,
	RoleSaasAdmin:    4,
}

// RolePermissions maps each role to its granted permission set.
var RolePermissions = map[Role][]Permission{
	RoleDispatcher: {
		PermVehiclesView,
		PermDriversView,
		PermVehicleAssignmentsView,
		PermVehicleIssuesView,
		PermAIChatAccess,
	},

	RoleAccountant: {
		PermAccountingView,
		PermAccountingImportCSV,
		PermAccountingExport,
		PermDriversView,
		PermReceiptsView,
		PermReceiptsUpload,
		PermRefundsView,
		PermRefundsReport,
		PermAIChatAccess,
	},

	RoleFleetManager: {
		PermVehiclesView,
		PermVehiclesCreate,
		PermVehiclesUpdate,
		PermDriversView,
		PermDriversCreate,
		PermDriversUpdate,
		PermDriversManage,
		PermDriversProfilesManage,
		PermVehicleAssignmentsView,
		PermVehicleAssignmentsCreate,
		PermVehicleAssignmentsUpdate,
		PermVehicleIssuesView,
		PermVehicleIssuesCreate,
		PermVehicleIssuesUpdate,
		PermVehicleIssuesReport,
		PermFleetView,
		PermFleetManage,
		PermDeductionsView,
		PermDeductionsCreate,
		PermDeductionsUpdate,
		PermAIChatAccess,
	},

	RoleAdmin: {
		PermVehiclesView,
		PermVehiclesCreate,
		PermVehiclesUpdate,
		PermVehiclesDelete,
		PermVehiclesManage,
		PermDriversView,
		PermDriversCreate,
		PermDriversUpdate,
		PermDriversDelete,
		PermDriversManage,
		PermDriversProfilesManage,
		PermVehicleAssignmentsView,
		PermVehicleAssignmentsCreate,
		PermVehicleAssignmentsUpdate,
		PermVehicleAssignmentsDelete,
		PermVehicleIssuesView,
		PermVehicleIssuesCreate,
		PermVehicleIssuesUpdate,
		PermVehicleIssuesDelete,
		PermVehicleIssuesReport,
		PermFleetView,
		PermFleetManage,
		PermAccountingView,
		PermAccountingImportCSV,
		PermAccountingExport,
		PermReceiptsView,
		PermReceiptsUpload,
		PermReceiptsDelete,
		PermRefundsView,
		PermRefundsReport,
		PermRefundsApprove,
		PermDeductionsView,
		PermDeductionsCreate,
		PermDeductionsUpdate,
		PermDeductionsDelete,
		PermOrganizationView,
		PermOrganizationUpdate,
		PermOrganizationManageUsers,
		PermUsersView,
		PermUsersCreate,
		PermUsersUpdate,
		PermUsersDelete,
		PermUsersAssignRoles,
		PermAIChatAccess,
		PermAIChatViewSensitiveData,
	},

	RoleSaasAdmin: {
		PermVehiclesView,
		PermVehiclesCreate,
		PermVehiclesUpdate,
		PermVehiclesDelete,
		PermVehiclesManage,
		PermDriversView,
		PermDriversCreate,
		PermDriversUpdate,
		PermDriversDelete,
		PermDriversManage,
		PermDriversProfilesManage,
		PermVehicleAssignmentsView,
		PermVehicleAssignmentsCreate,
		PermVehicleAssignmentsUpdate,
		PermVehicleAssignmentsDelete,
		PermVehicleIssuesView,
		PermVehicleIssuesCreate,
		PermVehicleIssuesUpdate,
		PermVehicleIssuesDelete,
		PermVehicleIssuesReport,
		PermFleetView,
		PermFleetManage,
		PermAccountingView,
		PermAccountingImportCSV,
		PermAccountingExport,
		PermReceiptsView,
		PermReceiptsUpload,
		PermReceiptsDelete,
		PermRefundsView,
		PermRefundsReport,
		PermRefundsApprove,
		PermDeductionsView,
		PermDeductionsCreate,
		PermDeductionsUpdate,
		PermDeductionsDelete,
		PermOrganizationView,
		PermOrganizationUpdate,
		PermOrganizationManageUsers,
		PermUsersView,
		PermUsersCreate,
		PermUsersUpdate,
		PermUsersDelete,
		PermUsersAssignRoles,
		PermAIChatAccess,
		PermAIChatViewSensitiveData,
		PermSaasViewAllOrganizations,
		PermSaasManageOrganizations,
		PermSaasViewAllData,
	},
}

// ValidRole reports whether role is part of the closed role set.
func ValidRole(role Role) bool {
	_, ok := RoleHierarchy[role]
	return ok
}

// PermissionsForRole returns the permission set granted to role.
// Unknown roles yield an empty set, never an error.
func PermissionsForRole(role Role) []Permission {
	perms := RolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// RoleHasPermission reports whether role is granted perm.
func RoleHasPermission(role Role, perm Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// IsRoleAtLeast reports whether role ranks at least as high as other.
func IsRoleAtLeast(role, other Role) bool {
	return RoleHierarchy[role] >= RoleHierarchy[other]
}

// AssignableRoles returns the roles ranked strictly below role.
func AssignableRoles(role Role) []Role {
	rank, ok := RoleHierarchy[role]
	if !ok {
		return nil
	}
	var out []Role
	for _, r := range AllRoles {
		if RoleHierarchy[r] < rank {
			out = append(out, r)
		}
	}
	return out
}
