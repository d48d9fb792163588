package rbac

import (
	"fmt"

	"github.com/royalcarriage/platform/internal/shared"
)

// CheckResult is the outcome of a guard: allow/deny plus a reason a human
// can read. Guards never panic and never return errors; a deny is data.
type CheckResult struct {
	Allowed bool
	Reason  string
}

// Allow is the successful check result.
var Allow = CheckResult{Allowed: true}

func deny(format string, args ...any) CheckResult {
	return CheckResult{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// HasPermission reports whether the identity's role grants perm.
func HasPermission(id *shared.Identity, perm Permission) bool {
	if id == nil {
		return false
	}
	return RoleHasPermission(Role(id.Role), perm)
}

// HasAnyPermission reports whether the identity holds at least one of perms.
func HasAnyPermission(id *shared.Identity, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(id, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the identity holds every one of perms.
func HasAllPermissions(id *shared.Identity, perms ...Permission) bool {
	for _, p := range perms {
		if !HasPermission(id, p) {
			return false
		}
	}
	return true
}

// RequirePermission checks a single permission and explains a denial.
func RequirePermission(id *shared.Identity, perm Permission) CheckResult {
	if HasPermission(id, perm) {
		return Allow
	}
	role := "unknown"
	if id != nil {
		role = id.Role
	}
	return deny("user with role %q does not have permission %q", role, perm)
}

// CanAccessOrganization reports whether the identity may touch data owned
// by targetOrgID. saas_admin bypasses the match; everyone else needs an
// exact organization match.
func CanAccessOrganization(id *shared.Identity, targetOrgID string) bool {
	if id == nil {
		return false
	}
	if Role(id.Role) == RoleSaasAdmin {
		return true
	}
	return id.OrganizationID == targetOrgID
}

// RequireOrganizationAccess checks organization scoping and explains a denial.
func RequireOrganizationAccess(id *shared.Identity, targetOrgID string) CheckResult {
	if CanAccessOrganization(id, targetOrgID) {
		return Allow
	}
	return deny("user cannot access organization %q", targetOrgID)
}

// RequirePermissionAndOrganizationAccess composes the two checks; the
// permission check runs first so its denial reason wins.
func RequirePermissionAndOrganizationAccess(id *shared.Identity, perm Permission, targetOrgID string) CheckResult {
	if res := RequirePermission(id, perm); !res.Allowed {
		return res
	}
	return RequireOrganizationAccess(id, targetOrgID)
}

// CanManageUser reports whether actor may manage target. Self-management
// through this path is always forbidden; saas_admin may manage anyone else;
// other actors need the same organization, users:update, and a strictly
// higher hierarchy rank than the target.
func CanManageUser(actor, target *shared.Identity) bool {
	if actor == nil || target == nil {
		return false
	}
	if actor.ID == target.ID {
		return false
	}
	if Role(actor.Role) == RoleSaasAdmin {
		return true
	}
	if actor.OrganizationID != target.OrganizationID {
		return false
	}
	if !HasPermission(actor, PermUsersUpdate) {
		return false
	}
	return RoleHierarchy[Role(actor.Role)] > RoleHierarchy[Role(target.Role)]
}

// CanAssignRole reports whether actor may hand out targetRole. Requires
// users:assign_roles; saas_admin may assign any role, everyone else only
// roles ranked strictly below their own.
func CanAssignRole(actor *shared.Identity, targetRole Role) bool {
	if actor == nil {
		return false
	}
	if !HasPermission(actor, PermUsersAssignRoles) {
		return false
	}
	if Role(actor.Role) == RoleSaasAdmin {
		return true
	}
	return RoleHierarchy[Role(actor.Role)] > RoleHierarchy[targetRole]
}
