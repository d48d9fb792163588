package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissionsForRoleSubsetOfVocabulary(t *testing.T) {
	vocab := make(map[Permission]struct{}, len(AllPermissions))
	for _, p := range AllPermissions {
		vocab[p] = struct{}{}
	}
	for _, role := range AllRoles {
		for _, p := range PermissionsForRole(role) {
			_, ok := vocab[p]
			require.True(t, ok, "role %s grants %s which is outside the vocabulary", role, p)
		}
	}
}

func TestPermissionsForRoleDeterministic(t *testing.T) {
	for _, role := range AllRoles {
		first := PermissionsForRole(role)
		second := PermissionsForRole(role)
		require.Equal(t, first, second)
	}
}

func TestPermissionsForRoleUnknownRole(t *testing.T) {
	require.Empty(t, PermissionsForRole(Role("intern")))
	require.False(t, ValidRole(Role("intern")))
}

func TestRoleHasPermissionDeniesUngranted(t *testing.T) {
	granted := make(map[Role]map[Permission]struct{})
	for role, perms := range RolePermissions {
		granted[role] = make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			granted[role][p] = struct{}{}
		}
	}
	for _, role := range AllRoles {
		for _, p := range AllPermissions {
			_, want := granted[role][p]
			require.Equal(t, want, RoleHasPermission(role, p), "role=%s perm=%s", role, p)
		}
	}
}

func TestDispatcherCannotDeleteVehicles(t *testing.T) {
	require.True(t, RoleHasPermission(RoleDispatcher, PermVehiclesView))
	require.False(t, RoleHasPermission(RoleDispatcher, PermVehiclesDelete))
	require.False(t, RoleHasPermission(RoleAccountant, PermVehiclesView))
}

func TestIsRoleAtLeast(t *testing.T) {
	require.True(t, IsRoleAtLeast(RoleSaasAdmin, RoleAdmin))
	require.True(t, IsRoleAtLeast(RoleAdmin, RoleAdmin))
	require.True(t, IsRoleAtLeast(RoleDispatcher, RoleAccountant), "equal rank counts as at least")
	require.False(t, IsRoleAtLeast(RoleFleetManager, RoleAdmin))
}

func TestAssignableRolesStrictlyLower(t *testing.T) {
	for _, role := range AllRoles {
		for _, assignable := range AssignableRoles(role) {
			require.NotEqual(t, role, assignable)
			require.Less(t, RoleHierarchy[assignable], RoleHierarchy[role])
		}
	}
}

func TestAssignableRolesContents(t *testing.T) {
	require.Empty(t, AssignableRoles(RoleDispatcher))
	require.Empty(t, AssignableRoles(RoleAccountant))
	require.ElementsMatch(t, []Role{RoleDispatcher, RoleAccountant}, AssignableRoles(RoleFleetManager))
	require.ElementsMatch(t, []Role{RoleDispatcher, RoleAccountant, RoleFleetManager}, AssignableRoles(RoleAdmin))
	require.ElementsMatch(t, []Role{RoleDispatcher, RoleAccountant, RoleFleetManager, RoleAdmin}, AssignableRoles(RoleSaasAdmin))
	require.Nil(t, AssignableRoles(Role("intern")))
}
