package users

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/royalcarriage/platform/internal/shared"
)

type memoryRepo struct {
	users map[string]*User
}

func newMemoryRepo(users ...*User) *memoryRepo {
	r := &memoryRepo{users: make(map[string]*User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memoryRepo) List(ctx context.Context, organizationID string) ([]User, error) {
	var out []User
	for _, u := range r.users {
		if organizationID == "" || u.OrganizationID == organizationID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memoryRepo) UpdateRole(ctx context.Context, id, role string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	copied := *u
	return &copied, nil
}

func (r *memoryRepo) SetActive(ctx context.Context, id string, active bool) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	u.IsActive = active
	u.UpdatedAt = time.Now()
	copied := *u
	return &copied, nil
}

func testUser(id, email, role, org string) *User {
	return &User{ID: id, Email: email, Role: role, OrganizationID: org, IsActive: true}
}

func actor(id, role, org string) *shared.Identity {
	return &shared.Identity{ID: id, Role: role, OrganizationID: org, IsActive: true}
}

func newTestService(users ...*User) (*Service, *memoryRepo) {
	repo := newMemoryRepo(users...)
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func TestListScopedToOrganization(t *testing.T) {
	svc, _ := newTestService(
		testUser("u1", "a@rc.test", "dispatcher", "org-1"),
		testUser("u2", "b@rc.test", "admin", "org-1"),
		testUser("u3", "c@rc.test", "admin", "org-2"),
	)

	users, err := svc.List(context.Background(), actor("u2", "admin", "org-1"))
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		require.Equal(t, "org-1", u.OrganizationID)
	}

	// saas_admin sees every organization.
	users, err = svc.List(context.Background(), actor("root", "saas_admin", "org-hq"))
	require.NoError(t, err)
	require.Len(t, users, 3)
}

func TestGetCrossOrgLooksMissing(t *testing.T) {
	svc, _ := newTestService(testUser("u3", "c@rc.test", "admin", "org-2"))

	_, err := svc.Get(context.Background(), actor("u2", "admin", "org-1"), "u3")
	require.ErrorIs(t, err, shared.ErrNotFound)

	user, err := svc.Get(context.Background(), actor("root", "saas_admin", "org-hq"), "u3")
	require.NoError(t, err)
	require.Equal(t, "u3", user.ID)
}

func TestUpdateRole(t *testing.T) {
	svc, repo := newTestService(
		testUser("u1", "a@rc.test", "dispatcher", "org-1"),
		testUser("u2", "b@rc.test", "admin", "org-1"),
	)
	admin := actor("u2", "admin", "org-1")

	user, err := svc.UpdateRole(context.Background(), admin, "u1", "fleet_manager")
	require.NoError(t, err)
	require.Equal(t, "fleet_manager", user.Role)
	require.Equal(t, "fleet_manager", repo.users["u1"].Role)
}

func TestUpdateRoleForbidden(t *testing.T) {
	svc, _ := newTestService(
		testUser("u1", "a@rc.test", "dispatcher", "org-1"),
		testUser("u2", "b@rc.test", "admin", "org-1"),
		testUser("u4", "d@rc.test", "admin", "org-1"),
	)
	admin := actor("u2", "admin", "org-1")

	// Unknown role.
	_, err := svc.UpdateRole(context.Background(), admin, "u1", "superuser")
	require.ErrorIs(t, err, shared.ErrForbidden)

	// Admins cannot hand out their own rank.
	_, err = svc.UpdateRole(context.Background(), admin, "u1", "admin")
	require.ErrorIs(t, err, shared.ErrForbidden)

	// Peers cannot manage each other.
	_, err = svc.UpdateRole(context.Background(), admin, "u4", "dispatcher")
	require.ErrorIs(t, err, shared.ErrForbidden)

	// Self-management is rejected.
	_, err = svc.UpdateRole(context.Background(), admin, "u2", "dispatcher")
	require.ErrorIs(t, err, shared.ErrForbidden)

	// Dispatchers hold no users:update or users:assign_roles.
	_, err = svc.UpdateRole(context.Background(), actor("u1", "dispatcher", "org-1"), "u2", "dispatcher")
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestSaasAdminAssignsAnyRole(t *testing.T) {
	svc, _ := newTestService(testUser("u2", "b@rc.test", "admin", "org-1"))

	user, err := svc.UpdateRole(context.Background(), actor("root", "saas_admin", "org-hq"), "u2", "saas_admin")
	require.NoError(t, err)
	require.Equal(t, "saas_admin", user.Role)
}

func TestSetActive(t *testing.T) {
	svc, repo := newTestService(
		testUser("u1", "a@rc.test", "dispatcher", "org-1"),
		testUser("u2", "b@rc.test", "admin", "org-1"),
	)
	admin := actor("u2", "admin", "org-1")

	user, err := svc.SetActive(context.Background(), admin, "u1", false)
	require.NoError(t, err)
	require.False(t, user.IsActive)
	require.False(t, repo.users["u1"].IsActive)

	// Nobody deactivates themselves through this path.
	_, err = svc.SetActive(context.Background(), admin, "u2", false)
	require.ErrorIs(t, err, shared.ErrForbidden)
}
