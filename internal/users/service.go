package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/royalcarriage/platform/internal/rbac"
	"github.com/royalcarriage/platform/internal/shared"
)

// Service enforces who may see and manage which accounts.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns the accounts the actor may see: their own organization, or
// every organization for saas_admin.
func (s *Service) List(ctx context.Context, actor *shared.Identity) ([]User, error) {
	if actor == nil {
		return nil, shared.ErrNotAuthenticated
	}
	orgID := actor.OrganizationID
	if rbac.Role(actor.Role) == rbac.RoleSaasAdmin {
		orgID = ""
	}
	return s.repo.List(ctx, orgID)
}

// Get loads one account, subject to organization scoping.
func (s *Service) Get(ctx context.Context, actor *shared.Identity, id string) (*User, error) {
	if actor == nil {
		return nil, shared.ErrNotAuthenticated
	}
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanAccessOrganization(actor, user.OrganizationID) {
		// Cross-org lookups are indistinguishable from missing accounts.
		return nil, shared.ErrNotFound
	}
	return user, nil
}

// UpdateRole changes a target's role. The actor must be allowed to manage
// the target and to hand out the requested role.
func (s *Service) UpdateRole(ctx context.Context, actor *shared.Identity, id, role string) (*User, error) {
	if actor == nil {
		return nil, shared.ErrNotAuthenticated
	}
	if !rbac.ValidRole(rbac.Role(role)) {
		return nil, fmt.Errorf("%w: unknown role %q", shared.ErrForbidden, role)
	}

	target, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanManageUser(actor, target.Identity()) {
		return nil, fmt.Errorf("%w: cannot manage user %s", shared.ErrForbidden, id)
	}
	if !rbac.CanAssignRole(actor, rbac.Role(role)) {
		return nil, fmt.Errorf("%w: cannot assign role %q", shared.ErrForbidden, role)
	}

	updated, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user role updated",
		slog.String("actor_id", actor.ID),
		slog.String("user_id", id),
		slog.String("role", role))
	return updated, nil
}

// SetActive activates or deactivates a target account.
func (s *Service) SetActive(ctx context.Context, actor *shared.Identity, id string, active bool) (*User, error) {
	if actor == nil {
		return nil, shared.ErrNotAuthenticated
	}
	target, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanManageUser(actor, target.Identity()) {
		return nil, fmt.Errorf("%w: cannot manage user %s", shared.ErrForbidden, id)
	}

	updated, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user activation changed",
		slog.String("actor_id", actor.ID),
		slog.String("user_id", id),
		slog.Bool("active", active))
	return updated, nil
}
