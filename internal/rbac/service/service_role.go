package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/policy"
	"creatorstack/internal/rbac/repository"
	"creatorstack/internal/rbac/telemetry"

	"github.com/google/uuid"
)

func (s *Service) ListPermissions(ctx context.Context, actor model.Actor) ([]policy.PermissionModule, error) {
	if err := s.authorize(actor, model.PermRoleView); err != nil {
		return nil, err
	}
	return policy.ListModules(), nil
}

func (s *Service) ListRoles(ctx context.Context, actor model.Actor) ([]*model.Role, error) {
	if err := s.authorize(actor, model.PermRoleView); err != nil {
		return nil, err
	}
	roles, err := s.Repo.ListRoles(ctx)
	if err != nil {
		return nil, persistence(err)
	}
	return roles, nil
}

func (s *Service) GetRole(ctx context.Context, actor model.Actor, id string) (*model.Role, error) {
	if err := s.authorize(actor, model.PermRoleView); err != nil {
		return nil, err
	}
	role, err := s.Repo.GetRole(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, mapRepoError(err)
	}
	return role, nil
}

func (s *Service) CreateRole(ctx context.Context, actor model.Actor, req model.CreateRoleReq) (*model.Role, error) {
	if err := s.authorize(actor, model.PermRoleCreate); err != nil {
		return nil, err
	}
	if err := validate(&req); err != nil {
		return nil, err
	}
	perms := model.NormalizePermissions(req.Permissions)
	if err := checkPermissions(perms); err != nil {
		return nil, err
	}

	ts := s.now()
	role := &model.Role{
		ID:          uuid.NewString(),
		Name:        model.RoleName(req.Name),
		NameKey:     model.NameKey(req.Name),
		Description: req.Description,
		Permissions: perms,
		IsSystem:    false,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	entry := s.Recorder.Entry(actor, model.ActionCreate, model.EntityOther, role.ID, nil, roleSnapshot(role), model.AuditNoteRole)

	if err := s.Repo.CreateRole(ctx, role, entry); err != nil {
		return nil, mapRepoError(err)
	}

	telemetry.RecordRoleMutation(string(model.ActionCreate))
	s.Logger.Info("role created", "actor", actor.ID(), "entity", role.ID, "action", model.ActionCreate, "name", role.Name)
	return role, nil
}

func (s *Service) UpdateRole(ctx context.Context, actor model.Actor, req model.UpdateRoleReq) (*model.Role, error) {
	if err := s.authorize(actor, model.PermRoleEdit); err != nil {
		return nil, err
	}
	if err := validate(&req); err != nil {
		return nil, err
	}

	existing, err := s.Repo.GetRole(ctx, req.ID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	updated := *existing
	updated.Permissions = append([]model.Permission(nil), existing.Permissions...)
	if req.Name != nil && model.RoleName(*req.Name) != existing.Name {
		if existing.IsSystem {
			return nil, ErrSystemRoleNameLocked
		}
		updated.Name = model.RoleName(*req.Name)
		updated.NameKey = model.NameKey(*req.Name)
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Permissions != nil {
		perms := model.NormalizePermissions(*req.Permissions)
		if err := checkPermissions(perms); err != nil {
			return nil, err
		}
		updated.Permissions = perms
	}
	updated.UpdatedAt = s.now()

	entry := s.Recorder.Entry(actor, model.ActionUpdate, model.EntityOther, existing.ID, roleSnapshot(existing), roleSnapshot(&updated), model.AuditNoteRole)
	if err := s.Repo.UpdateRole(ctx, &updated, entry); err != nil {
		return nil, mapRepoError(err)
	}
	s.invalidateRole(ctx, existing.ID)

	telemetry.RecordRoleMutation(string(model.ActionUpdate))
	s.Logger.Info("role updated", "actor", actor.ID(), "entity", existing.ID, "action", model.ActionUpdate)
	return &updated, nil
}

// DeleteRole removes a custom role. While users hold it the caller must name
// a reassignment role; holders move there in the same transaction.
func (s *Service) DeleteRole(ctx context.Context, actor model.Actor, req model.DeleteRoleReq) error {
	if err := s.authorize(actor, model.PermRoleDelete); err != nil {
		return err
	}
	if err := validate(&req); err != nil {
		return err
	}

	existing, err := s.Repo.GetRole(ctx, req.ID)
	if err != nil {
		return mapRepoError(err)
	}
	if existing.IsSystem {
		return ErrSystemRoleProtected
	}
	if existing.UserCount > 0 && req.ReassignmentRoleID == "" {
		return fmt.Errorf("%w: %d users hold this role", ErrRoleInUse, existing.UserCount)
	}

	notes := model.AuditNoteRole
	if req.ReassignmentRoleID != "" {
		notes += "; holders reassigned to " + req.ReassignmentRoleID
	}
	entry := s.Recorder.Entry(actor, model.ActionDelete, model.EntityOther, existing.ID, roleSnapshot(existing), nil, notes)

	err = s.Repo.DeleteRole(ctx, existing.ID, req.ReassignmentRoleID, entry)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrProtected):
		return ErrSystemRoleProtected
	case errors.Is(err, repository.ErrInUse):
		return ErrRoleInUse
	case errors.Is(err, repository.ErrInvalidReference):
		return badRequest("reassignment role does not exist")
	default:
		return mapRepoError(err)
	}
	s.invalidateRole(ctx, existing.ID)

	telemetry.RecordRoleMutation(string(model.ActionDelete))
	s.Logger.Info("role deleted", "actor", actor.ID(), "entity", existing.ID, "action", model.ActionDelete, "reassigned_to", req.ReassignmentRoleID)
	return nil
}

// SeedSystemRoles inserts the missing system roles. Existing roles, including
// edited permission sets, are left alone.
func (s *Service) SeedSystemRoles(ctx context.Context, seeds []policy.SystemRoleSeed) (int, error) {
	ts := s.now()
	roles := make([]*model.Role, 0, len(seeds))
	for _, seed := range seeds {
		roles = append(roles, &model.Role{
			ID:          uuid.NewString(),
			Name:        seed.Name,
			NameKey:     model.NameKey(string(seed.Name)),
			Description: seed.Description,
			Permissions: model.NormalizePermissions(seed.Permissions),
			IsSystem:    true,
			CreatedAt:   ts,
			UpdatedAt:   ts,
		})
	}
	n, err := s.Repo.EnsureSystemRoles(ctx, roles)
	if err != nil {
		return n, persistence(err)
	}
	return n, nil
}

func checkPermissions(perms []model.Permission) error {
	if err := policy.ValidatePermissions(perms); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPermission, err)
	}
	return nil
}

// roleSnapshot is the audit view of a role
func roleSnapshot(r *model.Role) map[string]any {
	perms := make([]string, len(r.Permissions))
	for i, p := range r.Permissions {
		perms[i] = string(p)
	}
	return map[string]any{
		"name":        string(r.Name),
		"description": r.Description,
		"permissions": perms,
	}
}
