package service

import (
	"context"
	"errors"
	"fmt"

	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/repository"
)

func (s *Service) ListUsers(ctx context.Context, actor model.Actor, req model.ListUsersReq) (*model.ListUsersResp, error) {
	if err := s.authorize(actor, model.PermUserView); err != nil {
		return nil, err
	}
	if err := validate(&req); err != nil {
		return nil, err
	}
	users, total, err := s.Repo.ListUsers(ctx, req)
	if err != nil {
		return nil, persistence(err)
	}
	return &model.ListUsersResp{Users: users, Page: model.NewPage(total, req.Page, req.Limit)}, nil
}

// UpdateUserRole assigns exactly one role to a user. The change is effective
// on the user's next request.
func (s *Service) UpdateUserRole(ctx context.Context, actor model.Actor, req model.UpdateUserRoleReq) (*model.User, error) {
	if err := s.authorize(actor, model.PermUserEdit); err != nil {
		return nil, err
	}
	if err := validate(&req); err != nil {
		return nil, err
	}

	user, err := s.Repo.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	target, err := s.Repo.GetRole(ctx, req.RoleID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, badRequest("role does not exist")
	}
	if err != nil {
		return nil, persistence(err)
	}

	before := map[string]any{"roleId": user.RoleID}
	if prev, err := s.Repo.GetRole(ctx, user.RoleID); err == nil {
		before["role"] = string(prev.Name)
	}
	after := map[string]any{"roleId": target.ID, "role": string(target.Name)}
	entry := s.Recorder.Entry(actor, model.ActionUpdate, model.EntityUser, user.ID, before, after, "role change")

	err = s.Repo.UpdateUserRole(ctx, user.ID, target.ID, entry)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrInvalidReference):
		return nil, badRequest("role does not exist")
	default:
		return nil, mapRepoError(err)
	}
	s.invalidatePrincipal(ctx, user.ID)

	s.Logger.Info("user role changed", "actor", actor.ID(), "entity", user.ID, "action", model.ActionUpdate, "role", target.Name)
	return s.reloadUser(ctx, user.ID)
}

// UpdateUserStatus bans, suspends or reactivates a user. Actors cannot change
// their own status.
func (s *Service) UpdateUserStatus(ctx context.Context, actor model.Actor, req model.UpdateUserStatusReq) (*model.User, error) {
	if err := s.authorize(actor, model.PermUserBan); err != nil {
		return nil, err
	}
	if err := validate(&req); err != nil {
		return nil, err
	}
	if req.UserID == actor.ID() {
		return nil, fmt.Errorf("%w: cannot change your own status", ErrForbidden)
	}

	user, err := s.Repo.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	entry := s.Recorder.Entry(actor, statusAction(req.Status), model.EntityUser, user.ID,
		map[string]any{"status": string(user.Status)},
		map[string]any{"status": string(req.Status)},
		req.Reason)
	if err := s.Repo.UpdateUserStatus(ctx, user.ID, req.Status, req.Reason, entry); err != nil {
		return nil, mapRepoError(err)
	}
	s.invalidatePrincipal(ctx, user.ID)

	s.Logger.Info("user status changed", "actor", actor.ID(), "entity", user.ID, "action", entry.Action, "status", req.Status)
	return s.reloadUser(ctx, user.ID)
}

func statusAction(status model.PrincipalStatus) model.AuditAction {
	switch status {
	case model.StatusBanned:
		return model.ActionBan
	case model.StatusSuspended:
		return model.ActionSuspend
	default:
		return model.ActionUpdate
	}
}

func (s *Service) reloadUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return user, nil
}

// BootstrapAdmin creates the first administrator when it does not exist yet.
// It runs at boot with no actor and so bypasses authorization.
func (s *Service) BootstrapAdmin(ctx context.Context, id, name, email string) (bool, error) {
	_, err := s.Repo.GetUser(ctx, id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, persistence(err)
	}

	roles, err := s.Repo.ListRoles(ctx)
	if err != nil {
		return false, persistence(err)
	}
	var admin *model.Role
	for _, r := range roles {
		if r.IsSystem && r.Name == model.RoleAdmin {
			admin = r
			break
		}
	}
	if admin == nil {
		return false, fmt.Errorf("%w: %s role has not been seeded", ErrNotFound, model.RoleAdmin)
	}

	ts := s.now()
	err = s.Repo.CreateUser(ctx, &model.User{
		ID:        id,
		Name:      name,
		Email:     email,
		RoleID:    admin.ID,
		Status:    model.StatusActive,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, persistence(err)
	}
	s.Logger.Info("bootstrap admin created", "user_id", id)
	return true, nil
}
