package service

import (
	"context"
	"errors"
	"fmt"

	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/policy"
	"creatorstack/internal/rbac/repository"
	"creatorstack/internal/rbac/telemetry"
)

// authorize applies the authorization decision for perm to the actor.
func (s *Service) authorize(actor model.Actor, perm model.Permission) error {
	return denial(policy.Check(actor.Principal, perm))
}

// requireActive admits any active principal.
func (s *Service) requireActive(actor model.Actor) error {
	return denial(policy.CheckActive(actor.Principal))
}

func denial(reason policy.DenyReason) error {
	if reason == policy.ReasonNone {
		return nil
	}
	telemetry.RecordDenial(string(reason))
	if reason == policy.ReasonUnauthenticated {
		return ErrUnauthenticated
	}
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}

// validate runs a request's own validation and tags failures as ErrBadRequest.
func validate(req interface{ Validate() error }) error {
	if err := req.Validate(); err != nil {
		return badRequest(err.Error())
	}
	return nil
}

func badRequest(msg string) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, msg)
}

func persistence(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// mapRepoError translates repository sentinels. Anything unrecognised is a
// persistence failure.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicateName
	default:
		return persistence(err)
	}
}

// ErrorCode returns the stable machine-readable code for err.
func ErrorCode(err error) string {
	var detail *model.ErrorDetail
	switch {
	case err == nil:
		return ""
	case errors.As(err, &detail):
		return detail.Code
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrDuplicateName):
		return "duplicate_name"
	case errors.Is(err, ErrInvalidPermission):
		return "invalid_permission"
	case errors.Is(err, ErrSystemRoleNameLocked):
		return "system_role_name_locked"
	case errors.Is(err, ErrSystemRoleProtected):
		return "system_role_protected"
	case errors.Is(err, ErrRoleInUse):
		return "role_in_use"
	case errors.Is(err, ErrCategoryInUse):
		return "category_in_use"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrPersistence):
		return "persistence_error"
	default:
		return "internal_error"
	}
}

// invalidatePrincipal drops a cached principal after a committed change. A
// failure only delays the change until the cache entry expires.
func (s *Service) invalidatePrincipal(ctx context.Context, userID string) {
	if s.Principals == nil {
		return
	}
	if err := s.Principals.Invalidate(ctx, userID); err != nil {
		s.Logger.Warn("principal cache invalidation failed", "user_id", userID, "error", err)
	}
}

func (s *Service) invalidateRole(ctx context.Context, roleID string) {
	if s.Principals == nil {
		return
	}
	if err := s.Principals.InvalidateRole(ctx, roleID); err != nil {
		s.Logger.Warn("role cache invalidation failed", "role_id", roleID, "error", err)
	}
}
