package adapter

import (
	"context"
	"errors"

	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/repository"
)

// PrincipalSource is the slice of the repository the local adapter reads
type PrincipalSource interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetRole(ctx context.Context, id string) (*model.Role, error)
}

// LocalPrincipalAdapter implements PrincipalAdapter directly on the repository
type LocalPrincipalAdapter struct {
	repo PrincipalSource
}

// NewLocalPrincipalAdapter creates a new LocalPrincipalAdapter
func NewLocalPrincipalAdapter(repo PrincipalSource) *LocalPrincipalAdapter {
	return &LocalPrincipalAdapter{repo: repo}
}

func (a *LocalPrincipalAdapter) ResolvePrincipal(ctx context.Context, userID string) (*model.Principal, error) {
	user, err := a.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, err
	}

	p := &model.Principal{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Status: user.Status,
	}

	// A dangling role id leaves the principal without permissions
	role, err := a.repo.GetRole(ctx, user.RoleID)
	switch {
	case err == nil:
		p.Role = role
	case errors.Is(err, repository.ErrNotFound):
	default:
		return nil, err
	}
	return p, nil
}

func (a *LocalPrincipalAdapter) Invalidate(ctx context.Context, userID string) error {
	return nil
}

func (a *LocalPrincipalAdapter) InvalidateRole(ctx context.Context, roleID string) error {
	return nil
}
