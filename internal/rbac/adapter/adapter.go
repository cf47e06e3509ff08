package adapter

import (
	"context"
	"errors"

	"creatorstack/internal/rbac/model"
)

var ErrPrincipalNotFound = errors.New("principal not found")

// PrincipalAdapter resolves a user id into the Principal used for
// authorization decisions. Implementations that cache must drop stale
// entries when Invalidate or InvalidateRole is called.
type PrincipalAdapter interface {
	// ResolvePrincipal returns the user with its full role attached
	ResolvePrincipal(ctx context.Context, userID string) (*model.Principal, error)

	// Invalidate drops any cached principal for userID
	Invalidate(ctx context.Context, userID string) error

	// InvalidateRole drops every cached principal holding roleID
	InvalidateRole(ctx context.Context, roleID string) error
}
