package service

import (
	"context"
	"testing"

	"creatorstack/internal/rbac/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateUserRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.actor(t, "admin")

	t.Run("promotes member and audits old and new role", func(t *testing.T) {
		user, err := f.svc.UpdateUserRole(ctx, admin, model.UpdateUserRoleReq{UserID: "member", RoleID: f.roles[model.RoleModerator]})
		require.NoError(t, err)
		assert.Equal(t, f.roles[model.RoleModerator], user.RoleID)

		logs := f.auditFor(t, "member")
		require.Len(t, logs, 1)
		assert.Equal(t, model.EntityUser, logs[0].EntityType)
		assert.Equal(t, map[string]any{"roleId": f.roles[model.RoleUser], "role": "User"}, logs[0].Details.Before)
		assert.Equal(t, map[string]any{"roleId": f.roles[model.RoleModerator], "role": "Moderator"}, logs[0].Details.After)

		// effective immediately
		_, err = f.svc.TransitionSubmission(ctx, f.actor(t, "member"), approve(f.submit(t, "promoted").ID))
		assert.NoError(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := f.svc.UpdateUserRole(ctx, admin, model.UpdateUserRoleReq{UserID: "author", RoleID: "missing"})
		assert.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.svc.UpdateUserRole(ctx, admin, model.UpdateUserRoleReq{UserID: "ghost", RoleID: f.roles[model.RoleUser]})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("moderator cannot change roles", func(t *testing.T) {
		_, err := f.svc.UpdateUserRole(ctx, f.actor(t, "mod"), model.UpdateUserRoleReq{UserID: "author", RoleID: f.roles[model.RoleAdmin]})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestUpdateUserStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mod := f.actor(t, "mod")

	t.Run("ban is audited with the reason", func(t *testing.T) {
		user, err := f.svc.UpdateUserStatus(ctx, mod, model.UpdateUserStatusReq{UserID: "author", Status: model.StatusBanned, Reason: "spam links"})
		require.NoError(t, err)
		assert.Equal(t, model.StatusBanned, user.Status)

		logs := f.auditFor(t, "author")
		require.Len(t, logs, 1)
		assert.Equal(t, model.ActionBan, logs[0].Action)
		assert.Equal(t, "spam links", logs[0].Details.Notes)
	})

	t.Run("banned user loses access at once", func(t *testing.T) {
		_, err := f.svc.ListMySubmissions(ctx, f.actor(t, "author"), model.ListSubmissionsReq{})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("reactivation is an update", func(t *testing.T) {
		_, err := f.svc.UpdateUserStatus(ctx, mod, model.UpdateUserStatusReq{UserID: "author", Status: model.StatusActive})
		require.NoError(t, err)
		assert.Equal(t, model.ActionUpdate, f.auditFor(t, "author")[0].Action)
	})

	t.Run("suspend", func(t *testing.T) {
		_, err := f.svc.UpdateUserStatus(ctx, mod, model.UpdateUserStatusReq{UserID: "member", Status: model.StatusSuspended})
		require.NoError(t, err)
		assert.Equal(t, model.ActionSuspend, f.auditFor(t, "member")[0].Action)
	})

	t.Run("cannot change own status", func(t *testing.T) {
		_, err := f.svc.UpdateUserStatus(ctx, mod, model.UpdateUserStatusReq{UserID: "mod", Status: model.StatusSuspended})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := f.svc.UpdateUserStatus(ctx, mod, model.UpdateUserStatusReq{UserID: "member", Status: "Deleted"})
		assert.ErrorIs(t, err, ErrBadRequest)
	})
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.ListUsers(context.Background(), f.actor(t, "admin"), model.ListUsersReq{RoleID: f.roles[model.RoleUser]})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Page.Page)

	_, err = f.svc.ListUsers(context.Background(), f.actor(t, "author"), model.ListUsersReq{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.BootstrapAdmin(ctx, "root", "Root", "root@example.com")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.svc.BootstrapAdmin(ctx, "root", "Root", "root@example.com")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = f.svc.ListRoles(ctx, f.actor(t, "root"))
	assert.NoError(t, err)
}
