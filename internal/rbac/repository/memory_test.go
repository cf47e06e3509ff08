package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"creatorstack/internal/rbac/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRole(t *testing.T, repo *MemoryRepository, id string, name model.RoleName, system bool) *model.Role {
	t.Helper()
	role := &model.Role{
		ID:          id,
		Name:        name,
		NameKey:     model.NameKey(string(name)),
		Permissions: []model.Permission{model.PermWebsiteView},
		IsSystem:    system,
	}
	if system {
		_, err := repo.EnsureSystemRoles(context.Background(), []*model.Role{role})
		require.NoError(t, err)
		return role
	}
	require.NoError(t, repo.CreateRole(context.Background(), role, nil))
	return role
}

func seedSubmission(t *testing.T, repo *MemoryRepository, id string) {
	t.Helper()
	ctx := context.Background()
	if _, err := repo.GetCategory(ctx, "cat_1"); err != nil {
		require.NoError(t, repo.CreateCategory(ctx, &model.Category{ID: "cat_1", Name: "Tools", NameKey: "tools"}, nil))
	}
	require.NoError(t, repo.CreateSubmission(ctx, &model.Submission{
		ID:         id,
		Title:      "Site " + id,
		URL:        "https://example.com/" + id,
		CategoryID: "cat_1",
		AuthorID:   "author_1",
		Status:     model.SubmissionPending,
		CreatedAt:  now(),
	}))
}

func TestMemoryRoles(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate name case-insensitive returns ErrDuplicate", func(t *testing.T) {
		repo := NewMemoryRepository()
		seedRole(t, repo, "r1", "Reviewer", false)

		err := repo.CreateRole(ctx, &model.Role{ID: "r2", Name: "REVIEWER", NameKey: model.NameKey("REVIEWER")}, nil)
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("list puts system roles first and counts users", func(t *testing.T) {
		repo := NewMemoryRepository()
		seedRole(t, repo, "r_custom", "Alpha", false)
		seedRole(t, repo, "r_admin", model.RoleAdmin, true)
		require.NoError(t, repo.CreateUser(ctx, &model.User{ID: "u1", RoleID: "r_custom"}))
		require.NoError(t, repo.CreateUser(ctx, &model.User{ID: "u2", RoleID: "r_custom"}))

		roles, err := repo.ListRoles(ctx)
		require.NoError(t, err)
		require.Len(t, roles, 2)
		assert.Equal(t, "r_admin", roles[0].ID)
		assert.Equal(t, int64(2), roles[1].UserCount)
	})

	t.Run("delete system role returns ErrProtected", func(t *testing.T) {
		repo := NewMemoryRepository()
		seedRole(t, repo, "r_admin", model.RoleAdmin, true)

		err := repo.DeleteRole(ctx, "r_admin", "", nil)
		assert.ErrorIs(t, err, ErrProtected)
	})

	t.Run("delete role with holders needs reassignment", func(t *testing.T) {
		repo := NewMemoryRepository()
		seedRole(t, repo, "r_old", "Old", false)
		seedRole(t, repo, "r_new", "New", false)
		require.NoError(t, repo.CreateUser(ctx, &model.User{ID: "u1", RoleID: "r_old"}))

		assert.ErrorIs(t, repo.DeleteRole(ctx, "r_old", "", nil), ErrInUse)
		assert.ErrorIs(t, repo.DeleteRole(ctx, "r_old", "missing", nil), ErrInvalidReference)

		require.NoError(t, repo.DeleteRole(ctx, "r_old", "r_new", &model.AuditLogEntry{ID: "a1", CreatedAt: now()}))
		u, err := repo.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "r_new", u.RoleID)
		_, err = repo.GetRole(ctx, "r_old")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ensure system roles is idempotent", func(t *testing.T) {
		repo := NewMemoryRepository()
		roles := []*model.Role{{ID: "a", Name: model.RoleAdmin, NameKey: "admin", IsSystem: true}}

		n, err := repo.EnsureSystemRoles(ctx, roles)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		n, err = repo.EnsureSystemRoles(ctx, roles)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("returned roles are copies", func(t *testing.T) {
		repo := NewMemoryRepository()
		seedRole(t, repo, "r1", "Reviewer", false)

		got, err := repo.GetRole(ctx, "r1")
		require.NoError(t, err)
		got.Permissions[0] = model.PermRoleDelete

		again, err := repo.GetRole(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, model.PermWebsiteView, again.Permissions[0])
	})
}

func TestMemoryTransitionSubmission(t *testing.T) {
	ctx := context.Background()
	event := func(to model.SubmissionStatus) model.HistoryEvent {
		return model.HistoryEvent{Action: model.ActionApprove, ActorID: "mod_1", From: model.SubmissionPending, To: to, At: now()}
	}

	t.Run("success appends history and audit", func(t *testing.T) {
		repo := NewMemoryRepository()
		seedSubmission(t, repo, "s1")

		s, err := repo.TransitionSubmission(ctx, "s1", model.SubmissionPending, model.SubmissionApproved,
			event(model.SubmissionApproved), &model.AuditLogEntry{ID: "a1", EntityID: "s1", CreatedAt: now()})
		require.NoError(t, err)
		assert.Equal(t, model.SubmissionApproved, s.Status)
		assert.Equal(t, "mod_1", s.ReviewedBy)
		require.NotNil(t, s.ReviewedAt)
		assert.Len(t, s.History, 1)

		logs, total, err := repo.FindAuditLogs(ctx, model.AuditLogFilter{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "s1", logs[0].EntityID)
	})

	t.Run("status mismatch and not found", func(t *testing.T) {
		repo := NewMemoryRepository()
		seedSubmission(t, repo, "s1")

		_, err := repo.TransitionSubmission(ctx, "s1", model.SubmissionApproved, model.SubmissionRejected, event(model.SubmissionRejected), nil)
		assert.ErrorIs(t, err, ErrStatusMismatch)
		_, err = repo.TransitionSubmission(ctx, "nope", model.SubmissionPending, model.SubmissionApproved, event(model.SubmissionApproved), nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("audit failure leaves submission untouched", func(t *testing.T) {
		repo := NewMemoryRepository()
		seedSubmission(t, repo, "s1")
		repo.OnAuditWrite = func(*model.AuditLogEntry) error { return errors.New("disk full") }

		_, err := repo.TransitionSubmission(ctx, "s1", model.SubmissionPending, model.SubmissionApproved,
			event(model.SubmissionApproved), &model.AuditLogEntry{ID: "a1"})
		require.Error(t, err)

		s, err := repo.GetSubmission(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, model.SubmissionPending, s.Status)
		assert.Empty(t, s.History)
		_, total, _ := repo.FindAuditLogs(ctx, model.AuditLogFilter{Page: 1, Limit: 10})
		assert.Zero(t, total)
	})

	t.Run("concurrent transitions have exactly one winner", func(t *testing.T) {
		repo := NewMemoryRepository()
		seedSubmission(t, repo, "s1")

		var wg sync.WaitGroup
		results := make(chan error, 20)
		for i := 0; i < 20; i++ {
			to := model.SubmissionApproved
			if i%2 == 1 {
				to = model.SubmissionRejected
			}
			wg.Add(1)
			go func(i int, to model.SubmissionStatus) {
				defer wg.Done()
				_, err := repo.TransitionSubmission(ctx, "s1", model.SubmissionPending, to, event(to),
					&model.AuditLogEntry{ID: fmt.Sprintf("a%d", i), CreatedAt: now()})
				results <- err
			}(i, to)
		}
		wg.Wait()
		close(results)

		wins := 0
		for err := range results {
			if err == nil {
				wins++
				continue
			}
			assert.ErrorIs(t, err, ErrStatusMismatch)
		}
		assert.Equal(t, 1, wins)
		_, total, _ := repo.FindAuditLogs(ctx, model.AuditLogFilter{Page: 1, Limit: 50})
		assert.Equal(t, int64(1), total)
	})
}

func TestMemoryFindAuditLogs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []*model.AuditLogEntry{
		{ID: "1", AdminID: "admin_1", AdminName: "Alice", Action: model.ActionApprove, EntityType: model.EntityWebsite, EntityID: "s1", CreatedAt: base},
		{ID: "2", AdminID: "admin_2", AdminName: "Bob", Action: model.ActionReject, EntityType: model.EntityWebsite, EntityID: "s2", CreatedAt: base.Add(time.Hour)},
		{ID: "3", AdminID: "admin_1", AdminName: "Alice", Action: model.ActionUpdate, EntityType: model.EntityUser, EntityID: "u1", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "4", AdminID: "admin_1", AdminName: "Alice", Action: model.ActionCreate, EntityType: model.EntityOther, EntityID: "r1",
			Details: &model.AuditDetails{Notes: model.AuditNoteRole}, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, e := range entries {
		require.NoError(t, repo.CreateAuditLog(ctx, e))
	}

	t.Run("sorted newest first with insertion order breaking ties", func(t *testing.T) {
		logs, total, err := repo.FindAuditLogs(ctx, model.AuditLogFilter{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		ids := []string{logs[0].ID, logs[1].ID, logs[2].ID, logs[3].ID}
		assert.Equal(t, []string{"4", "3", "2", "1"}, ids)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		logs, total, err := repo.FindAuditLogs(ctx, model.AuditLogFilter{
			AdminID: "admin_1", EntityType: model.EntityWebsite, Page: 1, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "1", logs[0].ID)
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		start := base.Add(time.Hour)
		end := base.Add(2 * time.Hour)
		_, total, err := repo.FindAuditLogs(ctx, model.AuditLogFilter{Start: &start, End: &end, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("search matches notes case-insensitively", func(t *testing.T) {
		logs, total, err := repo.FindAuditLogs(ctx, model.AuditLogFilter{Search: "ROLE", Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "4", logs[0].ID)
	})

	t.Run("pagination reports full total", func(t *testing.T) {
		logs, total, err := repo.FindAuditLogs(ctx, model.AuditLogFilter{Page: 2, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, logs, 1)
		assert.Equal(t, "1", logs[0].ID)
	})

	t.Run("page far past the end is empty", func(t *testing.T) {
		logs, total, err := repo.FindAuditLogs(ctx, model.AuditLogFilter{Page: 1 << 62, Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Empty(t, logs)
	})
}

func TestMemoryCategories(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	seedSubmission(t, repo, "s1")
	require.NoError(t, repo.CreateCategory(ctx, &model.Category{ID: "cat_2", Name: "Design", NameKey: "design"}, nil))

	cats, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "cat_2", cats[0].ID)
	assert.Equal(t, int64(1), cats[1].WebsiteCount)

	assert.ErrorIs(t, repo.DeleteCategory(ctx, "cat_1", "", nil), ErrInUse)
	require.NoError(t, repo.DeleteCategory(ctx, "cat_1", "cat_2", nil))

	s, err := repo.GetSubmission(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "cat_2", s.CategoryID)

	err = repo.CreateSubmission(ctx, &model.Submission{ID: "s2", CategoryID: "cat_1"})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestMemoryNotifications(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := now()
	require.NoError(t, repo.CreateNotification(ctx, &model.Notification{ID: "n1", UserID: "u1", CreatedAt: base}))
	require.NoError(t, repo.CreateNotification(ctx, &model.Notification{ID: "n2", UserID: "u1", CreatedAt: base.Add(time.Second)}))
	require.NoError(t, repo.CreateNotification(ctx, &model.Notification{ID: "n3", UserID: "u2", CreatedAt: base}))

	assert.ErrorIs(t, repo.MarkNotificationRead(ctx, "u2", "n1"), ErrNotFound)
	require.NoError(t, repo.MarkNotificationRead(ctx, "u1", "n1"))

	items, total, unread, err := repo.ListNotifications(ctx, "u1", model.ListNotificationsReq{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, "n2", items[0].ID)

	items, total, _, err = repo.ListNotifications(ctx, "u1", model.ListNotificationsReq{UnreadOnly: true, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "n2", items[0].ID)
}
