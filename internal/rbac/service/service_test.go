package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"creatorstack/internal/rbac/adapter"
	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/notify"
	"creatorstack/internal/rbac/policy"
	"creatorstack/internal/rbac/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	payloads []notify.AuthorPayload
	err      error
}

func (n *recordingNotifier) NotifyAuthor(ctx context.Context, p notify.AuthorPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payloads = append(n.payloads, p)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.payloads)
}

type fixture struct {
	svc      *Service
	repo     *repository.MemoryRepository
	notifier *recordingNotifier
	roles    map[model.RoleName]string
	category string
}

// newFixture seeds the system roles, one category and these users:
// admin (Admin), mod (Moderator), member and author (User), banned (Moderator, Banned).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	engine, err := policy.NewEngine()
	require.NoError(t, err)

	repo := repository.NewMemoryRepository()
	notifier := &recordingNotifier{}
	svc := NewService(repo, adapter.NewLocalPrincipalAdapter(repo), notifier)

	_, err = svc.SeedSystemRoles(ctx, engine.SystemRoles())
	require.NoError(t, err)

	roles, err := repo.ListRoles(ctx)
	require.NoError(t, err)
	ids := make(map[model.RoleName]string, len(roles))
	for _, r := range roles {
		ids[r.Name] = r.ID
	}

	users := []model.User{
		{ID: "admin", Name: "Ada", RoleID: ids[model.RoleAdmin], Status: model.StatusActive},
		{ID: "mod", Name: "Mo", RoleID: ids[model.RoleModerator], Status: model.StatusActive},
		{ID: "member", Name: "Mel", RoleID: ids[model.RoleUser], Status: model.StatusActive},
		{ID: "author", Name: "Aut", RoleID: ids[model.RoleUser], Status: model.StatusActive},
		{ID: "banned", Name: "Ban", RoleID: ids[model.RoleModerator], Status: model.StatusBanned},
	}
	for i := range users {
		require.NoError(t, repo.CreateUser(ctx, &users[i]))
	}

	f := &fixture{svc: svc, repo: repo, notifier: notifier, roles: ids}
	cat, err := svc.CreateCategory(ctx, f.actor(t, "admin"), model.CreateCategoryReq{Name: "Tools"})
	require.NoError(t, err)
	f.category = cat.ID
	return f
}

// actor resolves the user fresh from the store, as the middleware does per request.
func (f *fixture) actor(t *testing.T, userID string) model.Actor {
	t.Helper()
	p, err := adapter.NewLocalPrincipalAdapter(f.repo).ResolvePrincipal(context.Background(), userID)
	require.NoError(t, err)
	return model.Actor{Principal: p, IPAddress: "10.0.0.1", UserAgent: "test"}
}

func (f *fixture) submit(t *testing.T, title string) *model.Submission {
	t.Helper()
	sub, err := f.svc.SubmitWebsite(context.Background(), f.actor(t, "author"), model.CreateSubmissionReq{
		Title:      title,
		URL:        "https://example.com/" + title,
		CategoryID: f.category,
	})
	require.NoError(t, err)
	return sub
}

func (f *fixture) auditFor(t *testing.T, entityID string) []*model.AuditLogEntry {
	t.Helper()
	logs, _, err := f.repo.FindAuditLogs(context.Background(), model.AuditLogFilter{Search: entityID, Page: 1, Limit: model.MaxPageSize})
	require.NoError(t, err)
	out := make([]*model.AuditLogEntry, 0, len(logs))
	for _, l := range logs {
		if l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out
}

// mockRepo stubs selected methods; the rest panic through the nil embedded
// interface, which flags any unexpected call.
type mockRepo struct {
	repository.Repository
	mock.Mock
}

func (m *mockRepo) ListRoles(ctx context.Context) ([]*model.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Role), args.Error(1)
}

func (m *mockRepo) FindAuditLogs(ctx context.Context, filter model.AuditLogFilter) ([]*model.AuditLogEntry, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.AuditLogEntry), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *mockRepo) TransitionSubmission(ctx context.Context, id string, from, to model.SubmissionStatus, event model.HistoryEvent, audit *model.AuditLogEntry) (*model.Submission, error) {
	args := m.Called(ctx, id, from, to, event, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

var errStoreDown = errors.New("connection refused")
