package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"creatorstack/internal/rbac/adapter"
	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/notify"
	"creatorstack/internal/rbac/policy"
	"creatorstack/internal/rbac/repository"
	"creatorstack/internal/rbac/util"
)

var (
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrBadRequest           = errors.New("bad request")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrDuplicateName        = errors.New("name already in use")
	ErrInvalidPermission    = errors.New("invalid permission")
	ErrSystemRoleNameLocked = errors.New("system role name cannot be changed")
	ErrSystemRoleProtected  = errors.New("system role cannot be deleted")
	ErrRoleInUse            = errors.New("role is assigned to users")
	ErrCategoryInUse        = errors.New("category has websites")
	ErrPersistence          = errors.New("persistence error")
)

const defaultBulkConcurrency = 4

type ModerationService interface {
	// Permission registry
	ListPermissions(ctx context.Context, actor model.Actor) ([]policy.PermissionModule, error)

	// Roles
	ListRoles(ctx context.Context, actor model.Actor) ([]*model.Role, error)
	GetRole(ctx context.Context, actor model.Actor, id string) (*model.Role, error)
	CreateRole(ctx context.Context, actor model.Actor, req model.CreateRoleReq) (*model.Role, error)
	UpdateRole(ctx context.Context, actor model.Actor, req model.UpdateRoleReq) (*model.Role, error)
	DeleteRole(ctx context.Context, actor model.Actor, req model.DeleteRoleReq) error

	// Users
	ListUsers(ctx context.Context, actor model.Actor, req model.ListUsersReq) (*model.ListUsersResp, error)
	UpdateUserRole(ctx context.Context, actor model.Actor, req model.UpdateUserRoleReq) (*model.User, error)
	UpdateUserStatus(ctx context.Context, actor model.Actor, req model.UpdateUserStatusReq) (*model.User, error)

	// Submissions
	SubmitWebsite(ctx context.Context, actor model.Actor, req model.CreateSubmissionReq) (*model.Submission, error)
	ListSubmissions(ctx context.Context, actor model.Actor, req model.ListSubmissionsReq) (*model.ListSubmissionsResp, error)
	ListMySubmissions(ctx context.Context, actor model.Actor, req model.ListSubmissionsReq) (*model.ListSubmissionsResp, error)
	GetSubmission(ctx context.Context, actor model.Actor, id string) (*model.Submission, error)
	TransitionSubmission(ctx context.Context, actor model.Actor, req model.TransitionSubmissionReq) (*model.Submission, error)
	BulkTransition(ctx context.Context, actor model.Actor, req model.BulkTransitionReq) (*model.BulkTransitionResult, error)

	// Audit
	QueryAuditLogs(ctx context.Context, actor model.Actor, req model.GetAuditLogsReq) (*model.GetAuditLogsResp, error)

	// Categories
	ListCategories(ctx context.Context) ([]*model.Category, error)
	CreateCategory(ctx context.Context, actor model.Actor, req model.CreateCategoryReq) (*model.Category, error)
	UpdateCategory(ctx context.Context, actor model.Actor, req model.UpdateCategoryReq) (*model.Category, error)
	DeleteCategory(ctx context.Context, actor model.Actor, req model.DeleteCategoryReq) error

	// Notifications
	ListNotifications(ctx context.Context, actor model.Actor, req model.ListNotificationsReq) (*model.ListNotificationsResp, error)
	MarkNotificationRead(ctx context.Context, actor model.Actor, id string) error
}

type Service struct {
	Repo       repository.Repository
	Principals adapter.PrincipalAdapter
	Notifier   notify.Notifier
	Recorder   *Recorder
	Logger     *slog.Logger

	// BulkConcurrency caps parallel item transitions in BulkTransition
	BulkConcurrency int
}

// NewService wires the moderation core. principals and notifier may be nil.
func NewService(repo repository.Repository, principals adapter.PrincipalAdapter, notifier notify.Notifier) *Service {
	return &Service{
		Repo:            repo,
		Principals:      principals,
		Notifier:        notifier,
		Recorder:        NewRecorder(func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }),
		Logger:          util.GetLogger(),
		BulkConcurrency: defaultBulkConcurrency,
	}
}

func (s *Service) now() time.Time {
	return s.Recorder.clock()
}

var _ ModerationService = (*Service)(nil)
