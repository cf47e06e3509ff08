package repository

import (
	"context"
	"errors"
	"time"

	"creatorstack/internal/rbac/model"
)

var (
	ErrDuplicate      = errors.New("duplicate record")
	ErrNotFound       = errors.New("record not found")
	ErrStatusMismatch = errors.New("current status does not match expected status")
	ErrInUse          = errors.New("record is still referenced")
	ErrProtected      = errors.New("record is protected")
	// ErrInvalidReference means a referenced record (reassignment target,
	// role, category) does not exist.
	ErrInvalidReference = errors.New("referenced record not found")
)

// Every mutating method that takes an *model.AuditLogEntry commits the
// mutation and the audit entry atomically: either both are stored or neither.

type RoleRepository interface {
	// ListRoles returns all roles with computed user counts, system roles first
	ListRoles(ctx context.Context) ([]*model.Role, error)
	// GetRole returns one role with its user count
	GetRole(ctx context.Context, id string) (*model.Role, error)
	CreateRole(ctx context.Context, role *model.Role, audit *model.AuditLogEntry) error
	// UpdateRole replaces name, description and permissions
	UpdateRole(ctx context.Context, role *model.Role, audit *model.AuditLogEntry) error
	// DeleteRole removes a custom role. Holders are moved to reassignTo when
	// given; otherwise ErrInUse is returned while the role has holders.
	DeleteRole(ctx context.Context, id, reassignTo string, audit *model.AuditLogEntry) error
	// EnsureSystemRoles inserts missing system roles without touching existing ones
	EnsureSystemRoles(ctx context.Context, roles []*model.Role) (int, error)
}

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, req model.ListUsersReq) ([]*model.User, int64, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUserRole(ctx context.Context, userID, roleID string, audit *model.AuditLogEntry) error
	UpdateUserStatus(ctx context.Context, userID string, status model.PrincipalStatus, reason string, audit *model.AuditLogEntry) error
}

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, s *model.Submission) error
	GetSubmission(ctx context.Context, id string) (*model.Submission, error)
	ListSubmissions(ctx context.Context, req model.ListSubmissionsReq) ([]*model.Submission, int64, error)
	// TransitionSubmission moves a submission from "from" to "to" only if its
	// stored status is still "from", appending event to its history. Returns
	// ErrStatusMismatch when another writer got there first.
	TransitionSubmission(ctx context.Context, id string, from, to model.SubmissionStatus, event model.HistoryEvent, audit *model.AuditLogEntry) (*model.Submission, error)
}

// AuditRepository is append-only: there is no update or delete.
type AuditRepository interface {
	CreateAuditLog(ctx context.Context, entry *model.AuditLogEntry) error
	FindAuditLogs(ctx context.Context, filter model.AuditLogFilter) ([]*model.AuditLogEntry, int64, error)
}

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	CreateCategory(ctx context.Context, c *model.Category, audit *model.AuditLogEntry) error
	UpdateCategory(ctx context.Context, c *model.Category, audit *model.AuditLogEntry) error
	// DeleteCategory mirrors DeleteRole: websites move to reassignTo or the
	// delete fails with ErrInUse.
	DeleteCategory(ctx context.Context, id, reassignTo string, audit *model.AuditLogEntry) error
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
	ListNotifications(ctx context.Context, userID string, req model.ListNotificationsReq) ([]*model.Notification, int64, int64, error)
	MarkNotificationRead(ctx context.Context, userID, id string) error
}

// Repository is the full persistence collaborator
type Repository interface {
	RoleRepository
	UserRepository
	SubmissionRepository
	AuditRepository
	CategoryRepository
	NotificationRepository
	// EnsureIndexes creates unique and query indexes
	EnsureIndexes(ctx context.Context) error
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
