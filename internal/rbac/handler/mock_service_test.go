package handler

import (
	"context"

	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/policy"

	"github.com/stretchr/testify/mock"
)

type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) ListPermissions(ctx context.Context, actor model.Actor) ([]policy.PermissionModule, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]policy.PermissionModule), args.Error(1)
}

func (m *MockModerationService) ListRoles(ctx context.Context, actor model.Actor) ([]*model.Role, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Role), args.Error(1)
}

func (m *MockModerationService) GetRole(ctx context.Context, actor model.Actor, id string) (*model.Role, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockModerationService) CreateRole(ctx context.Context, actor model.Actor, req model.CreateRoleReq) (*model.Role, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockModerationService) UpdateRole(ctx context.Context, actor model.Actor, req model.UpdateRoleReq) (*model.Role, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockModerationService) DeleteRole(ctx context.Context, actor model.Actor, req model.DeleteRoleReq) error {
	args := m.Called(ctx, actor, req)
	return args.Error(0)
}

func (m *MockModerationService) ListUsers(ctx context.Context, actor model.Actor, req model.ListUsersReq) (*model.ListUsersResp, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ListUsersResp), args.Error(1)
}

func (m *MockModerationService) UpdateUserRole(ctx context.Context, actor model.Actor, req model.UpdateUserRoleReq) (*model.User, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockModerationService) UpdateUserStatus(ctx context.Context, actor model.Actor, req model.UpdateUserStatusReq) (*model.User, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockModerationService) SubmitWebsite(ctx context.Context, actor model.Actor, req model.CreateSubmissionReq) (*model.Submission, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockModerationService) ListSubmissions(ctx context.Context, actor model.Actor, req model.ListSubmissionsReq) (*model.ListSubmissionsResp, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ListSubmissionsResp), args.Error(1)
}

func (m *MockModerationService) ListMySubmissions(ctx context.Context, actor model.Actor, req model.ListSubmissionsReq) (*model.ListSubmissionsResp, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ListSubmissionsResp), args.Error(1)
}

func (m *MockModerationService) GetSubmission(ctx context.Context, actor model.Actor, id string) (*model.Submission, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockModerationService) TransitionSubmission(ctx context.Context, actor model.Actor, req model.TransitionSubmissionReq) (*model.Submission, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockModerationService) BulkTransition(ctx context.Context, actor model.Actor, req model.BulkTransitionReq) (*model.BulkTransitionResult, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BulkTransitionResult), args.Error(1)
}

func (m *MockModerationService) QueryAuditLogs(ctx context.Context, actor model.Actor, req model.GetAuditLogsReq) (*model.GetAuditLogsResp, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GetAuditLogsResp), args.Error(1)
}

func (m *MockModerationService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Category), args.Error(1)
}

func (m *MockModerationService) CreateCategory(ctx context.Context, actor model.Actor, req model.CreateCategoryReq) (*model.Category, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockModerationService) UpdateCategory(ctx context.Context, actor model.Actor, req model.UpdateCategoryReq) (*model.Category, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockModerationService) DeleteCategory(ctx context.Context, actor model.Actor, req model.DeleteCategoryReq) error {
	args := m.Called(ctx, actor, req)
	return args.Error(0)
}

func (m *MockModerationService) ListNotifications(ctx context.Context, actor model.Actor, req model.ListNotificationsReq) (*model.ListNotificationsResp, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ListNotificationsResp), args.Error(1)
}

func (m *MockModerationService) MarkNotificationRead(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
