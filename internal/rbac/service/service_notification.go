package service

import (
	"context"
	"strings"

	"creatorstack/internal/rbac/model"
)

// ListNotifications returns the actor's own notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, actor model.Actor, req model.ListNotificationsReq) (*model.ListNotificationsResp, error) {
	if err := s.requireActive(actor); err != nil {
		return nil, err
	}
	if err := validate(&req); err != nil {
		return nil, err
	}
	items, total, unread, err := s.Repo.ListNotifications(ctx, actor.ID(), req)
	if err != nil {
		return nil, persistence(err)
	}
	return &model.ListNotificationsResp{
		Notifications: items,
		Unread:        unread,
		Page:          model.NewPage(total, req.Page, req.Limit),
	}, nil
}

// MarkNotificationRead only touches notifications owned by the actor;
// anything else reads as not found.
func (s *Service) MarkNotificationRead(ctx context.Context, actor model.Actor, id string) error {
	if err := s.requireActive(actor); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return badRequest("notification id is required")
	}
	return mapRepoError(s.Repo.MarkNotificationRead(ctx, actor.ID(), id))
}
