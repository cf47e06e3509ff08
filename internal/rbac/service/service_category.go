package service

import (
	"context"
	"errors"

	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/repository"

	"github.com/google/uuid"
)

// ListCategories is public.
func (s *Service) ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, persistence(err)
	}
	return categories, nil
}

func (s *Service) CreateCategory(ctx context.Context, actor model.Actor, req model.CreateCategoryReq) (*model.Category, error) {
	if err := s.authorize(actor, model.PermCategoryCreate); err != nil {
		return nil, err
	}
	if err := validate(&req); err != nil {
		return nil, err
	}

	ts := s.now()
	c := &model.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		NameKey:     model.NameKey(req.Name),
		Description: req.Description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	entry := s.Recorder.Entry(actor, model.ActionCreate, model.EntityCategory, c.ID, nil, categorySnapshot(c), "")
	if err := s.Repo.CreateCategory(ctx, c, entry); err != nil {
		return nil, mapRepoError(err)
	}

	s.Logger.Info("category created", "actor", actor.ID(), "entity", c.ID, "action", model.ActionCreate)
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, actor model.Actor, req model.UpdateCategoryReq) (*model.Category, error) {
	if err := s.authorize(actor, model.PermCategoryEdit); err != nil {
		return nil, err
	}
	if err := validate(&req); err != nil {
		return nil, err
	}

	existing, err := s.Repo.GetCategory(ctx, req.ID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	updated := *existing
	if req.Name != nil {
		updated.Name = *req.Name
		updated.NameKey = model.NameKey(*req.Name)
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	updated.UpdatedAt = s.now()

	entry := s.Recorder.Entry(actor, model.ActionUpdate, model.EntityCategory, existing.ID, categorySnapshot(existing), categorySnapshot(&updated), "")
	if err := s.Repo.UpdateCategory(ctx, &updated, entry); err != nil {
		return nil, mapRepoError(err)
	}

	s.Logger.Info("category updated", "actor", actor.ID(), "entity", existing.ID, "action", model.ActionUpdate)
	return &updated, nil
}

func (s *Service) DeleteCategory(ctx context.Context, actor model.Actor, req model.DeleteCategoryReq) error {
	if err := s.authorize(actor, model.PermCategoryDelete); err != nil {
		return err
	}
	if err := validate(&req); err != nil {
		return err
	}

	existing, err := s.Repo.GetCategory(ctx, req.ID)
	if err != nil {
		return mapRepoError(err)
	}

	notes := ""
	if req.ReassignmentCategoryID != "" {
		notes = "websites reassigned to " + req.ReassignmentCategoryID
	}
	entry := s.Recorder.Entry(actor, model.ActionDelete, model.EntityCategory, existing.ID, categorySnapshot(existing), nil, notes)

	err = s.Repo.DeleteCategory(ctx, existing.ID, req.ReassignmentCategoryID, entry)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrInUse):
		return ErrCategoryInUse
	case errors.Is(err, repository.ErrInvalidReference):
		return badRequest("reassignment category does not exist")
	default:
		return mapRepoError(err)
	}

	s.Logger.Info("category deleted", "actor", actor.ID(), "entity", existing.ID, "action", model.ActionDelete)
	return nil
}

func categorySnapshot(c *model.Category) map[string]any {
	return map[string]any{"name": c.Name, "description": c.Description}
}
