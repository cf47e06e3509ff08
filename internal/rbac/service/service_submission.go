package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"creatorstack/internal/rbac/lifecycle"
	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/notify"
	"creatorstack/internal/rbac/repository"
	"creatorstack/internal/rbac/telemetry"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SubmitWebsite creates a Pending submission authored by the actor.
func (s *Service) SubmitWebsite(ctx context.Context, actor model.Actor, req model.CreateSubmissionReq) (*model.Submission, error) {
	if err := s.authorize(actor, model.PermWebsiteCreate); err != nil {
		return nil, err
	}
	if err := validate(&req); err != nil {
		return nil, err
	}

	ts := s.now()
	sub := &model.Submission{
		ID:          uuid.NewString(),
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		AuthorID:    actor.ID(),
		AuthorName:  actor.Name(),
		Status:      lifecycle.Initial,
		History: []model.HistoryEvent{{
			Action:    model.ActionCreate,
			ActorID:   actor.ID(),
			ActorName: actor.Name(),
			To:        lifecycle.Initial,
			At:        ts,
		}},
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	err := s.Repo.CreateSubmission(ctx, sub)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrInvalidReference):
		return nil, badRequest("category does not exist")
	default:
		return nil, mapRepoError(err)
	}

	s.Logger.Info("website submitted", "actor", actor.ID(), "entity", sub.ID, "action", model.ActionCreate)
	return sub, nil
}

func (s *Service) ListSubmissions(ctx context.Context, actor model.Actor, req model.ListSubmissionsReq) (*model.ListSubmissionsResp, error) {
	if err := s.authorize(actor, model.PermWebsiteView); err != nil {
		return nil, err
	}
	return s.listSubmissions(ctx, req)
}

// ListMySubmissions lists the actor's own submissions regardless of role.
func (s *Service) ListMySubmissions(ctx context.Context, actor model.Actor, req model.ListSubmissionsReq) (*model.ListSubmissionsResp, error) {
	if err := s.requireActive(actor); err != nil {
		return nil, err
	}
	req.AuthorID = actor.ID()
	return s.listSubmissions(ctx, req)
}

func (s *Service) listSubmissions(ctx context.Context, req model.ListSubmissionsReq) (*model.ListSubmissionsResp, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	subs, total, err := s.Repo.ListSubmissions(ctx, req)
	if err != nil {
		return nil, persistence(err)
	}
	return &model.ListSubmissionsResp{Submissions: subs, Page: model.NewPage(total, req.Page, req.Limit)}, nil
}

func (s *Service) GetSubmission(ctx context.Context, actor model.Actor, id string) (*model.Submission, error) {
	if err := s.authorize(actor, model.PermWebsiteView); err != nil {
		return nil, err
	}
	sub, err := s.Repo.GetSubmission(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, mapRepoError(err)
	}
	return sub, nil
}

// TransitionSubmission approves or rejects a Pending submission. The status
// change, its history event and its audit entry are written in one atomic
// step conditioned on the status read here; a concurrent reviewer who loses
// the race gets ErrInvalidTransition and nothing is written for them.
func (s *Service) TransitionSubmission(ctx context.Context, actor model.Actor, req model.TransitionSubmissionReq) (*model.Submission, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	event, err := lifecycle.EventFor(req.Status)
	if err != nil {
		return nil, badRequest(err.Error())
	}
	perm, err := lifecycle.RequiredPermission(event)
	if err != nil {
		return nil, badRequest(err.Error())
	}
	if err := s.authorize(actor, perm); err != nil {
		telemetry.RecordTransition(string(event), transitionOutcome(err))
		return nil, err
	}

	sub, err := s.transition(ctx, actor, event, req)
	telemetry.RecordTransition(string(event), transitionOutcome(err))
	return sub, err
}

func (s *Service) transition(ctx context.Context, actor model.Actor, event lifecycle.Event, req model.TransitionSubmissionReq) (*model.Submission, error) {
	current, err := s.Repo.GetSubmission(ctx, req.ID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	to, err := lifecycle.Next(current.Status, event)
	if err != nil {
		return nil, fmt.Errorf("%w: submission is %s", ErrInvalidTransition, current.Status)
	}

	ts := s.now()
	history := model.HistoryEvent{
		Action:    lifecycle.AuditAction(event),
		ActorID:   actor.ID(),
		ActorName: actor.Name(),
		From:      current.Status,
		To:        to,
		Note:      req.Note,
		At:        ts,
	}
	entry := s.Recorder.Entry(actor, lifecycle.AuditAction(event), model.EntityWebsite, current.ID,
		map[string]any{"status": string(current.Status)},
		map[string]any{"status": string(to)},
		reviewNotes(req.Note, req.Checklist))
	entry.CreatedAt = ts

	// once started, the write is not abandoned because the caller went away
	writeCtx := context.WithoutCancel(ctx)
	updated, err := s.Repo.TransitionSubmission(writeCtx, current.ID, current.Status, to, history, entry)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrStatusMismatch):
		return nil, fmt.Errorf("%w: submission was already reviewed", ErrInvalidTransition)
	default:
		return nil, mapRepoError(err)
	}

	s.Logger.Info("submission reviewed", "actor", actor.ID(), "entity", updated.ID, "action", history.Action, "from", history.From, "to", history.To)
	s.notifyAuthor(writeCtx, event, updated, ts)
	return updated, nil
}

// notifyAuthor runs after the commit. A failure is logged and never undoes
// the transition.
func (s *Service) notifyAuthor(ctx context.Context, event lifecycle.Event, sub *model.Submission, ts time.Time) {
	if s.Notifier == nil || sub.AuthorID == "" {
		return
	}
	verb := "approved"
	if event == lifecycle.EventReject {
		verb = "rejected"
	}
	payload := notify.AuthorPayload{
		ID:       uuid.NewString(),
		UserID:   sub.AuthorID,
		Type:     lifecycle.NotificationType(event),
		Title:    "Submission " + verb,
		Message:  fmt.Sprintf("Your submission %q was %s.", sub.Title, verb),
		EntityID: sub.ID,
		At:       ts,
	}
	if err := s.Notifier.NotifyAuthor(ctx, payload); err != nil {
		s.Logger.Warn("author notification failed", "submission_id", sub.ID, "user_id", sub.AuthorID, "error", err)
	}
}

// BulkTransition applies one transition to many submissions. Each item is
// independent: failures are reported per item and never roll back the
// items that succeeded.
func (s *Service) BulkTransition(ctx context.Context, actor model.Actor, req model.BulkTransitionReq) (*model.BulkTransitionResult, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	event, err := lifecycle.EventFor(req.Status)
	if err != nil {
		return nil, badRequest(err.Error())
	}
	perm, err := lifecycle.RequiredPermission(event)
	if err != nil {
		return nil, badRequest(err.Error())
	}
	if err := s.authorize(actor, perm); err != nil {
		return nil, err
	}

	limit := s.BulkConcurrency
	if limit <= 0 {
		limit = defaultBulkConcurrency
	}

	results := make([]model.BulkItemResult, len(req.IDs))
	var mu sync.Mutex
	var succeeded int

	// item errors are captured in results, so the group never fails
	// and never cancels siblings
	var g errgroup.Group
	g.SetLimit(limit)
	for i, id := range req.IDs {
		i, id := i, id
		g.Go(func() error {
			res := model.BulkItemResult{ID: id}
			sub, err := s.transition(ctx, actor, event, req.Item(id))
			telemetry.RecordTransition(string(event), transitionOutcome(err))
			if err != nil {
				res.Code = ErrorCode(err)
				res.Reason = err.Error()
			} else {
				res.Success = true
				res.Status = sub.Status
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	s.Logger.Info("bulk review finished", "actor", actor.ID(), "event", event, "total", len(req.IDs), "succeeded", succeeded)
	return &model.BulkTransitionResult{
		SuccessCount: succeeded,
		FailedCount:  len(req.IDs) - succeeded,
		Results:      results,
	}, nil
}

func reviewNotes(note string, checklist *model.QualityChecklist) string {
	parts := make([]string, 0, 2)
	if note != "" {
		parts = append(parts, note)
	}
	if c := checklist.Notes(); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, "; ")
}

func transitionOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidTransition):
		return "conflict"
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrUnauthenticated):
		return "denied"
	default:
		return "error"
	}
}
