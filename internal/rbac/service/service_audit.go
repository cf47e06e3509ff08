package service

import (
	"context"
	"time"

	"creatorstack/internal/rbac/model"

	"github.com/google/uuid"
)

// Recorder builds audit entries. Entries documenting a mutation are handed to
// the repository together with that mutation so both commit or neither does.
type Recorder struct {
	clock func() time.Time
}

func NewRecorder(clock func() time.Time) *Recorder {
	return &Recorder{clock: clock}
}

// Entry captures actor identity as it is right now; later renames of the
// actor do not touch existing entries.
func (r *Recorder) Entry(actor model.Actor, action model.AuditAction, entityType model.EntityType, entityID string, before, after any, notes string) *model.AuditLogEntry {
	entry := &model.AuditLogEntry{
		ID:         uuid.NewString(),
		AdminID:    actor.ID(),
		AdminName:  actor.Name(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		CreatedAt:  r.clock(),
	}
	if before != nil || after != nil || notes != "" {
		entry.Details = &model.AuditDetails{Before: before, After: after, Notes: notes}
	}
	return entry
}

// Record appends a standalone entry for an action that changes no other
// state.
func (s *Service) Record(ctx context.Context, actor model.Actor, action model.AuditAction, entityType model.EntityType, entityID string, before, after any, notes string) (*model.AuditLogEntry, error) {
	entry := s.Recorder.Entry(actor, action, entityType, entityID, before, after, notes)
	if err := s.Repo.CreateAuditLog(ctx, entry); err != nil {
		return nil, persistence(err)
	}
	return entry, nil
}

// QueryAuditLogs returns one page of entries, newest first. All filters are
// combined with AND.
func (s *Service) QueryAuditLogs(ctx context.Context, actor model.Actor, req model.GetAuditLogsReq) (*model.GetAuditLogsResp, error) {
	if err := s.authorize(actor, model.PermAuditView); err != nil {
		return nil, err
	}
	if err := validate(&req); err != nil {
		return nil, err
	}

	filter := req.Filter()
	logs, total, err := s.Repo.FindAuditLogs(ctx, filter)
	if err != nil {
		return nil, persistence(err)
	}
	return &model.GetAuditLogsResp{
		Logs: logs,
		Page: model.NewPage(total, filter.Page, filter.Limit),
	}, nil
}
