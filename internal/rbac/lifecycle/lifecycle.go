// Package lifecycle holds the submission state machine. It is pure: callers
// persist the result with a conditional write keyed on the "from" status.
package lifecycle

import (
	"errors"
	"fmt"

	"creatorstack/internal/rbac/model"
)

// Event triggers a transition
type Event string

const (
	EventApprove Event = "Approve"
	EventReject  Event = "Reject"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnknownEvent      = errors.New("unknown event")
)

type transition struct {
	to         model.SubmissionStatus
	permission model.Permission
	action     model.AuditAction
	notify     string
}

// Approved and Rejected are terminal: a re-submission is a new Submission.
var table = map[model.SubmissionStatus]map[Event]transition{
	model.SubmissionPending: {
		EventApprove: {to: model.SubmissionApproved, permission: model.PermWebsiteApprove, action: model.ActionApprove, notify: model.NotificationSubmissionApproved},
		EventReject:  {to: model.SubmissionRejected, permission: model.PermWebsiteApprove, action: model.ActionReject, notify: model.NotificationSubmissionRejected},
	},
}

// Initial is the status of every new submission.
const Initial = model.SubmissionPending

// Next returns the status reached from "from" on event.
func Next(from model.SubmissionStatus, event Event) (model.SubmissionStatus, error) {
	t, err := lookup(from, event)
	if err != nil {
		return "", err
	}
	return t.to, nil
}

// RequiredPermission returns the permission needed to fire event.
func RequiredPermission(event Event) (model.Permission, error) {
	switch event {
	case EventApprove, EventReject:
		return table[model.SubmissionPending][event].permission, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownEvent, event)
}

// AuditAction returns the audit action recorded for event.
func AuditAction(event Event) model.AuditAction {
	return table[model.SubmissionPending][event].action
}

// NotificationType returns the notification sent to the author after event.
func NotificationType(event Event) string {
	return table[model.SubmissionPending][event].notify
}

// EventFor maps a requested target status to its event.
func EventFor(target model.SubmissionStatus) (Event, error) {
	switch target {
	case model.SubmissionApproved:
		return EventApprove, nil
	case model.SubmissionRejected:
		return EventReject, nil
	}
	return "", fmt.Errorf("%w: no event reaches %q", ErrUnknownEvent, target)
}

// IsTerminal reports whether no event leaves status.
func IsTerminal(status model.SubmissionStatus) bool {
	return len(table[status]) == 0
}

func lookup(from model.SubmissionStatus, event Event) (transition, error) {
	if event != EventApprove && event != EventReject {
		return transition{}, fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	t, ok := table[from][event]
	if !ok {
		return transition{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, from)
	}
	return t, nil
}
