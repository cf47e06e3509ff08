package model

import (
	"strings"
	"time"
)

// GetAuditLogsReq is the read contract of the audit trail. All provided
// filters are combined with AND.
type GetAuditLogsReq struct {
	Page       int         `query:"page"`
	Limit      int         `query:"limit"`
	Action     AuditAction `query:"action"`
	EntityType EntityType  `query:"entityType"`
	AdminID    string      `query:"adminId" validate:"max=64"`
	StartDate  string      `query:"startDate"`
	EndDate    string      `query:"endDate"`
	Search     string      `query:"search" validate:"max=100"`
}

func (r *GetAuditLogsReq) Validate() error {
	r.AdminID = strings.TrimSpace(r.AdminID)
	r.Search = strings.TrimSpace(r.Search)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
	if err := normalizePaging(&r.Page, &r.Limit); err != nil {
		return err
	}

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	if r.Action != "" && !knownAuditActions[r.Action] {
		return badRequest("invalid action filter")
	}
	if r.EntityType != "" && !knownEntityTypes[r.EntityType] {
		return badRequest("invalid entityType filter")
	}
	if _, err := parseDate(r.StartDate, false); err != nil {
		return badRequest("invalid startDate")
	}
	if _, err := parseDate(r.EndDate, true); err != nil {
		return badRequest("invalid endDate")
	}
	return nil
}

// Filter converts the validated request into a repository filter.
func (r *GetAuditLogsReq) Filter() AuditLogFilter {
	start, _ := parseDate(r.StartDate, false)
	end, _ := parseDate(r.EndDate, true)
	return AuditLogFilter{
		Action:     r.Action,
		EntityType: r.EntityType,
		AdminID:    r.AdminID,
		Start:      start,
		End:        end,
		Search:     r.Search,
		Page:       r.Page,
		Limit:      r.Limit,
	}
}

// parseDate accepts RFC3339 or a plain date. A plain end date covers the
// whole day.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

type AuditLogFilter struct {
	Action     AuditAction
	EntityType EntityType
	AdminID    string
	Start      *time.Time
	End        *time.Time
	Search     string
	Page       int
	Limit      int
}

// GetAuditLogsResp mirrors the collaborator's {logs, total, page, pages}.
type GetAuditLogsResp struct {
	Logs []*AuditLogEntry `json:"logs"`
	Page
}
