package model

import (
	"fmt"
	"strings"
)

type CreateSubmissionReq struct {
	Title       string   `json:"title" validate:"required,min=2,max=200"`
	URL         string   `json:"url" validate:"required,url,max=2048"`
	Description string   `json:"description" validate:"max=2000"`
	CategoryID  string   `json:"categoryId" validate:"required,max=64"`
	Tags        []string `json:"tags" validate:"max=10,dive,min=1,max=30"`
}

func (r *CreateSubmissionReq) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.URL = strings.TrimSpace(r.URL)
	r.Description = strings.TrimSpace(r.Description)
	r.CategoryID = strings.TrimSpace(r.CategoryID)

	tags := make([]string, 0, len(r.Tags))
	seen := make(map[string]bool, len(r.Tags))
	for _, t := range r.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	r.Tags = tags

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// QualityChecklist is advisory review metadata; it never blocks a transition.
type QualityChecklist struct {
	Reachable           bool `json:"reachable"`
	DescriptionAccurate bool `json:"descriptionAccurate"`
	CategoryCorrect     bool `json:"categoryCorrect"`
	ContentSafe         bool `json:"contentSafe"`
	NoMalware           bool `json:"noMalware"`
}

// Notes renders the checklist for the audit trail.
func (c *QualityChecklist) Notes() string {
	if c == nil {
		return ""
	}
	mark := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	return fmt.Sprintf("checklist: reachable=%s, descriptionAccurate=%s, categoryCorrect=%s, contentSafe=%s, noMalware=%s",
		mark(c.Reachable), mark(c.DescriptionAccurate), mark(c.CategoryCorrect), mark(c.ContentSafe), mark(c.NoMalware))
}

type TransitionSubmissionReq struct {
	ID        string            `param:"id" json:"-"`
	Status    SubmissionStatus  `json:"status" validate:"required,oneof=Approved Rejected"`
	Note      string            `json:"note" validate:"max=1000"`
	Checklist *QualityChecklist `json:"checklist"`
}

func (r *TransitionSubmissionReq) Validate() error {
	r.ID = strings.TrimSpace(r.ID)
	r.Note = strings.TrimSpace(r.Note)
	if r.ID == "" {
		return badRequest("submission id is required")
	}
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type BulkTransitionReq struct {
	IDs       []string          `json:"ids" validate:"required,min=1,max=100,dive,required,max=64"`
	Status    SubmissionStatus  `json:"status" validate:"required,oneof=Approved Rejected"`
	Note      string            `json:"note" validate:"max=1000"`
	Checklist *QualityChecklist `json:"checklist"`
}

func (r *BulkTransitionReq) Validate() error {
	r.Note = strings.TrimSpace(r.Note)
	ids := make([]string, 0, len(r.IDs))
	seen := make(map[string]bool, len(r.IDs))
	for _, id := range r.IDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	r.IDs = ids
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// Item returns the single-item request for one id of the bulk request.
func (r *BulkTransitionReq) Item(id string) TransitionSubmissionReq {
	return TransitionSubmissionReq{ID: id, Status: r.Status, Note: r.Note, Checklist: r.Checklist}
}

type ListSubmissionsReq struct {
	Status   SubmissionStatus `query:"status" validate:"omitempty,oneof=Pending Approved Rejected"`
	Search   string           `query:"search" validate:"max=100"`
	AuthorID string           `query:"authorId" validate:"max=64"`
	Page     int              `query:"page"`
	Limit    int              `query:"limit"`
}

func (r *ListSubmissionsReq) Validate() error {
	r.Search = strings.TrimSpace(r.Search)
	r.AuthorID = strings.TrimSpace(r.AuthorID)
	if err := normalizePaging(&r.Page, &r.Limit); err != nil {
		return err
	}
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type ListSubmissionsResp struct {
	Submissions []*Submission `json:"submissions"`
	Page
}
