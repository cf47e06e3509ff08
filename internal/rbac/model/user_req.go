package model

import "strings"

type UpdateUserRoleReq struct {
	UserID string `param:"id" json:"-" validate:"required,max=64"`
	RoleID string `json:"roleId" validate:"required,max=64"`
}

func (r *UpdateUserRoleReq) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	r.RoleID = strings.TrimSpace(r.RoleID)
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type UpdateUserStatusReq struct {
	UserID string          `param:"id" json:"-" validate:"required,max=64"`
	Status PrincipalStatus `json:"status" validate:"required"`
	Reason string          `json:"reason" validate:"max=500"`
}

func (r *UpdateUserStatusReq) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	r.Reason = strings.TrimSpace(r.Reason)
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	if !AllowedPrincipalStatuses[r.Status] {
		return badRequest("invalid status: must be one of [Active, Suspended, Banned]")
	}
	return nil
}

type ListUsersReq struct {
	RoleID string          `query:"roleId"`
	Status PrincipalStatus `query:"status"`
	Search string          `query:"search" validate:"max=100"`
	Page   int             `query:"page"`
	Limit  int             `query:"limit"`
}

func (r *ListUsersReq) Validate() error {
	r.RoleID = strings.TrimSpace(r.RoleID)
	r.Search = strings.TrimSpace(r.Search)
	if err := normalizePaging(&r.Page, &r.Limit); err != nil {
		return err
	}
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	if r.Status != "" && !AllowedPrincipalStatuses[r.Status] {
		return badRequest("invalid status filter")
	}
	return nil
}

type ListUsersResp struct {
	Users []*User `json:"users"`
	Page
}
