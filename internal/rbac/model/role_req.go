package model

import (
	"sort"
	"strings"
)

type CreateRoleReq struct {
	Name        string       `json:"name" validate:"required,min=2,max=50"`
	Description string       `json:"description" validate:"max=500"`
	Permissions []Permission `json:"permissions" validate:"max=200"`
}

func (r *CreateRoleReq) Validate() error {
	r.Name = strings.Join(strings.Fields(r.Name), " ")
	r.Description = strings.TrimSpace(r.Description)
	r.Permissions = NormalizePermissions(r.Permissions)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

// UpdateRoleReq carries optional fields; nil means "leave unchanged".
type UpdateRoleReq struct {
	ID          string        `param:"id" json:"-"`
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Permissions *[]Permission `json:"permissions"`
}

func (r *UpdateRoleReq) Validate() error {
	r.ID = strings.TrimSpace(r.ID)
	if r.ID == "" {
		return badRequest("role id is required")
	}
	if r.Name != nil {
		name := strings.Join(strings.Fields(*r.Name), " ")
		if len(name) < 2 || len(name) > 50 {
			return badRequest("name must be between 2 and 50 characters")
		}
		r.Name = &name
	}
	if r.Description != nil {
		desc := strings.TrimSpace(*r.Description)
		if len(desc) > 500 {
			return badRequest("description must be at most 500 characters")
		}
		r.Description = &desc
	}
	if r.Permissions != nil {
		perms := NormalizePermissions(*r.Permissions)
		if len(perms) > 200 {
			return badRequest("too many permissions")
		}
		r.Permissions = &perms
	}
	if r.Name == nil && r.Description == nil && r.Permissions == nil {
		return badRequest("nothing to update")
	}
	return nil
}

type DeleteRoleReq struct {
	ID                 string `param:"id"`
	ReassignmentRoleID string `query:"reassignmentRoleId"`
}

func (r *DeleteRoleReq) Validate() error {
	r.ID = strings.TrimSpace(r.ID)
	r.ReassignmentRoleID = strings.TrimSpace(r.ReassignmentRoleID)
	if r.ID == "" {
		return badRequest("role id is required")
	}
	if r.ReassignmentRoleID == r.ID {
		return badRequest("cannot reassign users to the role being deleted")
	}
	return nil
}

// NormalizePermissions trims, deduplicates and sorts a permission set.
func NormalizePermissions(perms []Permission) []Permission {
	seen := make(map[Permission]bool, len(perms))
	out := make([]Permission, 0, len(perms))
	for _, p := range perms {
		p = Permission(strings.TrimSpace(string(p)))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
