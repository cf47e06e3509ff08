package model

import "strings"

type CreateCategoryReq struct {
	Name        string `json:"name" validate:"required,min=2,max=60"`
	Description string `json:"description" validate:"max=500"`
}

func (r *CreateCategoryReq) Validate() error {
	r.Name = strings.Join(strings.Fields(r.Name), " ")
	r.Description = strings.TrimSpace(r.Description)
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type UpdateCategoryReq struct {
	ID          string  `param:"id" json:"-"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (r *UpdateCategoryReq) Validate() error {
	r.ID = strings.TrimSpace(r.ID)
	if r.ID == "" {
		return badRequest("category id is required")
	}
	if r.Name != nil {
		name := strings.Join(strings.Fields(*r.Name), " ")
		if len(name) < 2 || len(name) > 60 {
			return badRequest("name must be between 2 and 60 characters")
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
	if r.Name == nil && r.Description == nil {
		return badRequest("nothing to update")
	}
	return nil
}

type DeleteCategoryReq struct {
	ID                     string `param:"id"`
	ReassignmentCategoryID string `query:"reassignmentCategoryId"`
}

func (r *DeleteCategoryReq) Validate() error {
	r.ID = strings.TrimSpace(r.ID)
	r.ReassignmentCategoryID = strings.TrimSpace(r.ReassignmentCategoryID)
	if r.ID == "" {
		return badRequest("category id is required")
	}
	if r.ReassignmentCategoryID == r.ID {
		return badRequest("cannot reassign websites to the category being deleted")
	}
	return nil
}
