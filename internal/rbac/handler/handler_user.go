package handler

import (
	"net/http"

	"creatorstack/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// GetUsers handles GET /admin/users
func (h *AdminHandler) GetUsers(c echo.Context) error {
	var req model.ListUsersReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	resp, err := h.Service.ListUsers(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// PatchUserRole handles PATCH /admin/users/:id/role
func (h *AdminHandler) PatchUserRole(c echo.Context) error {
	var req model.UpdateUserRoleReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	user, err := h.Service.UpdateUserRole(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// PatchUserStatus handles PATCH /admin/users/:id/status
func (h *AdminHandler) PatchUserStatus(c echo.Context) error {
	var req model.UpdateUserStatusReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	user, err := h.Service.UpdateUserStatus(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
