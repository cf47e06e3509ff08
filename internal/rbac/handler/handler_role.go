package handler

import (
	"net/http"

	"creatorstack/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// GetPermissions handles GET /admin/permissions
func (h *AdminHandler) GetPermissions(c echo.Context) error {
	modules, err := h.Service.ListPermissions(c.Request().Context(), actorFrom(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"modules": modules})
}

// GetRoles handles GET /admin/roles
func (h *AdminHandler) GetRoles(c echo.Context) error {
	roles, err := h.Service.ListRoles(c.Request().Context(), actorFrom(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"roles": roles})
}

// GetRole handles GET /admin/roles/:id
func (h *AdminHandler) GetRole(c echo.Context) error {
	role, err := h.Service.GetRole(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, role)
}

// PostRole handles POST /admin/roles
func (h *AdminHandler) PostRole(c echo.Context) error {
	var req model.CreateRoleReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	role, err := h.Service.CreateRole(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, role)
}

// PutRole handles PUT /admin/roles/:id
func (h *AdminHandler) PutRole(c echo.Context) error {
	var req model.UpdateRoleReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	role, err := h.Service.UpdateRole(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, role)
}

// DeleteRole handles DELETE /admin/roles/:id[?reassignmentRoleId=]
func (h *AdminHandler) DeleteRole(c echo.Context) error {
	var req model.DeleteRoleReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	if err := h.Service.DeleteRole(c.Request().Context(), actorFrom(c), req); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}
