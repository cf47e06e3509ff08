package handler

import (
	"net/http"

	"creatorstack/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// GetCategories handles GET /categories
func (h *AdminHandler) GetCategories(c echo.Context) error {
	categories, err := h.Service.ListCategories(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": categories})
}

func (h *AdminHandler) PostCategory(c echo.Context) error {
	var req model.CreateCategoryReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	category, err := h.Service.CreateCategory(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *AdminHandler) PatchCategory(c echo.Context) error {
	var req model.UpdateCategoryReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	category, err := h.Service.UpdateCategory(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *AdminHandler) DeleteCategory(c echo.Context) error {
	var req model.DeleteCategoryReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	if err := h.Service.DeleteCategory(c.Request().Context(), actorFrom(c), req); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}
