package handler

import (
	"net/http"

	"creatorstack/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// PostWebsite handles POST /websites
func (h *AdminHandler) PostWebsite(c echo.Context) error {
	var req model.CreateSubmissionReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	sub, err := h.Service.SubmitWebsite(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, sub)
}

// GetMyWebsites handles GET /websites/mine
func (h *AdminHandler) GetMyWebsites(c echo.Context) error {
	var req model.ListSubmissionsReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	resp, err := h.Service.ListMySubmissions(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetSubmissions handles GET /admin/submissions
func (h *AdminHandler) GetSubmissions(c echo.Context) error {
	var req model.ListSubmissionsReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	resp, err := h.Service.ListSubmissions(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetSubmission handles GET /admin/submissions/:id
func (h *AdminHandler) GetSubmission(c echo.Context) error {
	sub, err := h.Service.GetSubmission(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

// PatchSubmissionStatus handles PATCH /admin/submissions/:id/status
func (h *AdminHandler) PatchSubmissionStatus(c echo.Context) error {
	var req model.TransitionSubmissionReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	sub, err := h.Service.TransitionSubmission(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

// PostBulkStatus handles POST /admin/submissions/bulk-status. Per-item
// failures are reported in the body with status 200.
func (h *AdminHandler) PostBulkStatus(c echo.Context) error {
	var req model.BulkTransitionReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	result, err := h.Service.BulkTransition(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
