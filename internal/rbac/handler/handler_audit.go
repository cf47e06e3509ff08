package handler

import (
	"net/http"

	"creatorstack/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// GetAuditLogs handles GET /admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c echo.Context) error {
	var req model.GetAuditLogsReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	resp, err := h.Service.QueryAuditLogs(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
