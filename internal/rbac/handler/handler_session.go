package handler

import (
	"net/http"

	"creatorstack/internal/rbac/guard"
	"creatorstack/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// GetNotifications handles GET /notifications
func (h *AdminHandler) GetNotifications(c echo.Context) error {
	var req model.ListNotificationsReq
	if err := c.Bind(&req); err != nil {
		return badBody(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	resp, err := h.Service.ListNotifications(c.Request().Context(), actorFrom(c), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// PatchNotificationRead handles PATCH /notifications/:id/read
func (h *AdminHandler) PatchNotificationRead(c echo.Context) error {
	if err := h.Service.MarkNotificationRead(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

// GetSessionMe handles GET /session/me
func (h *AdminHandler) GetSessionMe(c echo.Context) error {
	return c.JSON(http.StatusOK, PrincipalFrom(c))
}

// GetSessionRoute handles GET /session/route?path=. The server always has a
// resolved session: a request without a valid token is unauthenticated.
func (h *AdminHandler) GetSessionRoute(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return badBody(c, "path is required")
	}
	session := guard.Session{Resolved: true, Principal: PrincipalFrom(c)}
	return c.JSON(http.StatusOK, h.Guard.Evaluate(session, path))
}
