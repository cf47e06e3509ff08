package handler

import (
	"net/http"

	"creatorstack/internal/rbac/guard"
	"creatorstack/internal/rbac/service"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	Service service.ModerationService
	Guard   *guard.Guard
}

func NewAdminHandler(s service.ModerationService, g *guard.Guard) *AdminHandler {
	return &AdminHandler{Service: s, Guard: g}
}

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
