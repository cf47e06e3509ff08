package router

import (
	"creatorstack/internal/rbac/handler"
	"creatorstack/internal/rbac/telemetry"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/secure"
)

func RegisterRoutes(e *echo.Echo, h *handler.AdminHandler, rbac *handler.RBACMiddleware, corsOrigins []string) {
	e.Use(telemetry.Middleware())
	e.Use(echo.WrapMiddleware(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}).Handler))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{echo.GET, echo.PUT, echo.PATCH, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))

	// Health Check
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	v1.Use(handler.RequestIDMiddleware)
	v1.Use(rbac.Middleware())

	// Admin console
	admin := v1.Group("/admin")
	admin.GET("/permissions", h.GetPermissions)
	admin.GET("/roles", h.GetRoles)
	admin.GET("/roles/:id", h.GetRole)
	admin.POST("/roles", h.PostRole)
	admin.PUT("/roles/:id", h.PutRole)
	admin.DELETE("/roles/:id", h.DeleteRole)

	admin.GET("/users", h.GetUsers)
	admin.PATCH("/users/:id/role", h.PatchUserRole)
	admin.PATCH("/users/:id/status", h.PatchUserStatus)

	admin.GET("/submissions", h.GetSubmissions)
	admin.GET("/submissions/:id", h.GetSubmission)
	admin.PATCH("/submissions/:id/status", h.PatchSubmissionStatus)
	admin.POST("/submissions/bulk-status", h.PostBulkStatus)

	admin.GET("/audit-logs", h.GetAuditLogs)

	// Community
	v1.POST("/websites", h.PostWebsite)
	v1.GET("/websites/mine", h.GetMyWebsites)

	v1.GET("/categories", h.GetCategories)
	v1.POST("/categories", h.PostCategory)
	v1.PATCH("/categories/:id", h.PatchCategory)
	v1.DELETE("/categories/:id", h.DeleteCategory)

	v1.GET("/notifications", h.GetNotifications)
	v1.PATCH("/notifications/:id/read", h.PatchNotificationRead)

	v1.GET("/session/me", h.GetSessionMe)
	v1.GET("/session/route", h.GetSessionRoute)
}
