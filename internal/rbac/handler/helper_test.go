package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"creatorstack/internal/rbac/guard"
	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/policy"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var testModerator = &model.Principal{
	ID:     "mod_1",
	Name:   "Mo",
	Status: model.StatusActive,
	Role:   &model.Role{ID: "role_mod", Name: model.RoleModerator, Permissions: []model.Permission{model.PermWebsiteApprove, model.PermWebsiteView}},
}

// SetupServer registers the handlers without the RBAC middleware; p, when
// set, is installed as the authenticated principal.
func SetupServer(t *testing.T, svc *MockModerationService, p *model.Principal) *echo.Echo {
	t.Helper()
	cfg, err := policy.NewLoader().LoadRouteConfig()
	require.NoError(t, err)
	h := NewAdminHandler(svc, guard.New(cfg))

	e := echo.New()
	e.Use(RequestIDMiddleware)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p != nil {
				c.Set(principalContextKey, p)
			}
			return next(c)
		}
	})

	e.GET("/api/v1/admin/roles", h.GetRoles)
	e.POST("/api/v1/admin/roles", h.PostRole)
	e.PUT("/api/v1/admin/roles/:id", h.PutRole)
	e.DELETE("/api/v1/admin/roles/:id", h.DeleteRole)
	e.PATCH("/api/v1/admin/users/:id/status", h.PatchUserStatus)
	e.PATCH("/api/v1/admin/submissions/:id/status", h.PatchSubmissionStatus)
	e.POST("/api/v1/admin/submissions/bulk-status", h.PostBulkStatus)
	e.GET("/api/v1/admin/audit-logs", h.GetAuditLogs)
	e.GET("/api/v1/categories", h.GetCategories)
	e.PATCH("/api/v1/notifications/:id/read", h.PatchNotificationRead)
	e.GET("/api/v1/session/me", h.GetSessionMe)
	e.GET("/api/v1/session/route", h.GetSessionRoute)
	return e
}

func PerformRequest(e *echo.Echo, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var bodyReader *strings.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = strings.NewReader(string(b))
	} else {
		bodyReader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, body []byte) model.ErrorDetail {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Error
}
