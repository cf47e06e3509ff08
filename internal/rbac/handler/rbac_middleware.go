package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"creatorstack/internal/rbac/adapter"
	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/policy"
	"creatorstack/internal/rbac/service"
	"creatorstack/internal/rbac/telemetry"
	"creatorstack/internal/rbac/util"

	"github.com/labstack/echo/v4"
)

const principalContextKey = "principal"

// TokenValidator returns the user id carried by a bearer token.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// RBACMiddleware handles permission checking based on JSON configuration
type RBACMiddleware struct {
	policyEngine *policy.Engine
	tokens       TokenValidator
	principals   adapter.PrincipalAdapter
}

// NewRBACMiddleware creates a new RBAC middleware instance
func NewRBACMiddleware(engine *policy.Engine, tokens TokenValidator, principals adapter.PrincipalAdapter) *RBACMiddleware {
	return &RBACMiddleware{
		policyEngine: engine,
		tokens:       tokens,
		principals:   principals,
	}
}

// Middleware returns the Echo middleware function
func (m *RBACMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// 1. Find the policy for the matched route template
			cfg, exists := m.policyEngine.APIConfig(c.Request().Method, c.Path())
			if !exists || cfg.Policy.CheckScope == policy.CheckScopePublic {
				return next(c)
			}

			// 2. Resolve the principal from the bearer token
			p, err := m.authenticate(c)
			if err != nil && !errors.Is(err, service.ErrUnauthenticated) {
				return errorJSON(c, err)
			}
			if p != nil {
				c.Set(principalContextKey, p)
			}

			// 3. Decide
			var reason policy.DenyReason
			switch cfg.Policy.CheckScope {
			case policy.CheckScopeOptional:
				return next(c)
			case policy.CheckScopeAuthenticated:
				reason = policy.CheckActive(p)
			default:
				reason = policy.Check(p, cfg.Policy.Permission)
			}
			if reason == policy.ReasonNone {
				return next(c)
			}

			telemetry.RecordDenial(string(reason))
			util.GetLogger().Info("request denied",
				"request_id", RequestID(c),
				"operation", cfg.Operation,
				"user_id", principalID(p),
				"reason", reason,
			)
			if reason == policy.ReasonUnauthenticated {
				return errorJSON(c, service.ErrUnauthenticated)
			}
			return c.JSON(http.StatusForbidden, model.ErrorResponse{
				Error: model.ErrorDetail{
					Code:      "forbidden",
					Message:   "You do not have permission to perform this action",
					RequestID: RequestID(c),
				},
			})
		}
	}
}

// authenticate returns (nil, ErrUnauthenticated) when the request carries no
// usable credentials. Other errors come from principal resolution.
func (m *RBACMiddleware) authenticate(c echo.Context) (*model.Principal, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return nil, service.ErrUnauthenticated
	}

	userID, err := m.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrUnauthenticated, err)
	}

	p, err := m.principals.ResolvePrincipal(c.Request().Context(), userID)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, adapter.ErrPrincipalNotFound):
		return nil, service.ErrUnauthenticated
	default:
		return nil, fmt.Errorf("%w: %w", service.ErrPersistence, err)
	}
}

// PrincipalFrom returns the principal stored by the RBAC middleware, or nil.
func PrincipalFrom(c echo.Context) *model.Principal {
	p, _ := c.Get(principalContextKey).(*model.Principal)
	return p
}

// actorFrom builds the audit actor for the current request.
func actorFrom(c echo.Context) model.Actor {
	return model.Actor{
		Principal: PrincipalFrom(c),
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}

func principalID(p *model.Principal) string {
	if p == nil {
		return ""
	}
	return p.ID
}
