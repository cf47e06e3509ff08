package policy

import "creatorstack/internal/rbac/model"

// CheckScope defines how the RBAC middleware guards an API
type CheckScope string

const (
	CheckScopePublic        CheckScope = "public"        // No principal needed
	CheckScopeOptional      CheckScope = "optional"      // Principal resolved when a token is sent, never denied
	CheckScopeAuthenticated CheckScope = "authenticated" // Active principal required
	CheckScopePermission    CheckScope = "permission"    // Active principal holding Permission required
)

// OperationPolicy defines the permission requirements for an operation
type OperationPolicy struct {
	Permission model.Permission `json:"permission,omitempty"`
	CheckScope CheckScope       `json:"check_scope"`
}

// APIConfig binds an HTTP route template to its policy
type APIConfig struct {
	Method    string          `json:"method"`
	Path      string          `json:"path"`
	Operation string          `json:"operation"`
	Policy    OperationPolicy `json:"policy"`
}

// Key returns the lookup key used by the middleware: "METHOD:PATH"
func (a *APIConfig) Key() string {
	return a.Method + ":" + a.Path
}

// SystemRoleSeed is a system role definition seeded at boot
type SystemRoleSeed struct {
	Name        model.RoleName     `json:"name"`
	Description string             `json:"description"`
	Permissions []model.Permission `json:"permissions"`
}

// RouteRule restricts a client route prefix to a set of role names
type RouteRule struct {
	Prefix       string           `json:"prefix"`
	AllowedRoles []model.RoleName `json:"allowed_roles"`
}

// RouteConfig is the client route table consumed by the route guard
type RouteConfig struct {
	SignInPath string           `json:"sign_in_path"`
	AdminPath  string           `json:"admin_path"`
	PublicPath string           `json:"public_path"`
	AdminRoles []model.RoleName `json:"admin_roles"`
	Routes     []RouteRule      `json:"routes"`
}

// PermissionModule groups the permissions of one module
type PermissionModule struct {
	Module      string             `json:"module"`
	Permissions []model.Permission `json:"permissions"`
}
