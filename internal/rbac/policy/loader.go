package policy

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed policies/*.json
var policiesFS embed.FS

// Loader loads policy configurations from embedded JSON files
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

// LoadSystemRoles loads the seeded system role definitions. Every permission
// must exist in the registry.
func (l *Loader) LoadSystemRoles() ([]SystemRoleSeed, error) {
	var file struct {
		Roles []SystemRoleSeed `json:"roles"`
	}
	if err := l.readJSON("policies/roles.json", &file); err != nil {
		return nil, err
	}
	for _, r := range file.Roles {
		if r.Name == "" {
			return nil, fmt.Errorf("roles.json: role without name")
		}
		if err := ValidatePermissions(r.Permissions); err != nil {
			return nil, fmt.Errorf("roles.json: role %s: %w", r.Name, err)
		}
	}
	return file.Roles, nil
}

// LoadAPIConfigs loads API policies keyed by "METHOD:PATH"
func (l *Loader) LoadAPIConfigs() (map[string]*APIConfig, error) {
	var file struct {
		APIs []*APIConfig `json:"apis"`
	}
	if err := l.readJSON("policies/api.json", &file); err != nil {
		return nil, err
	}

	configs := make(map[string]*APIConfig, len(file.APIs))
	for _, api := range file.APIs {
		switch api.Policy.CheckScope {
		case CheckScopePublic, CheckScopeOptional, CheckScopeAuthenticated:
		case CheckScopePermission:
			if !IsKnownPermission(api.Policy.Permission) {
				return nil, fmt.Errorf("api.json: %s: unknown permission %q", api.Key(), api.Policy.Permission)
			}
		default:
			return nil, fmt.Errorf("api.json: %s: unknown check_scope %q", api.Key(), api.Policy.CheckScope)
		}
		if _, dup := configs[api.Key()]; dup {
			return nil, fmt.Errorf("api.json: duplicate entry %s", api.Key())
		}
		configs[api.Key()] = api
	}
	return configs, nil
}

// LoadRouteConfig loads the client route table
func (l *Loader) LoadRouteConfig() (*RouteConfig, error) {
	var cfg RouteConfig
	if err := l.readJSON("policies/routes.json", &cfg); err != nil {
		return nil, err
	}
	if cfg.SignInPath == "" || cfg.AdminPath == "" || cfg.PublicPath == "" {
		return nil, fmt.Errorf("routes.json: redirect paths are required")
	}
	return &cfg, nil
}

func (l *Loader) readJSON(name string, v any) error {
	data, err := policiesFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
