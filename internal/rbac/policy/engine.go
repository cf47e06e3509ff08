package policy

import "fmt"

// Engine holds the policy tables loaded from the embedded JSON files
type Engine struct {
	systemRoles []SystemRoleSeed
	apiConfigs  map[string]*APIConfig
	routes      *RouteConfig
}

// NewEngine creates a new policy Engine instance
func NewEngine() (*Engine, error) {
	loader := NewLoader()

	systemRoles, err := loader.LoadSystemRoles()
	if err != nil {
		return nil, fmt.Errorf("failed to load system roles: %w", err)
	}

	apiConfigs, err := loader.LoadAPIConfigs()
	if err != nil {
		return nil, fmt.Errorf("failed to load api policies: %w", err)
	}

	routes, err := loader.LoadRouteConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load route config: %w", err)
	}

	return &Engine{
		systemRoles: systemRoles,
		apiConfigs:  apiConfigs,
		routes:      routes,
	}, nil
}

// SystemRoles returns the seeded system role definitions
func (e *Engine) SystemRoles() []SystemRoleSeed {
	return e.systemRoles
}

// APIConfig returns the policy for a route template, if any
func (e *Engine) APIConfig(method, path string) (*APIConfig, bool) {
	cfg, ok := e.apiConfigs[method+":"+path]
	return cfg, ok
}

// APIConfigs returns every configured API policy
func (e *Engine) APIConfigs() map[string]*APIConfig {
	return e.apiConfigs
}

// Routes returns the client route table
func (e *Engine) Routes() *RouteConfig {
	return e.routes
}
