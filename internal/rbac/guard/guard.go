// Package guard decides whether a client navigation may proceed and where
// to send a principal that may not.
package guard

import (
	"path"
	"strings"

	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/policy"
)

// State of a navigation attempt
type State string

const (
	StateChecking State = "Checking"
	StateAllowed  State = "Allowed"
	StateDenied   State = "Denied"
)

// Session is what the guard knows about the current principal. Resolved is
// false while session or role data is still loading.
type Session struct {
	Resolved  bool
	Principal *model.Principal
}

// Decision is the guard's verdict. Redirect is set only when denied.
type Decision struct {
	State    State  `json:"state"`
	Redirect string `json:"redirect,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Guard evaluates navigations against a route table. It holds no mutable
// state, so repeated evaluation always yields the same decision.
type Guard struct {
	cfg *policy.RouteConfig
}

func New(cfg *policy.RouteConfig) *Guard {
	return &Guard{cfg: cfg}
}

// Evaluate decides the navigation to path for session.
func (g *Guard) Evaluate(session Session, path string) Decision {
	if !session.Resolved {
		return Decision{State: StateChecking}
	}

	rule := g.match(path)
	if rule == nil {
		return Decision{State: StateAllowed}
	}

	p := session.Principal
	reason := policy.CheckRoles(p, rule.AllowedRoles...)
	if reason == policy.ReasonNone {
		return Decision{State: StateAllowed}
	}

	d := Decision{State: StateDenied, Reason: string(reason)}
	switch {
	case reason == policy.ReasonUnauthenticated:
		d.Redirect = g.cfg.SignInPath
	case g.isAdminRole(p.RoleName()) && p.Status == model.StatusActive:
		d.Redirect = g.cfg.AdminPath
	default:
		d.Redirect = g.cfg.PublicPath
	}
	return d
}

// match returns the rule with the longest prefix matching path on a
// segment boundary, or nil for public paths.
func (g *Guard) match(path string) *policy.RouteRule {
	path = normalize(path)
	var best *policy.RouteRule
	for i := range g.cfg.Routes {
		r := &g.cfg.Routes[i]
		prefix := normalize(r.Prefix)
		if path != prefix && !strings.HasPrefix(path, prefix+"/") {
			continue
		}
		if best == nil || len(prefix) > len(normalize(best.Prefix)) {
			best = r
		}
	}
	return best
}

func (g *Guard) isAdminRole(name model.RoleName) bool {
	for _, r := range g.cfg.AdminRoles {
		if r == name {
			return true
		}
	}
	return false
}

// normalize strips query and fragment, resolves dot segments and folds case:
// the client router matches paths case-insensitively.
func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return strings.ToLower(path.Clean("/" + p))
}
