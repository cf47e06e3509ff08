package policy

import "creatorstack/internal/rbac/model"

// DenyReason explains why an authorization check failed.
type DenyReason string

const (
	ReasonNone              DenyReason = ""
	ReasonUnauthenticated   DenyReason = "unauthenticated"
	ReasonInactive          DenyReason = "inactive"
	ReasonMissingPermission DenyReason = "missing_permission"
	ReasonRoleNotAllowed    DenyReason = "role_not_allowed"
)

// IsAuthorized is the fine-grained decision:
// principal present AND status Active AND perm in the principal's role.
func IsAuthorized(p *model.Principal, perm model.Permission) bool {
	return Check(p, perm) == ReasonNone
}

// IsAuthorizedForRoles is the coarse-grained form used by route guards:
// principal present AND status Active AND role name in allowed.
func IsAuthorizedForRoles(p *model.Principal, allowed ...model.RoleName) bool {
	return CheckRoles(p, allowed...) == ReasonNone
}

// Check returns ReasonNone when p holds perm, or the reason it does not.
func Check(p *model.Principal, perm model.Permission) DenyReason {
	if reason := checkActive(p); reason != ReasonNone {
		return reason
	}
	if !p.Role.HasPermission(perm) {
		return ReasonMissingPermission
	}
	return ReasonNone
}

// CheckRoles returns ReasonNone when p's role is one of allowed.
func CheckRoles(p *model.Principal, allowed ...model.RoleName) DenyReason {
	if reason := checkActive(p); reason != ReasonNone {
		return reason
	}
	name := p.RoleName()
	if name == "" {
		return ReasonRoleNotAllowed
	}
	for _, r := range allowed {
		if r == name {
			return ReasonNone
		}
	}
	return ReasonRoleNotAllowed
}

// CheckActive returns ReasonNone for a present, Active principal.
func CheckActive(p *model.Principal) DenyReason {
	return checkActive(p)
}

func checkActive(p *model.Principal) DenyReason {
	if p == nil {
		return ReasonUnauthenticated
	}
	if p.Status != model.StatusActive {
		return ReasonInactive
	}
	return ReasonNone
}
