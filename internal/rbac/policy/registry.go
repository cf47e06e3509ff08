package policy

import (
	"errors"
	"fmt"

	"creatorstack/internal/rbac/model"
)

// ErrInvalidPermission is returned for identifiers missing from the registry.
var ErrInvalidPermission = errors.New("invalid permission")

// registry is the static permission catalog, in display order.
var registry = []PermissionModule{
	{Module: model.ModuleWebsite, Permissions: []model.Permission{
		model.PermWebsiteView, model.PermWebsiteCreate, model.PermWebsiteEdit,
		model.PermWebsiteDelete, model.PermWebsiteApprove, model.PermWebsiteFeature,
	}},
	{Module: model.ModuleUser, Permissions: []model.Permission{
		model.PermUserView, model.PermUserEdit, model.PermUserBan, model.PermUserDelete,
	}},
	{Module: model.ModuleRole, Permissions: []model.Permission{
		model.PermRoleView, model.PermRoleCreate, model.PermRoleEdit, model.PermRoleDelete,
	}},
	{Module: model.ModuleSettings, Permissions: []model.Permission{
		model.PermSettingsView, model.PermSettingsEdit,
	}},
	{Module: model.ModuleAnalytics, Permissions: []model.Permission{
		model.PermAnalyticsView, model.PermAnalyticsExport,
	}},
	{Module: model.ModuleAudit, Permissions: []model.Permission{
		model.PermAuditView, model.PermAuditExport,
	}},
	{Module: model.ModuleReport, Permissions: []model.Permission{
		model.PermReportView, model.PermReportResolve,
	}},
	{Module: model.ModuleCategory, Permissions: []model.Permission{
		model.PermCategoryView, model.PermCategoryCreate, model.PermCategoryEdit, model.PermCategoryDelete,
	}},
}

var known = func() map[model.Permission]bool {
	m := make(map[model.Permission]bool)
	for _, mod := range registry {
		for _, p := range mod.Permissions {
			m[p] = true
		}
	}
	return m
}()

// ListModules returns the permission catalog grouped by module. The result is
// a copy; callers may modify it.
func ListModules() []PermissionModule {
	out := make([]PermissionModule, len(registry))
	for i, mod := range registry {
		perms := make([]model.Permission, len(mod.Permissions))
		copy(perms, mod.Permissions)
		out[i] = PermissionModule{Module: mod.Module, Permissions: perms}
	}
	return out
}

func IsKnownPermission(p model.Permission) bool {
	return known[p]
}

// ValidatePermissions reports the first permission not in the registry.
func ValidatePermissions(perms []model.Permission) error {
	for _, p := range perms {
		if !known[p] {
			return fmt.Errorf("%w: %s", ErrInvalidPermission, p)
		}
	}
	return nil
}
