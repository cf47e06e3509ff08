package model

// Permission is an opaque identifier scoped to a module, e.g. WEBSITE_APPROVE.
type Permission string

// RoleName is the display name of a role. The seeded system roles are
// enumerated below; custom roles carry arbitrary names.
type RoleName string

// System roles
const (
	RoleAdmin     RoleName = "Admin"
	RoleModerator RoleName = "Moderator"
	RoleUser      RoleName = "User"
	RoleDeveloper RoleName = "Developer"
	RoleDesigner  RoleName = "Designer"
	RoleCreator   RoleName = "Creator"
	RoleEditor    RoleName = "Editor"
)

// Permission modules
const (
	ModuleWebsite   = "WEBSITE"
	ModuleUser      = "USER"
	ModuleRole      = "ROLE"
	ModuleSettings  = "SETTINGS"
	ModuleAnalytics = "ANALYTICS"
	ModuleAudit     = "AUDIT"
	ModuleReport    = "REPORT"
	ModuleCategory  = "CATEGORY"
)

// Permission constants for strict typing
const (
	PermWebsiteView    Permission = "WEBSITE_VIEW"
	PermWebsiteCreate  Permission = "WEBSITE_CREATE"
	PermWebsiteEdit    Permission = "WEBSITE_EDIT"
	PermWebsiteDelete  Permission = "WEBSITE_DELETE"
	PermWebsiteApprove Permission = "WEBSITE_APPROVE" // Used for both approve and reject
	PermWebsiteFeature Permission = "WEBSITE_FEATURE"

	PermUserView   Permission = "USER_VIEW"
	PermUserEdit   Permission = "USER_EDIT"
	PermUserBan    Permission = "USER_BAN"
	PermUserDelete Permission = "USER_DELETE"

	PermRoleView   Permission = "ROLE_VIEW"
	PermRoleCreate Permission = "ROLE_CREATE"
	PermRoleEdit   Permission = "ROLE_EDIT"
	PermRoleDelete Permission = "ROLE_DELETE"

	PermSettingsView Permission = "SETTINGS_VIEW"
	PermSettingsEdit Permission = "SETTINGS_EDIT"

	PermAnalyticsView   Permission = "ANALYTICS_VIEW"
	PermAnalyticsExport Permission = "ANALYTICS_EXPORT"

	PermAuditView   Permission = "AUDIT_VIEW"
	PermAuditExport Permission = "AUDIT_EXPORT"

	PermReportView    Permission = "REPORT_VIEW"
	PermReportResolve Permission = "REPORT_RESOLVE"

	PermCategoryView   Permission = "CATEGORY_VIEW"
	PermCategoryCreate Permission = "CATEGORY_CREATE"
	PermCategoryEdit   Permission = "CATEGORY_EDIT"
	PermCategoryDelete Permission = "CATEGORY_DELETE"
)

// PrincipalStatus is the account state of a user.
type PrincipalStatus string

const (
	StatusActive    PrincipalStatus = "Active"
	StatusSuspended PrincipalStatus = "Suspended"
	StatusBanned    PrincipalStatus = "Banned"
)

// AllowedPrincipalStatuses is used by request validation.
var AllowedPrincipalStatuses = map[PrincipalStatus]bool{
	StatusActive:    true,
	StatusSuspended: true,
	StatusBanned:    true,
}

// SubmissionStatus is the lifecycle state of a submitted website.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "Pending"
	SubmissionApproved SubmissionStatus = "Approved"
	SubmissionRejected SubmissionStatus = "Rejected"
)

// AuditAction enumerates audit log actions.
type AuditAction string

const (
	ActionCreate  AuditAction = "Create"
	ActionUpdate  AuditAction = "Update"
	ActionDelete  AuditAction = "Delete"
	ActionApprove AuditAction = "Approve"
	ActionReject  AuditAction = "Reject"
	ActionBan     AuditAction = "Ban"
	ActionSuspend AuditAction = "Suspend"
	ActionOther   AuditAction = "Other"
)

// EntityType enumerates audited entity kinds. Roles are recorded as Other.
type EntityType string

const (
	EntityWebsite  EntityType = "Website"
	EntityUser     EntityType = "User"
	EntityComment  EntityType = "Comment"
	EntityCategory EntityType = "Category"
	EntityReport   EntityType = "Report"
	EntitySettings EntityType = "Settings"
	EntityOther    EntityType = "Other"
)

var knownAuditActions = map[AuditAction]bool{
	ActionCreate: true, ActionUpdate: true, ActionDelete: true, ActionApprove: true,
	ActionReject: true, ActionBan: true, ActionSuspend: true, ActionOther: true,
}

var knownEntityTypes = map[EntityType]bool{
	EntityWebsite: true, EntityUser: true, EntityComment: true, EntityCategory: true,
	EntityReport: true, EntitySettings: true, EntityOther: true,
}

// Notification types
const (
	NotificationSubmissionApproved = "submission_approved"
	NotificationSubmissionRejected = "submission_rejected"
)

// AuditNoteRole marks audit entries about roles (entity type Other).
const AuditNoteRole = "role"
