package model

import "time"

// Role is a named set of permissions. System roles are seeded and cannot be
// renamed or deleted.
type Role struct {
	ID          string       `json:"id" bson:"_id"`
	Name        RoleName     `json:"name" bson:"name"`
	NameKey     string       `json:"-" bson:"name_key"`
	Description string       `json:"description" bson:"description"`
	Permissions []Permission `json:"permissions" bson:"permissions"`
	IsSystem    bool         `json:"isSystem" bson:"is_system"`
	UserCount   int64        `json:"userCount" bson:"-"`
	CreatedAt   time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" bson:"updated_at"`
}

// HasPermission reports whether perm is in the role's permission set.
func (r *Role) HasPermission(perm Permission) bool {
	if r == nil {
		return false
	}
	for _, p := range r.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// User is the stored account record.
type User struct {
	ID           string          `json:"id" bson:"_id"`
	Name         string          `json:"name" bson:"name"`
	Email        string          `json:"email" bson:"email"`
	RoleID       string          `json:"roleId" bson:"role_id"`
	Status       PrincipalStatus `json:"status" bson:"status"`
	StatusReason string          `json:"statusReason,omitempty" bson:"status_reason,omitempty"`
	CreatedAt    time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" bson:"updated_at"`
}

// Principal is a user resolved for authorization: one role, one status.
type Principal struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Email  string          `json:"email,omitempty"`
	Role   *Role           `json:"role"`
	Status PrincipalStatus `json:"status"`
}

// RoleName returns the principal's role name, or "" when it has none.
func (p *Principal) RoleName() RoleName {
	if p == nil || p.Role == nil {
		return ""
	}
	return p.Role.Name
}

// Actor is the principal performing a privileged action plus request metadata
// recorded in the audit trail.
type Actor struct {
	Principal *Principal
	IPAddress string
	UserAgent string
}

// ID returns the actor's principal id or "".
func (a Actor) ID() string {
	if a.Principal == nil {
		return ""
	}
	return a.Principal.ID
}

// Name returns the actor's principal name or "".
func (a Actor) Name() string {
	if a.Principal == nil {
		return ""
	}
	return a.Principal.Name
}

// Submission is a website submitted for review.
type Submission struct {
	ID          string           `json:"id" bson:"_id"`
	Title       string           `json:"title" bson:"title"`
	URL         string           `json:"url" bson:"url"`
	Description string           `json:"description" bson:"description"`
	CategoryID  string           `json:"categoryId" bson:"category_id"`
	Tags        []string         `json:"tags,omitempty" bson:"tags,omitempty"`
	AuthorID    string           `json:"authorId" bson:"author_id"`
	AuthorName  string           `json:"authorName" bson:"author_name"`
	Status      SubmissionStatus `json:"status" bson:"status"`
	History     []HistoryEvent   `json:"history" bson:"history"`
	ReviewedBy  string           `json:"reviewedBy,omitempty" bson:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time       `json:"reviewedAt,omitempty" bson:"reviewed_at,omitempty"`
	CreatedAt   time.Time        `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" bson:"updated_at"`
}

// HistoryEvent is one lifecycle event of a submission (append-only).
type HistoryEvent struct {
	Action    AuditAction      `json:"action" bson:"action"`
	ActorID   string           `json:"actorId" bson:"actor_id"`
	ActorName string           `json:"actorName" bson:"actor_name"`
	From      SubmissionStatus `json:"from,omitempty" bson:"from,omitempty"`
	To        SubmissionStatus `json:"to" bson:"to"`
	Note      string           `json:"note,omitempty" bson:"note,omitempty"`
	At        time.Time        `json:"at" bson:"at"`
}

// AuditLogEntry is an immutable audit record (append-only, read-only after creation).
type AuditLogEntry struct {
	ID         string        `json:"id" bson:"_id"`
	AdminID    string        `json:"adminId" bson:"admin_id"`
	AdminName  string        `json:"adminName" bson:"admin_name"`
	Action     AuditAction   `json:"action" bson:"action"`
	EntityType EntityType    `json:"entityType" bson:"entity_type"`
	EntityID   string        `json:"entityId" bson:"entity_id"`
	Details    *AuditDetails `json:"details,omitempty" bson:"details,omitempty"`
	IPAddress  string        `json:"ipAddress,omitempty" bson:"ip_address,omitempty"`
	UserAgent  string        `json:"userAgent,omitempty" bson:"user_agent,omitempty"`
	CreatedAt  time.Time     `json:"createdAt" bson:"created_at"`
}

// AuditDetails is the optional before/after snapshot of an audited change.
type AuditDetails struct {
	Before any    `json:"before,omitempty" bson:"before,omitempty"`
	After  any    `json:"after,omitempty" bson:"after,omitempty"`
	Notes  string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Category groups websites in the directory.
type Category struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	NameKey      string    `json:"-" bson:"name_key"`
	Description  string    `json:"description" bson:"description"`
	WebsiteCount int64     `json:"websiteCount" bson:"-"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// Notification is a polled, per-user message.
type Notification struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"user_id"`
	Type      string    `json:"type" bson:"type"`
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	EntityID  string    `json:"entityId,omitempty" bson:"entity_id,omitempty"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// ErrorResponse for consistent error handling
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *ErrorDetail) Error() string {
	return e.Message
}
