package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"creatorstack/internal/rbac/model"
)

// MemoryRepository is a process-local Repository. A single mutex serializes
// writes, which gives every mutation plus its audit entry the same
// all-or-nothing behaviour as the Mongo transactions.
type MemoryRepository struct {
	mu            sync.RWMutex
	roles         map[string]*model.Role
	users         map[string]*model.User
	submissions   map[string]*model.Submission
	categories    map[string]*model.Category
	notifications map[string]*model.Notification
	auditLogs     []*model.AuditLogEntry

	// OnAuditWrite, when set, runs before an audit entry is stored. A non-nil
	// error aborts the write and the mutation it documents.
	OnAuditWrite func(entry *model.AuditLogEntry) error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		roles:         make(map[string]*model.Role),
		users:         make(map[string]*model.User),
		submissions:   make(map[string]*model.Submission),
		categories:    make(map[string]*model.Category),
		notifications: make(map[string]*model.Notification),
	}
}

func (m *MemoryRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

// checkAudit must run before any state is changed
func (m *MemoryRepository) checkAudit(entry *model.AuditLogEntry) error {
	if entry == nil || m.OnAuditWrite == nil {
		return nil
	}
	return m.OnAuditWrite(entry)
}

func (m *MemoryRepository) appendAudit(entry *model.AuditLogEntry) {
	if entry == nil {
		return
	}
	m.auditLogs = append(m.auditLogs, cloneAudit(entry))
}

// ---- roles ----

func (m *MemoryRepository) ListRoles(ctx context.Context) ([]*model.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := m.userCountsLocked()
	roles := make([]*model.Role, 0, len(m.roles))
	for _, r := range m.roles {
		c := cloneRole(r)
		c.UserCount = counts[r.ID]
		roles = append(roles, c)
	}
	sortRoles(roles)
	return roles, nil
}

func (m *MemoryRepository) GetRole(ctx context.Context, id string) (*model.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.roles[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := cloneRole(r)
	c.UserCount = m.userCountsLocked()[id]
	return c, nil
}

func (m *MemoryRepository) CreateRole(ctx context.Context, role *model.Role, audit *model.AuditLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.roles[role.ID]; ok {
		return ErrDuplicate
	}
	if m.roleNameTakenLocked(role.NameKey, "") {
		return ErrDuplicate
	}
	if err := m.checkAudit(audit); err != nil {
		return err
	}
	m.roles[role.ID] = cloneRole(role)
	m.appendAudit(audit)
	return nil
}

func (m *MemoryRepository) UpdateRole(ctx context.Context, role *model.Role, audit *model.AuditLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.roles[role.ID]
	if !ok {
		return ErrNotFound
	}
	if m.roleNameTakenLocked(role.NameKey, role.ID) {
		return ErrDuplicate
	}
	if err := m.checkAudit(audit); err != nil {
		return err
	}
	updated := cloneRole(existing)
	updated.Name = role.Name
	updated.NameKey = role.NameKey
	updated.Description = role.Description
	updated.Permissions = append([]model.Permission(nil), role.Permissions...)
	updated.UpdatedAt = role.UpdatedAt
	m.roles[role.ID] = updated
	m.appendAudit(audit)
	return nil
}

func (m *MemoryRepository) DeleteRole(ctx context.Context, id, reassignTo string, audit *model.AuditLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	role, ok := m.roles[id]
	if !ok {
		return ErrNotFound
	}
	if role.IsSystem {
		return ErrProtected
	}
	holders := m.userCountsLocked()[id]
	if holders > 0 {
		if reassignTo == "" {
			return ErrInUse
		}
		if _, ok := m.roles[reassignTo]; !ok {
			return ErrInvalidReference
		}
	}
	if err := m.checkAudit(audit); err != nil {
		return err
	}

	if holders > 0 {
		ts := now()
		for _, u := range m.users {
			if u.RoleID == id {
				u.RoleID = reassignTo
				u.UpdatedAt = ts
			}
		}
	}
	delete(m.roles, id)
	m.appendAudit(audit)
	return nil
}

func (m *MemoryRepository) EnsureSystemRoles(ctx context.Context, roles []*model.Role) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inserted := 0
	for _, role := range roles {
		if m.roleNameTakenLocked(role.NameKey, "") {
			continue
		}
		m.roles[role.ID] = cloneRole(role)
		inserted++
	}
	return inserted, nil
}

func (m *MemoryRepository) roleNameTakenLocked(key, exceptID string) bool {
	for _, r := range m.roles {
		if r.NameKey == key && r.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *MemoryRepository) userCountsLocked() map[string]int64 {
	counts := make(map[string]int64)
	for _, u := range m.users {
		counts[u.RoleID]++
	}
	return counts
}

// ---- users ----

func (m *MemoryRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *MemoryRepository) ListUsers(ctx context.Context, req model.ListUsersReq) ([]*model.User, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(req.Search)
	matched := make([]*model.User, 0)
	for _, u := range m.users {
		if req.RoleID != "" && u.RoleID != req.RoleID {
			continue
		}
		if req.Status != "" && u.Status != req.Status {
			continue
		}
		if search != "" && !containsFold(search, u.Name, u.Email) {
			continue
		}
		c := *u
		matched = append(matched, &c)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return paginate(matched, req.Page, req.Limit), int64(len(matched)), nil
}

func (m *MemoryRepository) CreateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; ok {
		return ErrDuplicate
	}
	c := *user
	m.users[user.ID] = &c
	return nil
}

func (m *MemoryRepository) UpdateUserRole(ctx context.Context, userID, roleID string, audit *model.AuditLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.roles[roleID]; !ok {
		return ErrInvalidReference
	}
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	if err := m.checkAudit(audit); err != nil {
		return err
	}
	u.RoleID = roleID
	u.UpdatedAt = now()
	m.appendAudit(audit)
	return nil
}

func (m *MemoryRepository) UpdateUserStatus(ctx context.Context, userID string, status model.PrincipalStatus, reason string, audit *model.AuditLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	if err := m.checkAudit(audit); err != nil {
		return err
	}
	u.Status = status
	u.StatusReason = reason
	u.UpdatedAt = now()
	m.appendAudit(audit)
	return nil
}

// ---- submissions ----

func (m *MemoryRepository) CreateSubmission(ctx context.Context, s *model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[s.CategoryID]; !ok {
		return ErrInvalidReference
	}
	if _, ok := m.submissions[s.ID]; ok {
		return ErrDuplicate
	}
	m.submissions[s.ID] = cloneSubmission(s)
	return nil
}

func (m *MemoryRepository) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSubmission(s), nil
}

func (m *MemoryRepository) ListSubmissions(ctx context.Context, req model.ListSubmissionsReq) ([]*model.Submission, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(req.Search)
	matched := make([]*model.Submission, 0)
	for _, s := range m.submissions {
		if req.Status != "" && s.Status != req.Status {
			continue
		}
		if req.AuthorID != "" && s.AuthorID != req.AuthorID {
			continue
		}
		if search != "" && !containsFold(search, append([]string{s.Title, s.URL, s.Description}, s.Tags...)...) {
			continue
		}
		matched = append(matched, cloneSubmission(s))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return paginate(matched, req.Page, req.Limit), int64(len(matched)), nil
}

func (m *MemoryRepository) TransitionSubmission(ctx context.Context, id string, from, to model.SubmissionStatus, event model.HistoryEvent, audit *model.AuditLogEntry) (*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.Status != from {
		return nil, ErrStatusMismatch
	}
	if err := m.checkAudit(audit); err != nil {
		return nil, err
	}

	at := event.At
	s.Status = to
	s.UpdatedAt = at
	s.ReviewedBy = event.ActorID
	s.ReviewedAt = &at
	s.History = append(s.History, event)
	m.appendAudit(audit)
	return cloneSubmission(s), nil
}

// ---- audit ----

func (m *MemoryRepository) CreateAuditLog(ctx context.Context, entry *model.AuditLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkAudit(entry); err != nil {
		return err
	}
	m.appendAudit(entry)
	return nil
}

func (m *MemoryRepository) FindAuditLogs(ctx context.Context, f model.AuditLogFilter) ([]*model.AuditLogEntry, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(f.Search)
	matched := make([]*model.AuditLogEntry, 0)
	// newest insertion first, so equal timestamps keep most-recent-first order
	for i := len(m.auditLogs) - 1; i >= 0; i-- {
		e := m.auditLogs[i]
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.EntityType != "" && e.EntityType != f.EntityType {
			continue
		}
		if f.AdminID != "" && e.AdminID != f.AdminID {
			continue
		}
		if f.Start != nil && e.CreatedAt.Before(*f.Start) {
			continue
		}
		if f.End != nil && e.CreatedAt.After(*f.End) {
			continue
		}
		if search != "" {
			notes := ""
			if e.Details != nil {
				notes = e.Details.Notes
			}
			if !containsFold(search, e.AdminName, e.EntityID, notes) {
				continue
			}
		}
		matched = append(matched, cloneAudit(e))
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

// ---- categories ----

func (m *MemoryRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := m.websiteCountsLocked()
	out := make([]*model.Category, 0, len(m.categories))
	for _, c := range m.categories {
		cp := *c
		cp.WebsiteCount = counts[c.ID]
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NameKey < out[j].NameKey })
	return out, nil
}

func (m *MemoryRepository) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	cp.WebsiteCount = m.websiteCountsLocked()[id]
	return &cp, nil
}

func (m *MemoryRepository) CreateCategory(ctx context.Context, c *model.Category, audit *model.AuditLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[c.ID]; ok {
		return ErrDuplicate
	}
	if m.categoryNameTakenLocked(c.NameKey, "") {
		return ErrDuplicate
	}
	if err := m.checkAudit(audit); err != nil {
		return err
	}
	cp := *c
	m.categories[c.ID] = &cp
	m.appendAudit(audit)
	return nil
}

func (m *MemoryRepository) UpdateCategory(ctx context.Context, c *model.Category, audit *model.AuditLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.categories[c.ID]
	if !ok {
		return ErrNotFound
	}
	if m.categoryNameTakenLocked(c.NameKey, c.ID) {
		return ErrDuplicate
	}
	if err := m.checkAudit(audit); err != nil {
		return err
	}
	existing.Name = c.Name
	existing.NameKey = c.NameKey
	existing.Description = c.Description
	existing.UpdatedAt = c.UpdatedAt
	m.appendAudit(audit)
	return nil
}

func (m *MemoryRepository) DeleteCategory(ctx context.Context, id, reassignTo string, audit *model.AuditLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[id]; !ok {
		return ErrNotFound
	}
	websites := m.websiteCountsLocked()[id]
	if websites > 0 {
		if reassignTo == "" {
			return ErrInUse
		}
		if _, ok := m.categories[reassignTo]; !ok {
			return ErrInvalidReference
		}
	}
	if err := m.checkAudit(audit); err != nil {
		return err
	}

	if websites > 0 {
		ts := now()
		for _, s := range m.submissions {
			if s.CategoryID == id {
				s.CategoryID = reassignTo
				s.UpdatedAt = ts
			}
		}
	}
	delete(m.categories, id)
	m.appendAudit(audit)
	return nil
}

func (m *MemoryRepository) categoryNameTakenLocked(key, exceptID string) bool {
	for _, c := range m.categories {
		if c.NameKey == key && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *MemoryRepository) websiteCountsLocked() map[string]int64 {
	counts := make(map[string]int64)
	for _, s := range m.submissions {
		counts[s.CategoryID]++
	}
	return counts
}

// ---- notifications ----

func (m *MemoryRepository) CreateNotification(ctx context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notifications[n.ID]; ok {
		return ErrDuplicate
	}
	cp := *n
	m.notifications[n.ID] = &cp
	return nil
}

func (m *MemoryRepository) ListNotifications(ctx context.Context, userID string, req model.ListNotificationsReq) ([]*model.Notification, int64, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var unread int64
	matched := make([]*model.Notification, 0)
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if !n.Read {
			unread++
		}
		if req.UnreadOnly && n.Read {
			continue
		}
		cp := *n
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return paginate(matched, req.Page, req.Limit), int64(len(matched)), unread, nil
}

func (m *MemoryRepository) MarkNotificationRead(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	n.Read = true
	return nil
}

// ---- helpers ----

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	skip := model.Skip(page, limit)
	if skip >= int64(len(items)) {
		return []T{}
	}
	start := int(skip)
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// containsFold reports whether any field contains the lowercased needle
func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func cloneRole(r *model.Role) *model.Role {
	c := *r
	c.Permissions = append([]model.Permission(nil), r.Permissions...)
	return &c
}

func cloneSubmission(s *model.Submission) *model.Submission {
	c := *s
	c.Tags = append([]string(nil), s.Tags...)
	c.History = append([]model.HistoryEvent(nil), s.History...)
	if s.ReviewedAt != nil {
		at := *s.ReviewedAt
		c.ReviewedAt = &at
	}
	return &c
}

func cloneAudit(e *model.AuditLogEntry) *model.AuditLogEntry {
	c := *e
	if e.Details != nil {
		d := *e.Details
		c.Details = &d
	}
	return &c
}
