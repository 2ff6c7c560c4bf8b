package models

import "time"

// Member roles
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Membership statuses
const (
	StatusActive  = "active"
	StatusInvited = "invited"
	StatusRemoved = "removed"
)

// Family is the grouping unit; all expenses and memberships are scoped to
// exactly one family.
type Family struct {
	ID        int64
	Name      string
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FamilyMember represents a user's relationship to a family. Removal is a
// soft delete: status flips to "removed" and the row is kept for history.
type FamilyMember struct {
	ID        int64
	FamilyID  int64
	UserID    int64
	Role      string
	Status    string
	InvitedBy *int64
	InvitedAt *time.Time
	JoinedAt  *time.Time
}

// IsAdmin reports whether the member holds the admin role.
func (m *FamilyMember) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// IsActive reports whether the membership is currently active.
func (m *FamilyMember) IsActive() bool {
	return m.Status == StatusActive
}

// MemberWithUser combines a membership with the member's identity for display.
type MemberWithUser struct {
	FamilyMember
	User User
}
