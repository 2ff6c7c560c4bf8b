package models

import "time"

// Invitation statuses
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationExpired  = "expired"
)

// Invitation is a time-limited bearer credential granting the right to join
// a specific family as a specific email address. The token is opaque and
// globally unique; expiry is evaluated lazily at read time.
type Invitation struct {
	ID        int64
	FamilyID  int64
	Email     string
	InvitedBy int64
	Token     string
	ExpiresAt time.Time
	Status    string
	CreatedAt time.Time

	// Populated via JOIN for display
	FamilyName  string
	InviterName string
}

func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

func (i *Invitation) IsPending() bool {
	return i.Status == InvitationPending
}

// IsValid reports whether the invitation can still be redeemed.
func (i *Invitation) IsValid() bool {
	return i.IsPending() && !i.IsExpired()
}
