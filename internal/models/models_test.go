package models

import (
	"testing"
	"time"
)

func TestInvitationIsValid(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "pending and not expired",
			status:    InvitationPending,
			expiresAt: time.Now().Add(24 * time.Hour),
			want:      true,
		},
		{
			name:      "pending but expired",
			status:    InvitationPending,
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      false,
		},
		{
			name:      "already accepted",
			status:    InvitationAccepted,
			expiresAt: time.Now().Add(24 * time.Hour),
			want:      false,
		},
		{
			name:      "marked expired",
			status:    InvitationExpired,
			expiresAt: time.Now().Add(24 * time.Hour),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invitation{
				Token:     "test-token",
				Status:    tt.status,
				ExpiresAt: tt.expiresAt,
			}
			if got := inv.IsValid(); got != tt.want {
				t.Errorf("Invitation.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvitationIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiration",
			expiresAt: time.Now().Add(7 * 24 * time.Hour),
			want:      false,
		},
		{
			name:      "just expired",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
		{
			name:      "expired last week",
			expiresAt: time.Now().Add(-7 * 24 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invitation{ExpiresAt: tt.expiresAt}
			if got := inv.IsExpired(); got != tt.want {
				t.Errorf("Invitation.IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFamilyMemberRoles(t *testing.T) {
	admin := FamilyMember{Role: RoleAdmin, Status: StatusActive}
	if !admin.IsAdmin() {
		t.Error("admin member should report IsAdmin")
	}
	if !admin.IsActive() {
		t.Error("active member should report IsActive")
	}

	removed := FamilyMember{Role: RoleMember, Status: StatusRemoved}
	if removed.IsAdmin() {
		t.Error("regular member should not report IsAdmin")
	}
	if removed.IsActive() {
		t.Error("removed member should not report IsActive")
	}
}

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{
			name: "name set",
			user: User{Name: "Alice Smith", Email: "alice@example.com"},
			want: "Alice Smith",
		},
		{
			name: "falls back to email",
			user: User{Email: "alice@example.com"},
			want: "alice@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("User.DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
