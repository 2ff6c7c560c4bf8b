package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familytracker/internal/database"
	"familytracker/internal/models"
)

// InvitationRepository handles database operations for invitations
type InvitationRepository struct {
	db *database.DB
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db *database.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// CreateInvitation inserts a pending invitation
func (r *InvitationRepository) CreateInvitation(familyID int64, email string, invitedBy int64, token string, expiresAt time.Time) (*models.Invitation, error) {
	query := `
		INSERT INTO invitations (family_id, email, invited_by, token, expires_at, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, familyID, email, invitedBy, token, expiresAt, models.InvitationPending)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return &models.Invitation{
		ID:        id,
		FamilyID:  familyID,
		Email:     email,
		InvitedBy: invitedBy,
		Token:     token,
		ExpiresAt: expiresAt,
		Status:    models.InvitationPending,
		CreatedAt: time.Now(),
	}, nil
}

// GetPendingByFamilyEmail returns the pending invitation for a
// (family, email) pair, or nil. Write paths keep at most one such row.
func (r *InvitationRepository) GetPendingByFamilyEmail(familyID int64, email string) (*models.Invitation, error) {
	query := `
		SELECT id, family_id, email, invited_by, token, expires_at, status, created_at
		FROM invitations
		WHERE family_id = ? AND email = ? AND status = ?
	`
	inv := &models.Invitation{}
	err := r.db.QueryRow(query, familyID, email, models.InvitationPending).Scan(
		&inv.ID, &inv.FamilyID, &inv.Email, &inv.InvitedBy,
		&inv.Token, &inv.ExpiresAt, &inv.Status, &inv.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending invitation: %w", err)
	}
	return inv, nil
}

// MarkExpired flips a stale invitation to expired so a fresh one can be
// issued for the same address.
func (r *InvitationRepository) MarkExpired(invitationID int64) error {
	query := "UPDATE invitations SET status = ? WHERE id = ?"
	if _, err := r.db.Exec(query, models.InvitationExpired, invitationID); err != nil {
		return fmt.Errorf("failed to expire invitation: %w", err)
	}
	return nil
}

// GetByToken retrieves an invitation by token, joined with family and
// inviter names for display. Returns nil when the token is unknown.
func (r *InvitationRepository) GetByToken(token string) (*models.Invitation, error) {
	query := `
		SELECT i.id, i.family_id, i.email, i.invited_by, i.token, i.expires_at, i.status, i.created_at,
		       f.name, u.name
		FROM invitations i
		INNER JOIN families f ON i.family_id = f.id
		LEFT JOIN users u ON i.invited_by = u.id
		WHERE i.token = ?
	`
	inv := &models.Invitation{}
	var inviterName sql.NullString
	err := r.db.QueryRow(query, token).Scan(
		&inv.ID, &inv.FamilyID, &inv.Email, &inv.InvitedBy,
		&inv.Token, &inv.ExpiresAt, &inv.Status, &inv.CreatedAt,
		&inv.FamilyName, &inviterName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	inv.InviterName = inviterName.String
	return inv, nil
}

// Accept redeems an invitation: inserts the new active membership and flips
// the invitation to accepted in one transaction, so there is never a state
// where one exists without the other.
func (r *InvitationRepository) Accept(inv *models.Invitation, userID int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO family_members (family_id, user_id, role, status, invited_by, invited_at, joined_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(query, inv.FamilyID, userID, models.RoleMember, models.StatusActive,
		inv.InvitedBy, inv.CreatedAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add family member: %w", err)
	}

	// Guard against a concurrent accept of the same token: the update only
	// lands if the invitation is still pending.
	result, err := tx.Exec("UPDATE invitations SET status = ? WHERE id = ? AND status = ?",
		models.InvitationAccepted, inv.ID, models.InvitationPending)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check invitation update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("invitation is no longer pending")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
