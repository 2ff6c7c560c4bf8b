package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familytracker/internal/database"
	"familytracker/internal/models"
)

// FamilyRepository handles database operations for families and memberships
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateFamilyWithAdmin creates a family and its founding admin membership
// as a single transaction. Both rows exist or neither does.
func (r *FamilyRepository) CreateFamilyWithAdmin(name string, creatorUserID int64) (*models.Family, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO families (name, created_by) VALUES (?, ?)"
	familyID, err := tx.ExecReturningID(query, name, creatorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	query = "INSERT INTO family_members (family_id, user_id, role, status, joined_at) VALUES (?, ?, ?, ?, ?)"
	_, err = tx.Exec(query, familyID, creatorUserID, models.RoleAdmin, models.StatusActive, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to add family member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.Family{
		ID:        familyID,
		Name:      name,
		CreatedBy: creatorUserID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// GetFamilyByID retrieves a family by ID
func (r *FamilyRepository) GetFamilyByID(familyID int64) (*models.Family, error) {
	query := "SELECT id, name, created_by, created_at, updated_at FROM families WHERE id = ?"
	family := &models.Family{}
	err := r.db.QueryRow(query, familyID).Scan(
		&family.ID,
		&family.Name,
		&family.CreatedBy,
		&family.CreatedAt,
		&family.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}

	return family, nil
}

// ListFamilies retrieves every family. Used by the digest job.
func (r *FamilyRepository) ListFamilies() ([]models.Family, error) {
	query := "SELECT id, name, created_by, created_at, updated_at FROM families ORDER BY created_at ASC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		var family models.Family
		if err := rows.Scan(&family.ID, &family.Name, &family.CreatedBy, &family.CreatedAt, &family.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, family)
	}

	return families, rows.Err()
}

// GetActiveMembership returns the user's single active membership, or nil.
// At most one row per user can be active at any time.
func (r *FamilyRepository) GetActiveMembership(userID int64) (*models.FamilyMember, error) {
	query := `
		SELECT id, family_id, user_id, role, status, invited_by, invited_at, joined_at
		FROM family_members
		WHERE user_id = ? AND status = ?
	`
	return r.scanMember(r.db.QueryRow(query, userID, models.StatusActive))
}

// GetMemberByID retrieves a membership row by ID
func (r *FamilyRepository) GetMemberByID(memberID int64) (*models.FamilyMember, error) {
	query := `
		SELECT id, family_id, user_id, role, status, invited_by, invited_at, joined_at
		FROM family_members
		WHERE id = ?
	`
	return r.scanMember(r.db.QueryRow(query, memberID))
}

// GetMembersWithUsers retrieves all members of a family (any status) joined
// with their user identities.
func (r *FamilyRepository) GetMembersWithUsers(familyID int64) ([]models.MemberWithUser, error) {
	query := `
		SELECT fm.id, fm.family_id, fm.user_id, fm.role, fm.status, fm.invited_by, fm.invited_at, fm.joined_at,
		       u.id, u.subject, u.email, u.name, u.created_at, u.updated_at
		FROM family_members fm
		INNER JOIN users u ON fm.user_id = u.id
		WHERE fm.family_id = ?
		ORDER BY fm.id ASC
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	var members []models.MemberWithUser
	for rows.Next() {
		var m models.MemberWithUser
		var invitedBy sql.NullInt64
		var invitedAt, joinedAt sql.NullTime
		if err := rows.Scan(
			&m.FamilyMember.ID, &m.FamilyID, &m.UserID, &m.Role, &m.Status, &invitedBy, &invitedAt, &joinedAt,
			&m.User.ID, &m.User.Subject, &m.User.Email, &m.User.Name, &m.User.CreatedAt, &m.User.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		if invitedBy.Valid {
			m.InvitedBy = &invitedBy.Int64
		}
		if invitedAt.Valid {
			t := invitedAt.Time
			m.InvitedAt = &t
		}
		if joinedAt.Valid {
			t := joinedAt.Time
			m.JoinedAt = &t
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// UpdateMemberStatus changes a membership's status. The row itself is never
// deleted.
func (r *FamilyRepository) UpdateMemberStatus(memberID int64, status string) error {
	query := "UPDATE family_members SET status = ? WHERE id = ?"
	if _, err := r.db.Exec(query, status, memberID); err != nil {
		return fmt.Errorf("failed to update member status: %w", err)
	}
	return nil
}

func (r *FamilyRepository) scanMember(row *sql.Row) (*models.FamilyMember, error) {
	member := &models.FamilyMember{}
	var invitedBy sql.NullInt64
	var invitedAt, joinedAt sql.NullTime
	err := row.Scan(
		&member.ID, &member.FamilyID, &member.UserID, &member.Role, &member.Status,
		&invitedBy, &invitedAt, &joinedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family member: %w", err)
	}
	if invitedBy.Valid {
		member.InvitedBy = &invitedBy.Int64
	}
	if invitedAt.Valid {
		t := invitedAt.Time
		member.InvitedAt = &t
	}
	if joinedAt.Valid {
		t := joinedAt.Time
		member.JoinedAt = &t
	}
	return member, nil
}
