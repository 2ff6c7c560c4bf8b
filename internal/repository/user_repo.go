package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"familytracker/internal/database"
	"familytracker/internal/models"
)

// UserRepository handles database operations for the local mirror of
// auth-provider identities.
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertBySubject inserts or refreshes the row mirroring an auth-provider
// identity and returns the stored user.
func (r *UserRepository) UpsertBySubject(subject, email, name string) (*models.User, error) {
	existing, err := r.GetUserBySubject(subject)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		query := "INSERT INTO users (subject, email, name) VALUES (?, ?, ?)"
		id, err := r.db.ExecReturningID(query, subject, email, name)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return &models.User{
			ID:        id,
			Subject:   subject,
			Email:     email,
			Name:      name,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}, nil
	}

	if existing.Email != email || existing.Name != name {
		query := "UPDATE users SET email = ?, name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
		if _, err := r.db.Exec(query, email, name, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		existing.Email = email
		existing.Name = name
	}

	return existing, nil
}

// GetUserBySubject retrieves a user by auth-provider subject
func (r *UserRepository) GetUserBySubject(subject string) (*models.User, error) {
	query := "SELECT id, subject, email, name, created_at, updated_at FROM users WHERE subject = ?"
	return r.scanUser(r.db.QueryRow(query, subject))
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(userID int64) (*models.User, error) {
	query := "SELECT id, subject, email, name, created_at, updated_at FROM users WHERE id = ?"
	return r.scanUser(r.db.QueryRow(query, userID))
}

// GetUsersByIDs retrieves a set of users keyed by ID
func (r *UserRepository) GetUsersByIDs(userIDs []int64) (map[int64]models.User, error) {
	users := make(map[int64]models.User, len(userIDs))
	if len(userIDs) == 0 {
		return users, nil
	}

	placeholders := make([]string, len(userIDs))
	args := make([]interface{}, len(userIDs))
	for i, id := range userIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(
		"SELECT id, subject, email, name, created_at, updated_at FROM users WHERE id IN (%s)",
		strings.Join(placeholders, ", "),
	)
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Subject, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}

	return users, rows.Err()
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Subject, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
