package repository

import (
	"fmt"

	"familytracker/internal/database"
)

// CategoryRepository handles database operations for the per-family
// suggested category list.
type CategoryRepository struct {
	db *database.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *database.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// CreateAll inserts a batch of category names for a family
func (r *CategoryRepository) CreateAll(familyID, createdBy int64, names []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO categories (family_id, name, created_by) VALUES (?, ?, ?)"
	for _, name := range names {
		if _, err := tx.Exec(query, familyID, name, createdBy); err != nil {
			return fmt.Errorf("failed to create category %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListNames retrieves a family's suggested category names in insertion order
func (r *CategoryRepository) ListNames(familyID int64) ([]string, error) {
	query := "SELECT name FROM categories WHERE family_id = ? ORDER BY id ASC"
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
