package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familytracker/internal/database"
	"familytracker/internal/models"
)

// ExpenseRepository handles database operations for the expense ledger
type ExpenseRepository struct {
	db *database.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *database.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// InsertExpense appends a new ledger entry and returns its ID
func (r *ExpenseRepository) InsertExpense(e *models.Expense) (int64, error) {
	query := `
		INSERT INTO expenses (family_id, created_by, date, description, amount, notes, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, e.FamilyID, e.CreatedBy, e.Date, e.Description, e.Amount, e.Notes, e.Category)
	if err != nil {
		return 0, fmt.Errorf("failed to create expense: %w", err)
	}
	return id, nil
}

// GetExpenseByID retrieves an expense by ID
func (r *ExpenseRepository) GetExpenseByID(expenseID int64) (*models.Expense, error) {
	query := `
		SELECT id, family_id, created_by, date, description, amount, notes, category, created_at, updated_at
		FROM expenses
		WHERE id = ?
	`
	e := &models.Expense{}
	err := r.db.QueryRow(query, expenseID).Scan(
		&e.ID, &e.FamilyID, &e.CreatedBy, &e.Date, &e.Description,
		&e.Amount, &e.Notes, &e.Category, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// UpdateExpense replaces the mutable fields of an expense and refreshes
// updated_at.
func (r *ExpenseRepository) UpdateExpense(e *models.Expense) error {
	query := `
		UPDATE expenses
		SET date = ?, description = ?, amount = ?, notes = ?, category = ?, updated_at = ?
		WHERE id = ?
	`
	if _, err := r.db.Exec(query, e.Date, e.Description, e.Amount, e.Notes, e.Category, time.Now(), e.ID); err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return nil
}

// DeleteExpense hard-deletes an expense. The ledger keeps no tombstones.
func (r *ExpenseRepository) DeleteExpense(expenseID int64) error {
	query := "DELETE FROM expenses WHERE id = ?"
	if _, err := r.db.Exec(query, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// ListByFamily retrieves a family's expenses, optionally narrowed to an
// inclusive date range. Dates are fixed-width YYYY-MM-DD strings, so the
// range scan compares lexically on the (family_id, date) index.
func (r *ExpenseRepository) ListByFamily(familyID int64, startDate, endDate string) ([]models.Expense, error) {
	query := `
		SELECT id, family_id, created_by, date, description, amount, notes, category, created_at, updated_at
		FROM expenses
		WHERE family_id = ?
	`
	args := []interface{}{familyID}

	if startDate != "" {
		query += " AND date >= ?"
		args = append(args, startDate)
	}
	if endDate != "" {
		query += " AND date <= ?"
		args = append(args, endDate)
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(
			&e.ID, &e.FamilyID, &e.CreatedBy, &e.Date, &e.Description,
			&e.Amount, &e.Notes, &e.Category, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// UsedCategories returns the distinct non-empty categories actually present
// on a family's expenses, sorted alphabetically.
func (r *ExpenseRepository) UsedCategories(familyID int64) ([]string, error) {
	query := `
		SELECT DISTINCT category FROM expenses
		WHERE family_id = ? AND category != ''
		ORDER BY category ASC
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}
