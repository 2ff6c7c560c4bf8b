package service

import (
	"fmt"
	"strings"

	"familytracker/internal/models"
	"familytracker/internal/repository"
	"familytracker/internal/utils"
)

// ExpenseInput carries the user-facing fields of an expense. Amount is in
// decimal currency units; conversion to integer cents happens here, once,
// at the boundary.
type ExpenseInput struct {
	Date        string
	Description string
	Amount      float64
	Notes       string
	Category    string
}

// ExpenseService handles the expense ledger business logic
type ExpenseService struct {
	expenseRepo  *repository.ExpenseRepository
	familyRepo   *repository.FamilyRepository
	userRepo     *repository.UserRepository
	categoryRepo *repository.CategoryRepository
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo *repository.ExpenseRepository, familyRepo *repository.FamilyRepository, userRepo *repository.UserRepository, categoryRepo *repository.CategoryRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		familyRepo:   familyRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateExpense validates and appends a new ledger entry for the caller's
// family.
func (s *ExpenseService) CreateExpense(userID int64, input ExpenseInput) (int64, error) {
	membership, err := s.requireMembership(userID)
	if err != nil {
		return 0, err
	}

	expense, err := validateExpenseInput(input)
	if err != nil {
		return 0, err
	}
	expense.FamilyID = membership.FamilyID
	expense.CreatedBy = userID

	id, err := s.expenseRepo.InsertExpense(expense)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// UpdateExpense replaces the mutable fields of an expense. An expense that
// doesn't exist and one that belongs to another family both yield
// ErrExpenseNotFound, so callers can't probe across family boundaries.
func (s *ExpenseService) UpdateExpense(userID, expenseID int64, input ExpenseInput) error {
	membership, err := s.requireMembership(userID)
	if err != nil {
		return err
	}

	existing, err := s.expenseRepo.GetExpenseByID(expenseID)
	if err != nil {
		return err
	}
	if existing == nil || existing.FamilyID != membership.FamilyID {
		return ErrExpenseNotFound
	}

	expense, err := validateExpenseInput(input)
	if err != nil {
		return err
	}
	expense.ID = expenseID

	return s.expenseRepo.UpdateExpense(expense)
}

// DeleteExpense hard-deletes an expense in the caller's family
func (s *ExpenseService) DeleteExpense(userID, expenseID int64) error {
	membership, err := s.requireMembership(userID)
	if err != nil {
		return err
	}

	existing, err := s.expenseRepo.GetExpenseByID(expenseID)
	if err != nil {
		return err
	}
	if existing == nil || existing.FamilyID != membership.FamilyID {
		return ErrExpenseNotFound
	}

	return s.expenseRepo.DeleteExpense(expenseID)
}

// ListExpenses returns the caller's family expenses matching the filter,
// sorted and joined with each creator's identity. No matches is an empty
// result, never an error.
func (s *ExpenseService) ListExpenses(userID int64, filter ExpenseFilter) ([]models.ExpenseWithUser, error) {
	membership, err := s.requireMembership(userID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.ListByFamily(membership.FamilyID, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	expenses = FilterExpenses(expenses, filter)
	SortExpenses(expenses, filter.SortBy, filter.SortOrder)

	userIDs := make([]int64, 0, len(expenses))
	seen := make(map[int64]bool)
	for _, e := range expenses {
		if !seen[e.CreatedBy] {
			seen[e.CreatedBy] = true
			userIDs = append(userIDs, e.CreatedBy)
		}
	}

	users, err := s.userRepo.GetUsersByIDs(userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve expense creators: %w", err)
	}

	result := make([]models.ExpenseWithUser, 0, len(expenses))
	for _, e := range expenses {
		result = append(result, models.ExpenseWithUser{
			Expense:       e,
			CreatedByUser: users[e.CreatedBy],
		})
	}

	return result, nil
}

// UsedCategories returns the distinct categories present on the caller's
// family expenses.
func (s *ExpenseService) UsedCategories(userID int64) ([]string, error) {
	membership, err := s.requireMembership(userID)
	if err != nil {
		return nil, err
	}
	return s.expenseRepo.UsedCategories(membership.FamilyID)
}

// SuggestedCategories returns the family's seeded category suggestions
func (s *ExpenseService) SuggestedCategories(userID int64) ([]string, error) {
	membership, err := s.requireMembership(userID)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.ListNames(membership.FamilyID)
}

func (s *ExpenseService) requireMembership(userID int64) (*models.FamilyMember, error) {
	membership, err := s.familyRepo.GetActiveMembership(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		return nil, ErrNotFamilyMember
	}
	return membership, nil
}

// validateExpenseInput checks the business rules and converts the decimal
// amount to integer cents.
func validateExpenseInput(input ExpenseInput) (*models.Expense, error) {
	if err := utils.ValidateDate(input.Date); err != nil {
		return nil, ErrInvalidDate
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, ErrInvalidDescription
	}

	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	cents := utils.DollarsToCents(input.Amount)
	if cents <= 0 {
		return nil, ErrInvalidAmount
	}

	return &models.Expense{
		Date:        input.Date,
		Description: description,
		Amount:      cents,
		Notes:       strings.TrimSpace(input.Notes),
		Category:    strings.TrimSpace(input.Category),
	}, nil
}
