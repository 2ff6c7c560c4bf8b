package service

import (
	"sort"
	"strings"

	"familytracker/internal/models"
)

// Sort keys and orders accepted by ListExpenses
const (
	SortByDate        = "date"
	SortByAmount      = "amount"
	SortByDescription = "description"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// ExpenseFilter holds the optional predicates and sort for an expense
// listing. Every predicate is independently optional; all given predicates
// must match (AND semantics). Amounts are in minor currency units.
type ExpenseFilter struct {
	Search    string
	StartDate string
	EndDate   string
	MinAmount *int64
	MaxAmount *int64
	Category  string
	SortBy    string
	SortOrder string
}

// FilterExpenses applies the in-memory predicates (search, amount bounds,
// category) to a slice of expenses. Date-range narrowing happens earlier,
// at the storage layer.
func FilterExpenses(expenses []models.Expense, filter ExpenseFilter) []models.Expense {
	result := make([]models.Expense, 0, len(expenses))

	search := strings.ToLower(filter.Search)

	for _, e := range expenses {
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Description), search) &&
			!strings.Contains(strings.ToLower(e.Notes), search) {
			continue
		}
		if filter.MinAmount != nil && e.Amount < *filter.MinAmount {
			continue
		}
		if filter.MaxAmount != nil && e.Amount > *filter.MaxAmount {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		result = append(result, e)
	}

	return result
}

// SortExpenses orders expenses in place by the requested key. Defaults are
// date descending. The sort is stable: expenses that compare equal keep
// their storage order, which is insertion order.
func SortExpenses(expenses []models.Expense, sortBy, sortOrder string) {
	if sortBy == "" {
		sortBy = SortByDate
	}
	if sortOrder == "" {
		sortOrder = SortDesc
	}

	var less func(a, b models.Expense) bool
	switch sortBy {
	case SortByAmount:
		less = func(a, b models.Expense) bool { return a.Amount < b.Amount }
	case SortByDescription:
		less = func(a, b models.Expense) bool {
			return strings.ToLower(a.Description) < strings.ToLower(b.Description)
		}
	default:
		// Fixed-width YYYY-MM-DD dates compare correctly as strings.
		less = func(a, b models.Expense) bool { return a.Date < b.Date }
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		if sortOrder == SortAsc {
			return less(expenses[i], expenses[j])
		}
		return less(expenses[j], expenses[i])
	})
}
