package models

import "time"

// Expense is a single ledger entry. Amount is stored in integer minor
// currency units (cents); Date is a fixed-width YYYY-MM-DD string so lexical
// comparison matches chronological order.
type Expense struct {
	ID          int64
	FamilyID    int64
	CreatedBy   int64
	Date        string
	Description string
	Amount      int64
	Notes       string
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExpenseWithUser joins an expense with its creator's identity for display.
type ExpenseWithUser struct {
	Expense
	CreatedByUser User
}

// Category is a per-family suggested category name. It is a UX affordance:
// the free-text category on an expense need not match any Category row.
type Category struct {
	ID        int64
	FamilyID  int64
	Name      string
	CreatedBy int64
	CreatedAt time.Time
}
