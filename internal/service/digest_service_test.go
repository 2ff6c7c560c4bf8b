package service

import (
	"math"
	"testing"

	"familytracker/internal/models"
)

func TestMonthDateRange(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantStart string
		wantEnd   string
	}{
		{name: "july", year: 2026, month: 7, wantStart: "2026-07-01", wantEnd: "2026-07-31"},
		{name: "thirty day month", year: 2026, month: 6, wantStart: "2026-06-01", wantEnd: "2026-06-30"},
		{name: "february leap year", year: 2024, month: 2, wantStart: "2024-02-01", wantEnd: "2024-02-29"},
		{name: "february common year", year: 2026, month: 2, wantStart: "2026-02-01", wantEnd: "2026-02-28"},
		{name: "december", year: 2026, month: 12, wantStart: "2026-12-01", wantEnd: "2026-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := monthDateRange(tt.year, tt.month)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("monthDateRange(%d, %d) = (%q, %q), want (%q, %q)",
					tt.year, tt.month, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{name: "mid-year", year: 2026, month: 7, wantYear: 2026, wantMonth: 6},
		{name: "january rolls back a year", year: 2026, month: 1, wantYear: 2025, wantMonth: 12},
		{name: "february", year: 2026, month: 2, wantYear: 2026, wantMonth: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month := previousMonth(tt.year, tt.month)
			if year != tt.wantYear || month != tt.wantMonth {
				t.Errorf("previousMonth(%d, %d) = (%d, %d), want (%d, %d)",
					tt.year, tt.month, year, month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func digestUsers() map[int64]models.User {
	return map[int64]models.User{
		1: {ID: 1, Name: "Alice", Email: "alice@example.com"},
		2: {ID: 2, Name: "Bob", Email: "bob@example.com"},
	}
}

func TestBuildDigestReportEmptyMonth(t *testing.T) {
	report := buildDigestReport("Smiths", 2026, 7, nil, 0, digestUsers())

	if report.TotalSpent != 0 {
		t.Errorf("TotalSpent = %d, want 0", report.TotalSpent)
	}
	if report.PreviousMonthTotal != nil {
		t.Errorf("PreviousMonthTotal = %v, want nil", *report.PreviousMonthTotal)
	}
	if len(report.Categories) != 0 {
		t.Errorf("Categories = %v, want empty", report.Categories)
	}
	if len(report.Contributors) != 0 {
		t.Errorf("Contributors = %v, want empty", report.Contributors)
	}
	if len(report.NotableExpenses) != 0 {
		t.Errorf("NotableExpenses = %v, want empty", report.NotableExpenses)
	}
}

func TestBuildDigestReportAggregation(t *testing.T) {
	expenses := []models.Expense{
		{ID: 1, CreatedBy: 1, Date: "2026-07-02", Description: "Groceries", Amount: 150000, Category: "Groceries"},
		{ID: 2, CreatedBy: 1, Date: "2026-07-08", Description: "Utilities", Amount: 50000, Category: "Electricity"},
		{ID: 3, CreatedBy: 2, Date: "2026-07-15", Description: "Dinner", Amount: 75000, Category: "Restaurants & Takeout"},
		{ID: 4, CreatedBy: 2, Date: "2026-07-20", Description: "Misc", Amount: 50000},
	}

	report := buildDigestReport("Smiths", 2026, 7, expenses, 298000, digestUsers())

	if report.TotalSpent != 325000 {
		t.Fatalf("TotalSpent = %d, want 325000", report.TotalSpent)
	}
	if report.PreviousMonthTotal == nil || *report.PreviousMonthTotal != 298000 {
		t.Fatalf("PreviousMonthTotal = %v, want 298000", report.PreviousMonthTotal)
	}

	// Category breakdown: amounts sum to the total, sorted descending, and
	// the blank category lands in "Uncategorized".
	var categorySum int64
	var pctSum float64
	for i, c := range report.Categories {
		categorySum += c.Amount
		pctSum += c.Percentage
		if i > 0 && c.Amount > report.Categories[i-1].Amount {
			t.Errorf("Categories not sorted descending at index %d", i)
		}
	}
	if categorySum != report.TotalSpent {
		t.Errorf("category amounts sum to %d, want %d", categorySum, report.TotalSpent)
	}
	if math.Abs(pctSum-100) > 0.01 {
		t.Errorf("category percentages sum to %.2f, want 100", pctSum)
	}
	if report.Categories[0].Category != "Groceries" {
		t.Errorf("top category = %q, want Groceries", report.Categories[0].Category)
	}
	foundUncategorized := false
	for _, c := range report.Categories {
		if c.Category == "Uncategorized" && c.Amount == 50000 {
			foundUncategorized = true
		}
	}
	if !foundUncategorized {
		t.Error("expected an Uncategorized bucket holding 50000")
	}
}

func TestBuildDigestReportContributorShares(t *testing.T) {
	// Alice spent 200000 of 325000 (61.5%), Bob 125000 (38.5%). Shares are
	// of the family total, so they must sum to 100.
	expenses := []models.Expense{
		{ID: 1, CreatedBy: 1, Date: "2026-07-02", Description: "Groceries", Amount: 150000},
		{ID: 2, CreatedBy: 1, Date: "2026-07-08", Description: "Utilities", Amount: 50000},
		{ID: 3, CreatedBy: 2, Date: "2026-07-15", Description: "Dinner", Amount: 75000},
		{ID: 4, CreatedBy: 2, Date: "2026-07-20", Description: "Misc", Amount: 50000},
	}

	report := buildDigestReport("Smiths", 2026, 7, expenses, 0, digestUsers())

	if len(report.Contributors) != 2 {
		t.Fatalf("got %d contributors, want 2", len(report.Contributors))
	}

	top := report.Contributors[0]
	if top.UserName != "Alice" || top.TotalSpent != 200000 {
		t.Errorf("top contributor = %s/%d, want Alice/200000", top.UserName, top.TotalSpent)
	}
	if math.Abs(top.Percentage-61.538) > 0.01 {
		t.Errorf("top contributor percentage = %.3f, want 61.538", top.Percentage)
	}

	var pctSum float64
	for _, c := range report.Contributors {
		pctSum += c.Percentage
	}
	if math.Abs(pctSum-100) > 0.01 {
		t.Errorf("contributor percentages sum to %.2f, want 100", pctSum)
	}
}

func TestBuildDigestReportUnknownContributor(t *testing.T) {
	expenses := []models.Expense{
		{ID: 1, CreatedBy: 99, Date: "2026-07-02", Description: "Mystery", Amount: 1000},
	}

	report := buildDigestReport("Smiths", 2026, 7, expenses, 0, digestUsers())

	if len(report.Contributors) != 1 {
		t.Fatalf("got %d contributors, want 1", len(report.Contributors))
	}
	if report.Contributors[0].UserName != "Unknown User" {
		t.Errorf("contributor name = %q, want Unknown User", report.Contributors[0].UserName)
	}
}

func TestBuildDigestReportNotableExpenses(t *testing.T) {
	expenses := []models.Expense{
		{ID: 1, CreatedBy: 1, Date: "2026-07-01", Description: "Small", Amount: 1000},
		{ID: 2, CreatedBy: 1, Date: "2026-07-02", Description: "Big", Amount: 90000},
		{ID: 3, CreatedBy: 1, Date: "2026-07-03", Description: "Medium", Amount: 50000},
		{ID: 4, CreatedBy: 1, Date: "2026-07-04", Description: "Bigger", Amount: 120000},
		{ID: 5, CreatedBy: 1, Date: "2026-07-05", Description: "Tiny", Amount: 500},
	}

	report := buildDigestReport("Smiths", 2026, 7, expenses, 0, digestUsers())

	if len(report.NotableExpenses) != 3 {
		t.Fatalf("got %d notable expenses, want 3", len(report.NotableExpenses))
	}
	wantOrder := []int64{4, 2, 3}
	for i, want := range wantOrder {
		if report.NotableExpenses[i].ID != want {
			t.Errorf("notable expense %d = id %d, want %d", i, report.NotableExpenses[i].ID, want)
		}
	}

	// The input slice must not be reordered by the top-3 selection.
	if expenses[0].ID != 1 || expenses[4].ID != 5 {
		t.Error("buildDigestReport reordered its input slice")
	}

	if report.PreviousMonthTotal != nil {
		t.Errorf("PreviousMonthTotal = %v, want nil for zero previous spend", *report.PreviousMonthTotal)
	}
}
