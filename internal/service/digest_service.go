package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"familytracker/internal/models"
	"familytracker/internal/repository"
)

// DigestMailer is the slice of the email collaborator the digest job needs.
type DigestMailer interface {
	SendMonthlyDigestEmail(ctx context.Context, recipientEmail, familyName, monthName string, report *models.DigestReport) (string, error)
	IsEnabled() bool
}

// DigestService computes monthly spending summaries and fans them out to
// family members by email.
type DigestService struct {
	familyRepo  *repository.FamilyRepository
	expenseRepo *repository.ExpenseRepository
	mailer      DigestMailer
}

// NewDigestService creates a new digest service
func NewDigestService(familyRepo *repository.FamilyRepository, expenseRepo *repository.ExpenseRepository, mailer DigestMailer) *DigestService {
	return &DigestService{
		familyRepo:  familyRepo,
		expenseRepo: expenseRepo,
		mailer:      mailer,
	}
}

// monthDateRange returns the inclusive first and last day of the given month
// as YYYY-MM-DD strings. The zero day of the following month resolves to the
// last day of this one, so February is correct in leap years.
func monthDateRange(year, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

// previousMonth returns the calendar month before the given one, rolling the
// year back across January.
func previousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// ComputeDigest builds the digest report for one family and month.
func (s *DigestService) ComputeDigest(familyID int64, year, month int) (*models.DigestReport, error) {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	start, end := monthDateRange(year, month)
	expenses, err := s.expenseRepo.ListByFamily(familyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	prevYear, prevMonth := previousMonth(year, month)
	prevStart, prevEnd := monthDateRange(prevYear, prevMonth)
	prevExpenses, err := s.expenseRepo.ListByFamily(familyID, prevStart, prevEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list previous month expenses: %w", err)
	}
	var prevTotal int64
	for _, e := range prevExpenses {
		prevTotal += e.Amount
	}

	members, err := s.familyRepo.GetMembersWithUsers(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family members: %w", err)
	}

	users := make(map[int64]models.User, len(members))
	digestUsers := make([]models.DigestUser, 0, len(members))
	for _, m := range members {
		users[m.User.ID] = m.User
		if m.IsActive() {
			digestUsers = append(digestUsers, models.DigestUser{
				ID:    m.User.ID,
				Name:  m.User.DisplayName(),
				Email: m.User.Email,
			})
		}
	}

	report := buildDigestReport(family.Name, year, month, expenses, prevTotal, users)
	report.Users = digestUsers
	return report, nil
}

// buildDigestReport aggregates one month of expenses into a report. It is a
// pure function of its inputs.
func buildDigestReport(familyName string, year, month int, expenses []models.Expense, prevTotal int64, users map[int64]models.User) *models.DigestReport {
	report := &models.DigestReport{
		FamilyName: familyName,
		Year:       year,
		Month:      month,
	}

	var total int64
	for _, e := range expenses {
		total += e.Amount
	}
	report.TotalSpent = total

	if prevTotal > 0 {
		report.PreviousMonthTotal = &prevTotal
	}

	byCategory := make(map[string]int64)
	for _, e := range expenses {
		category := e.Category
		if category == "" {
			category = "Uncategorized"
		}
		byCategory[category] += e.Amount
	}
	for category, amount := range byCategory {
		var pct float64
		if total > 0 {
			pct = float64(amount) / float64(total) * 100
		}
		report.Categories = append(report.Categories, models.CategoryBreakdown{
			Category:   category,
			Amount:     amount,
			Percentage: pct,
		})
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Amount > report.Categories[j].Amount
	})

	byUser := make(map[int64]int64)
	for _, e := range expenses {
		byUser[e.CreatedBy] += e.Amount
	}
	for userID, spent := range byUser {
		name := "Unknown User"
		if u, ok := users[userID]; ok {
			name = u.DisplayName()
		}
		var pct float64
		if total > 0 {
			pct = float64(spent) / float64(total) * 100
		}
		report.Contributors = append(report.Contributors, models.ContributorBreakdown{
			UserID:     userID,
			UserName:   name,
			TotalSpent: spent,
			Percentage: pct,
		})
	}
	sort.Slice(report.Contributors, func(i, j int) bool {
		return report.Contributors[i].TotalSpent > report.Contributors[j].TotalSpent
	})

	notable := make([]models.Expense, len(expenses))
	copy(notable, expenses)
	sort.SliceStable(notable, func(i, j int) bool {
		return notable[i].Amount > notable[j].Amount
	})
	if len(notable) > 3 {
		notable = notable[:3]
	}
	report.NotableExpenses = notable

	return report
}

// GetFamiliesForDigest returns every family with at least one active member
// who has an email address on file.
func (s *DigestService) GetFamiliesForDigest() ([]models.DigestFamily, error) {
	families, err := s.familyRepo.ListFamilies()
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}

	result := make([]models.DigestFamily, 0, len(families))
	for _, f := range families {
		members, err := s.familyRepo.GetMembersWithUsers(f.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get members for family %d: %w", f.ID, err)
		}
		var emails []string
		for _, m := range members {
			if m.IsActive() && m.User.Email != "" {
				emails = append(emails, m.User.Email)
			}
		}
		if len(emails) == 0 {
			continue
		}
		result = append(result, models.DigestFamily{
			FamilyID:     f.ID,
			FamilyName:   f.Name,
			MemberEmails: emails,
		})
	}

	return result, nil
}

// RunMonthlyDigest computes and emails the digest for every eligible family
// for the given month. Families with no spending that month are skipped.
// One family's failure never aborts the batch; the summary carries a
// per-family outcome.
func (s *DigestService) RunMonthlyDigest(ctx context.Context, year, month int) (*models.DigestRunSummary, error) {
	families, err := s.GetFamiliesForDigest()
	if err != nil {
		return nil, err
	}

	summary := &models.DigestRunSummary{
		Year:          year,
		Month:         month,
		TotalFamilies: len(families),
	}

	monthName := time.Month(month).String()

	for _, family := range families {
		result := models.DigestFamilyResult{
			FamilyID:   family.FamilyID,
			FamilyName: family.FamilyName,
		}

		report, err := s.ComputeDigest(family.FamilyID, year, month)
		if err != nil {
			result.Error = err.Error()
			summary.Results = append(summary.Results, result)
			log.Printf("Digest failed for family %d (%s): %v", family.FamilyID, family.FamilyName, err)
			continue
		}

		if report.TotalSpent == 0 {
			result.Success = true
			summary.Results = append(summary.Results, result)
			continue
		}

		var (
			mu     sync.Mutex
			wg     sync.WaitGroup
			sent   int
			failed int
		)
		for _, email := range family.MemberEmails {
			wg.Add(1)
			go func(email string) {
				defer wg.Done()
				_, err := s.mailer.SendMonthlyDigestEmail(ctx, email, family.FamilyName, monthName, report)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed++
					log.Printf("Digest email to %s failed for family %d: %v", email, family.FamilyID, err)
				} else {
					sent++
				}
			}(email)
		}
		wg.Wait()

		result.EmailsSent = sent
		result.Success = failed == 0
		if failed > 0 {
			result.Error = fmt.Sprintf("%d of %d emails failed", failed, len(family.MemberEmails))
		}
		summary.Results = append(summary.Results, result)
		summary.SuccessfulEmails += sent
		summary.FailedEmails += failed
	}

	return summary, nil
}
