package models

// CategoryBreakdown is one category's share of a month's spending.
type CategoryBreakdown struct {
	Category   string
	Amount     int64
	Percentage float64
}

// ContributorBreakdown is one member's share of a month's spending.
type ContributorBreakdown struct {
	UserID     int64
	UserName   string
	TotalSpent int64
	Percentage float64
}

// DigestUser is the identity info carried in a digest for name lookups.
type DigestUser struct {
	ID    int64
	Name  string
	Email string
}

// DigestReport is the computed monthly aggregation for one family.
// PreviousMonthTotal is nil when the prior month had no spending, so
// callers never render a comparison against zero.
type DigestReport struct {
	FamilyName         string
	Year               int
	Month              int
	TotalSpent         int64
	PreviousMonthTotal *int64
	Categories         []CategoryBreakdown
	Contributors       []ContributorBreakdown
	NotableExpenses    []Expense
	Users              []DigestUser
}

// DigestFamily identifies a family eligible for the monthly digest email.
type DigestFamily struct {
	FamilyID     int64
	FamilyName   string
	MemberEmails []string
}

// DigestFamilyResult records the outcome of one family's digest processing.
type DigestFamilyResult struct {
	FamilyID   int64
	FamilyName string
	Success    bool
	EmailsSent int
	Error      string
}

// DigestRunSummary is the return value of a digest job run. Failures are
// accumulated here rather than raised; one family's failure never aborts
// the batch.
type DigestRunSummary struct {
	Year             int
	Month            int
	TotalFamilies    int
	SuccessfulEmails int
	FailedEmails     int
	Results          []DigestFamilyResult
}
