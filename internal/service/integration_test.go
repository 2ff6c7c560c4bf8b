package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"familytracker/internal/database"
	"familytracker/internal/models"
	"familytracker/internal/repository"
)

// stubMailer records sends instead of talking to SES
type stubMailer struct {
	mu    sync.Mutex
	sends []string
}

func (m *stubMailer) SendInvitationEmail(ctx context.Context, recipientEmail, senderName, familyName, token, inviteURL string, expiryDays int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, recipientEmail)
	return "stub-message-id", nil
}

func (m *stubMailer) SendMonthlyDigestEmail(ctx context.Context, recipientEmail, familyName, monthName string, report *models.DigestReport) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, recipientEmail)
	return "stub-message-id", nil
}

func (m *stubMailer) IsEnabled() bool { return true }

type testEnv struct {
	db             *database.DB
	users          *repository.UserRepository
	familyRepo     *repository.FamilyRepository
	invitationRepo *repository.InvitationRepository
	families       *FamilyService
	invitations    *InvitationService
	expenses       *ExpenseService
	digests        *DigestService
	mailer         *stubMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "service_test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	mailer := &stubMailer{}
	invitationService := NewInvitationService(invitationRepo, familyRepo, mailer, "http://localhost:5173", 7*24*time.Hour)
	familyService := NewFamilyService(familyRepo, categoryRepo, invitationService)
	expenseService := NewExpenseService(expenseRepo, familyRepo, userRepo, categoryRepo)
	digestService := NewDigestService(familyRepo, expenseRepo, mailer)

	return &testEnv{
		db:             db,
		users:          userRepo,
		familyRepo:     familyRepo,
		invitationRepo: invitationRepo,
		families:       familyService,
		invitations:    invitationService,
		expenses:       expenseService,
		digests:        digestService,
		mailer:         mailer,
	}
}

func (env *testEnv) createUser(t *testing.T, subject, email, name string) *models.User {
	t.Helper()
	user, err := env.users.UpsertBySubject(subject, email, name)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}

func TestCreateFamilyWithInvites(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	alice := env.createUser(t, "auth0|alice", "alice@example.com", "Alice")

	familyID, err := env.families.CreateFamily(alice, "The Smiths", []string{"bob@example.com", "carol@example.com"})
	if err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}
	if familyID == 0 {
		t.Fatal("Expected non-zero family ID")
	}

	family, membership, err := env.families.GetCurrentFamily(alice.ID)
	if err != nil {
		t.Fatalf("GetCurrentFamily failed: %v", err)
	}
	if family == nil || family.Name != "The Smiths" {
		t.Fatalf("GetCurrentFamily = %+v, want The Smiths", family)
	}
	if !membership.IsAdmin() {
		t.Error("Creator should be the family admin")
	}

	members, err := env.families.ListMembers(alice.ID)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 1 {
		t.Errorf("Expected 1 member before invites are accepted, got %d", len(members))
	}

	suggested, err := env.expenses.SuggestedCategories(alice.ID)
	if err != nil {
		t.Fatalf("SuggestedCategories failed: %v", err)
	}
	if len(suggested) != len(DefaultCategories()) {
		t.Errorf("Expected %d seeded categories, got %d", len(DefaultCategories()), len(suggested))
	}

	// A second family for the same user must be rejected.
	if _, err := env.families.CreateFamily(alice, "Another", nil); err != ErrAlreadyMember {
		t.Errorf("Second CreateFamily error = %v, want ErrAlreadyMember", err)
	}
}

func TestInvitationLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	alice := env.createUser(t, "auth0|alice", "alice@example.com", "Alice")
	bob := env.createUser(t, "auth0|bob", "bob@example.com", "Bob")

	if _, err := env.families.CreateFamily(alice, "The Smiths", nil); err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}

	token, err := env.families.InviteMember(alice, "Bob@Example.com")
	if err != nil {
		t.Fatalf("InviteMember failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected non-empty invitation token")
	}

	// Re-inviting the same address reuses the pending invitation.
	token2, err := env.families.InviteMember(alice, "bob@example.com")
	if err != nil {
		t.Fatalf("Second InviteMember failed: %v", err)
	}
	if token2 != token {
		t.Errorf("Expected reused token %q, got %q", token, token2)
	}

	inv, err := env.invitations.GetByToken(token)
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}
	if inv == nil {
		t.Fatal("Expected pending invitation for token")
	}
	if inv.Email != "bob@example.com" {
		t.Errorf("Invitation email = %q, want normalized bob@example.com", inv.Email)
	}
	if inv.FamilyName != "The Smiths" {
		t.Errorf("Invitation family name = %q, want The Smiths", inv.FamilyName)
	}

	familyID, err := env.invitations.Accept(bob, token)
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if familyID != inv.FamilyID {
		t.Errorf("Accept returned family %d, want %d", familyID, inv.FamilyID)
	}

	members, err := env.families.ListMembers(alice.ID)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("Expected 2 members after accept, got %d", len(members))
	}

	// A redeemed token is gone for good.
	if _, err := env.invitations.Accept(bob, token); err != ErrInvalidInvitation {
		t.Errorf("Second Accept error = %v, want ErrInvalidInvitation", err)
	}
	if inv, _ := env.invitations.GetByToken(token); inv != nil {
		t.Error("Redeemed token should no longer resolve")
	}
}

func TestReinviteAfterExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	alice := env.createUser(t, "auth0|alice", "alice@example.com", "Alice")
	bob := env.createUser(t, "auth0|bob", "bob@example.com", "Bob")

	familyID, err := env.families.CreateFamily(alice, "The Smiths", nil)
	if err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}

	// Issue through a service whose TTL is already in the past, leaving a
	// pending row whose token no longer resolves.
	staleInvites := NewInvitationService(env.invitationRepo, env.familyRepo, env.mailer, "http://localhost:5173", -time.Hour)
	staleToken, err := staleInvites.Issue(familyID, "bob@example.com", alice.ID, "The Smiths", "Alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if inv, _ := env.invitations.GetByToken(staleToken); inv != nil {
		t.Fatal("Expired token should not resolve")
	}

	// Re-inviting must mint a fresh token, not resend the dead one.
	token, err := env.families.InviteMember(alice, "bob@example.com")
	if err != nil {
		t.Fatalf("Re-invite failed: %v", err)
	}
	if token == staleToken {
		t.Fatal("Re-invite reused an expired token")
	}

	inv, err := env.invitations.GetByToken(token)
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}
	if inv == nil {
		t.Fatal("Re-invited token must resolve to a redeemable invitation")
	}

	if _, err := env.invitations.Accept(bob, token); err != nil {
		t.Fatalf("Accept of re-invited token failed: %v", err)
	}
}

func TestAcceptInvitationEmailMismatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	alice := env.createUser(t, "auth0|alice", "alice@example.com", "Alice")
	mallory := env.createUser(t, "auth0|mallory", "mallory@example.com", "Mallory")

	if _, err := env.families.CreateFamily(alice, "The Smiths", nil); err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}
	token, err := env.families.InviteMember(alice, "bob@example.com")
	if err != nil {
		t.Fatalf("InviteMember failed: %v", err)
	}

	if _, err := env.invitations.Accept(mallory, token); err != ErrEmailMismatch {
		t.Errorf("Accept with wrong email error = %v, want ErrEmailMismatch", err)
	}
}

func TestInviteRequiresAdmin(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	alice := env.createUser(t, "auth0|alice", "alice@example.com", "Alice")
	bob := env.createUser(t, "auth0|bob", "bob@example.com", "Bob")

	if _, err := env.families.CreateFamily(alice, "The Smiths", nil); err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}
	token, err := env.families.InviteMember(alice, "bob@example.com")
	if err != nil {
		t.Fatalf("InviteMember failed: %v", err)
	}
	if _, err := env.invitations.Accept(bob, token); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	// Bob joined as a regular member; he cannot invite.
	if _, err := env.families.InviteMember(bob, "carol@example.com"); err != ErrNotAdmin {
		t.Errorf("Member InviteMember error = %v, want ErrNotAdmin", err)
	}
}

func TestRemoveMember(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	alice := env.createUser(t, "auth0|alice", "alice@example.com", "Alice")
	bob := env.createUser(t, "auth0|bob", "bob@example.com", "Bob")

	if _, err := env.families.CreateFamily(alice, "The Smiths", nil); err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}
	token, err := env.families.InviteMember(alice, "bob@example.com")
	if err != nil {
		t.Fatalf("InviteMember failed: %v", err)
	}
	if _, err := env.invitations.Accept(bob, token); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	members, err := env.families.ListMembers(alice.ID)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}

	var aliceMemberID, bobMemberID int64
	for _, m := range members {
		switch m.UserID {
		case alice.ID:
			aliceMemberID = m.FamilyMember.ID
		case bob.ID:
			bobMemberID = m.FamilyMember.ID
		}
	}

	if err := env.families.RemoveMember(alice.ID, aliceMemberID); err != ErrCannotRemoveSelf {
		t.Errorf("Self-removal error = %v, want ErrCannotRemoveSelf", err)
	}

	if err := env.families.RemoveMember(alice.ID, bobMemberID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	// The row survives as a tombstone and Bob loses family access.
	members, err = env.families.ListMembers(alice.ID)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	var bobStatus string
	for _, m := range members {
		if m.UserID == bob.ID {
			bobStatus = m.Status
		}
	}
	if bobStatus != models.StatusRemoved {
		t.Errorf("Removed member status = %q, want %q", bobStatus, models.StatusRemoved)
	}
	if _, err := env.expenses.ListExpenses(bob.ID, ExpenseFilter{}); err != ErrNotFamilyMember {
		t.Errorf("Removed member ListExpenses error = %v, want ErrNotFamilyMember", err)
	}
}

func TestExpenseLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	alice := env.createUser(t, "auth0|alice", "alice@example.com", "Alice")
	if _, err := env.families.CreateFamily(alice, "The Smiths", nil); err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}

	id, err := env.expenses.CreateExpense(alice.ID, ExpenseInput{
		Date:        "2026-07-15",
		Description: "Weekly groceries",
		Amount:      123.45,
		Category:    "Groceries",
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	list, err := env.expenses.ListExpenses(alice.ID, ExpenseFilter{})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 expense, got %d", len(list))
	}
	if list[0].Amount != 12345 {
		t.Errorf("Stored amount = %d cents, want 12345", list[0].Amount)
	}
	if list[0].CreatedByUser.Name != "Alice" {
		t.Errorf("Creator name = %q, want Alice", list[0].CreatedByUser.Name)
	}

	if err := env.expenses.UpdateExpense(alice.ID, id, ExpenseInput{
		Date:        "2026-07-16",
		Description: "Weekly groceries (corrected)",
		Amount:      130.00,
	}); err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}

	list, err = env.expenses.ListExpenses(alice.ID, ExpenseFilter{})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if list[0].Amount != 13000 || list[0].Date != "2026-07-16" {
		t.Errorf("Updated expense = %s/%d, want 2026-07-16/13000", list[0].Date, list[0].Amount)
	}
	if list[0].Category != "" {
		t.Errorf("Update should replace category, got %q", list[0].Category)
	}

	if err := env.expenses.DeleteExpense(alice.ID, id); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	list, err = env.expenses.ListExpenses(alice.ID, ExpenseFilter{})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected empty ledger after delete, got %d", len(list))
	}
}

func TestExpenseCrossFamilyIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	alice := env.createUser(t, "auth0|alice", "alice@example.com", "Alice")
	carol := env.createUser(t, "auth0|carol", "carol@example.com", "Carol")

	if _, err := env.families.CreateFamily(alice, "The Smiths", nil); err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}
	if _, err := env.families.CreateFamily(carol, "The Jones", nil); err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}

	id, err := env.expenses.CreateExpense(alice.ID, ExpenseInput{
		Date:        "2026-07-15",
		Description: "Groceries",
		Amount:      50,
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	// Carol cannot see, edit, or delete an expense in another family.
	list, err := env.expenses.ListExpenses(carol.ID, ExpenseFilter{})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected empty ledger for other family, got %d", len(list))
	}
	if err := env.expenses.DeleteExpense(carol.ID, id); err != ErrExpenseNotFound {
		t.Errorf("Cross-family delete error = %v, want ErrExpenseNotFound", err)
	}
	if err := env.expenses.UpdateExpense(carol.ID, id, ExpenseInput{
		Date: "2026-07-16", Description: "x", Amount: 1,
	}); err != ErrExpenseNotFound {
		t.Errorf("Cross-family update error = %v, want ErrExpenseNotFound", err)
	}
}

func TestRunMonthlyDigest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	alice := env.createUser(t, "auth0|alice", "alice@example.com", "Alice")
	carol := env.createUser(t, "auth0|carol", "carol@example.com", "Carol")

	if _, err := env.families.CreateFamily(alice, "The Smiths", nil); err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}
	if _, err := env.families.CreateFamily(carol, "The Jones", nil); err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}

	// Only the Smiths spent anything in July.
	if _, err := env.expenses.CreateExpense(alice.ID, ExpenseInput{
		Date: "2026-07-15", Description: "Groceries", Amount: 100,
	}); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	summary, err := env.digests.RunMonthlyDigest(context.Background(), 2026, 7)
	if err != nil {
		t.Fatalf("RunMonthlyDigest failed: %v", err)
	}

	if summary.TotalFamilies != 2 {
		t.Errorf("TotalFamilies = %d, want 2", summary.TotalFamilies)
	}
	if summary.SuccessfulEmails != 1 {
		t.Errorf("SuccessfulEmails = %d, want 1 (zero-spend family skipped)", summary.SuccessfulEmails)
	}
	if summary.FailedEmails != 0 {
		t.Errorf("FailedEmails = %d, want 0", summary.FailedEmails)
	}
	for _, r := range summary.Results {
		if !r.Success {
			t.Errorf("Family %s result not successful: %s", r.FamilyName, r.Error)
		}
	}
}

func TestComputeDigestPreviousMonthComparison(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	alice := env.createUser(t, "auth0|alice", "alice@example.com", "Alice")
	familyID, err := env.families.CreateFamily(alice, "The Smiths", nil)
	if err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}

	// June: $2,980. July: $3,250.
	for _, e := range []ExpenseInput{
		{Date: "2026-06-10", Description: "June spending", Amount: 2980},
		{Date: "2026-07-05", Description: "July groceries", Amount: 1250},
		{Date: "2026-07-20", Description: "July vacation", Amount: 2000},
	} {
		if _, err := env.expenses.CreateExpense(alice.ID, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	report, err := env.digests.ComputeDigest(familyID, 2026, 7)
	if err != nil {
		t.Fatalf("ComputeDigest failed: %v", err)
	}

	if report.TotalSpent != 325000 {
		t.Errorf("TotalSpent = %d, want 325000", report.TotalSpent)
	}
	if report.PreviousMonthTotal == nil || *report.PreviousMonthTotal != 298000 {
		t.Errorf("PreviousMonthTotal = %v, want 298000", report.PreviousMonthTotal)
	}
	if len(report.Users) != 1 || report.Users[0].Email != "alice@example.com" {
		t.Errorf("Users = %+v, want Alice only", report.Users)
	}
}
