package handlers

import (
	"time"

	"familytracker/internal/models"
)

// Response shapes for the JSON API. Domain models stay free of transport
// concerns; these views own the field names and formats on the wire.

type userView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type familyView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type membershipView struct {
	Role   string `json:"role"`
	Status string `json:"status"`
}

type memberView struct {
	ID       int64      `json:"id"`
	Role     string     `json:"role"`
	Status   string     `json:"status"`
	JoinedAt *time.Time `json:"joinedAt,omitempty"`
	User     userView   `json:"user"`
}

type expenseView struct {
	ID          int64    `json:"id"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Amount      int64    `json:"amount"`
	Notes       string   `json:"notes,omitempty"`
	Category    string   `json:"category,omitempty"`
	CreatedBy   userView `json:"createdBy"`
}

type invitationView struct {
	FamilyName  string `json:"familyName"`
	InviterName string `json:"inviterName"`
	Email       string `json:"email"`
	ExpiresAt   int64  `json:"expiresAt"`
}

func newUserView(u models.User) userView {
	return userView{ID: u.ID, Name: u.DisplayName(), Email: u.Email}
}

func newFamilyView(f *models.Family) familyView {
	return familyView{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt}
}

func newMemberView(m models.MemberWithUser) memberView {
	return memberView{
		ID:       m.FamilyMember.ID,
		Role:     m.Role,
		Status:   m.Status,
		JoinedAt: m.JoinedAt,
		User:     newUserView(m.User),
	}
}

func newExpenseView(e models.ExpenseWithUser) expenseView {
	return expenseView{
		ID:          e.Expense.ID,
		Date:        e.Date,
		Description: e.Description,
		Amount:      e.Amount,
		Notes:       e.Notes,
		Category:    e.Category,
		CreatedBy:   newUserView(e.CreatedByUser),
	}
}

func newInvitationView(inv *models.Invitation) invitationView {
	return invitationView{
		FamilyName:  inv.FamilyName,
		InviterName: inv.InviterName,
		Email:       inv.Email,
		ExpiresAt:   inv.ExpiresAt.UnixMilli(),
	}
}
