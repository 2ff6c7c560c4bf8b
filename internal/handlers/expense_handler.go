package handlers

import (
	"net/http"
	"strconv"

	"familytracker/internal/service"
)

// ExpenseHandler handles expense ledger HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

type expenseRequest struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Notes       string  `json:"notes"`
	Category    string  `json:"category"`
}

func (req expenseRequest) toInput() service.ExpenseInput {
	return service.ExpenseInput{
		Date:        req.Date,
		Description: req.Description,
		Amount:      req.Amount,
		Notes:       req.Notes,
		Category:    req.Category,
	}
}

// CreateExpense handles POST /api/expenses
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.expenseService.CreateExpense(user.ID, req.toInput())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"expenseId": id})
}

// ListExpenses handles GET /api/expenses
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	filter, err := parseExpenseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := h.expenseService.ListExpenses(user.ID, filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]expenseView, 0, len(expenses))
	for _, e := range expenses {
		views = append(views, newExpenseView(e))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"expenses": views})
}

// UpdateExpense handles PUT /api/expenses/{id}
func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	expenseID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.expenseService.UpdateExpense(user.ID, expenseID, req.toInput()); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// DeleteExpense handles DELETE /api/expenses/{id}
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	expenseID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	if err := h.expenseService.DeleteExpense(user.ID, expenseID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// UsedCategories handles GET /api/expenses/categories
func (h *ExpenseHandler) UsedCategories(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	categories, err := h.expenseService.UsedCategories(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}

	respondJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

// SuggestedCategories handles GET /api/categories
func (h *ExpenseHandler) SuggestedCategories(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	categories, err := h.expenseService.SuggestedCategories(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}

	respondJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}
