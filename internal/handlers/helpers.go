package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"familytracker/internal/models"
	"familytracker/internal/service"
	"familytracker/internal/utils"
)

// requireUser pulls the authenticated user from the request context,
// responding with the standard unauthenticated error when absent. Callers
// must return on nil.
func requireUser(w http.ResponseWriter, r *http.Request) *models.User {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondServiceError(w, service.ErrNotAuthenticated)
	}
	return user
}

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// respondError writes a JSON error body with the given status
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes the request body into dst, rejecting unknown fields
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// parseExpenseFilter reads the expense listing filter from query parameters.
// Amount bounds arrive in decimal currency units and are converted to cents.
func parseExpenseFilter(r *http.Request) (service.ExpenseFilter, error) {
	q := r.URL.Query()

	filter := service.ExpenseFilter{
		Search:    q.Get("search"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Category:  q.Get("category"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	if filter.StartDate != "" {
		if err := utils.ValidateDate(filter.StartDate); err != nil {
			return filter, err
		}
	}
	if filter.EndDate != "" {
		if err := utils.ValidateDate(filter.EndDate); err != nil {
			return filter, err
		}
	}

	if v := q.Get("minAmount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, utils.ValidationError{Field: "minAmount", Message: "must be a number"}
		}
		cents := utils.DollarsToCents(amount)
		filter.MinAmount = &cents
	}
	if v := q.Get("maxAmount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, utils.ValidationError{Field: "maxAmount", Message: "must be a number"}
		}
		cents := utils.DollarsToCents(amount)
		filter.MaxAmount = &cents
	}

	return filter, nil
}
