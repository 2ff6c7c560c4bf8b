package handlers

import (
	"errors"
	"log"
	"net/http"

	"familytracker/internal/service"
	"familytracker/internal/utils"
)

// respondServiceError maps well-known service errors to HTTP statuses.
// Anything unmapped is logged and surfaced as a 500 with a generic message.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, service.ErrNotFamilyMember):
		respondError(w, http.StatusForbidden, "You are not a member of a family")
	case errors.Is(err, service.ErrNotAdmin):
		respondError(w, http.StatusForbidden, "Only family admins can do that")
	case errors.Is(err, service.ErrAlreadyMember):
		respondError(w, http.StatusBadRequest, "You already belong to a family")
	case errors.Is(err, service.ErrCannotRemoveSelf):
		respondError(w, http.StatusBadRequest, "You cannot remove yourself from the family")
	case errors.Is(err, service.ErrFamilyNameRequired):
		respondError(w, http.StatusBadRequest, "Family name is required")
	case errors.Is(err, service.ErrInvalidDescription):
		respondError(w, http.StatusBadRequest, "Description is required")
	case errors.Is(err, service.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "Amount must be a positive number")
	case errors.Is(err, service.ErrInvalidDate):
		respondError(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format")
	case errors.Is(err, service.ErrEmailMismatch):
		respondError(w, http.StatusForbidden, "This invitation was sent to a different email address")
	case errors.Is(err, service.ErrInvalidInvitation):
		respondError(w, http.StatusNotFound, "Invitation not found or expired")
	case errors.Is(err, service.ErrFamilyNotFound):
		respondError(w, http.StatusNotFound, "Family not found")
	case errors.Is(err, service.ErrMemberNotFound):
		respondError(w, http.StatusNotFound, "Member not found")
	case errors.Is(err, service.ErrExpenseNotFound):
		respondError(w, http.StatusNotFound, "Expense not found")
	default:
		var vErr utils.ValidationError
		if errors.As(err, &vErr) {
			respondError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		log.Printf("Unhandled service error: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
