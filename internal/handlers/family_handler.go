package handlers

import (
	"net/http"
	"strconv"

	"familytracker/internal/service"
)

// FamilyHandler handles family and membership HTTP requests
type FamilyHandler struct {
	familyService *service.FamilyService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

// CreateFamily handles POST /api/family
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req struct {
		Name         string   `json:"name"`
		InviteEmails []string `json:"inviteEmails"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	familyID, err := h.familyService.CreateFamily(user, req.Name, req.InviteEmails)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"familyId": familyID})
}

// GetFamily handles GET /api/family
func (h *FamilyHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	family, membership, err := h.familyService.GetCurrentFamily(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if family == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"family": nil})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"family": newFamilyView(family),
		"membership": membershipView{
			Role:   membership.Role,
			Status: membership.Status,
		},
	})
}

// ListMembers handles GET /api/family/members
func (h *FamilyHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	members, err := h.familyService.ListMembers(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]memberView, 0, len(members))
	for _, m := range members {
		views = append(views, newMemberView(m))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"members": views})
}

// InviteMember handles POST /api/family/invite
func (h *FamilyHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.familyService.InviteMember(user, req.Email); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"invited": true})
}

// RemoveMember handles POST /api/family/members/{id}/remove
func (h *FamilyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	memberID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid member ID")
		return
	}

	if err := h.familyService.RemoveMember(user.ID, memberID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"removed": true})
}
