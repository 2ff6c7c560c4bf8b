package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"familytracker/internal/service"
)

// InvitationHandler handles invitation HTTP requests
type InvitationHandler struct {
	invitationService *service.InvitationService
	appBaseURL        string
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(invitationService *service.InvitationService, appBaseURL string) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		appBaseURL:        appBaseURL,
	}
}

// GetInvitation handles GET /api/invitations/{token}. Unknown, expired, and
// non-pending tokens all get the same 404 so the endpoint does not reveal
// token validity states.
func (h *InvitationHandler) GetInvitation(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		respondError(w, http.StatusBadRequest, "Token is required")
		return
	}

	inv, err := h.invitationService.GetByToken(token)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if inv == nil {
		respondError(w, http.StatusNotFound, "Invitation not found or expired")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"invitation": newInvitationView(inv)})
}

// AcceptInvitation handles POST /api/invitations/accept
func (h *InvitationHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Token == "" {
		respondError(w, http.StatusBadRequest, "Token is required")
		return
	}

	familyID, err := h.invitationService.Accept(user, req.Token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"familyId": familyID})
}

// RedirectInvitation handles GET /accept-invitation, the destination of the
// link in invitation emails. It validates the token, then redirects the
// browser to the app's acceptance page.
func (h *InvitationHandler) RedirectInvitation(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing invitation token", http.StatusBadRequest)
		return
	}

	inv, err := h.invitationService.GetByToken(token)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if inv == nil {
		http.Error(w, "Invitation not found or expired", http.StatusNotFound)
		return
	}

	target := fmt.Sprintf("%s/accept-invitation?token=%s", h.appBaseURL, url.QueryEscape(token))
	http.Redirect(w, r, target, http.StatusFound)
}
