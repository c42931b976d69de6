package http

import (
	"encoding/json"
	"net/http"

	"github.com/openkol/kolboard/internal/kol/service"
	"github.com/openkol/kolboard/pkg/httpx"
)

// InvitesHandler serves the admin invitation endpoints.
type InvitesHandler struct {
	InviteService *service.InviteService
}

// HandleCreate mints an invitation and returns the raw token. The token is
// shown exactly once; only its fingerprint is kept.
func (h *InvitesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:            "unauthorized",
			ErrorDescription: "Authentication required",
		})
		return
	}

	token, inv, err := h.InviteService.IssueInvite(ctx, req.Email, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, createInviteResponse{
		InviteToken:  token,
		InvitationID: inv.ID,
		Email:        inv.Email,
		ExpiresAt:    inv.ExpiresAt,
	})
}

// HandleList returns every invitation, newest first.
func (h *InvitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	invs, err := h.InviteService.ListInvites(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]invitationResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, toInvitationResponse(inv))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet returns a single invitation by id.
func (h *InvitesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	inv, err := h.InviteService.GetInvite(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(inv))
}

// HandleRevoke withdraws a pending invitation.
func (h *InvitesHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	if err := h.InviteService.RevokeInvite(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleVerify checks a raw token from the onboarding landing page. Public:
// the invitee is not authenticated yet.
func (h *InvitesHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	inv, err := h.InviteService.VerifyInvite(r.Context(), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, verifyInviteResponse{
		Valid:     true,
		Email:     inv.Email,
		Step:      string(inv.Step),
		ExpiresAt: inv.ExpiresAt,
	})
}
