package http

import (
	"encoding/json"
	"net/http"

	"github.com/openkol/kolboard/internal/kol/service"
	"github.com/openkol/kolboard/pkg/httpx"
)

// OnboardingHandler serves the public invitee-facing onboarding endpoints.
type OnboardingHandler struct {
	OnboardingService *service.OnboardingService
}

// HandleAuthURL returns the provider authorize URL the invitee's browser
// should be sent to.
func (h *OnboardingHandler) HandleAuthURL(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authURLResponse{
		AuthURL: h.OnboardingService.AuthorizationURL(),
	})
}

// HandleConsent records that the invitee accepted the data-processing terms.
func (h *OnboardingHandler) HandleConsent(w http.ResponseWriter, r *http.Request) {
	var req consentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	inv, err := h.OnboardingService.RecordConsent(r.Context(), req.Token, req.ConsentGiven)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(inv))
}

// HandleLink exchanges the OAuth code server-side and finalizes the
// invitation into a verified profile. Retrying after a success returns the
// same profile.
func (h *OnboardingHandler) HandleLink(w http.ResponseWriter, r *http.Request) {
	var req linkIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	p, err := h.OnboardingService.LinkIdentity(r.Context(), req.Token, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toProfileResponse(p))
}

// HandleSkip finalizes the invitation from self-reported form data, yielding
// an unverified profile.
func (h *OnboardingHandler) HandleSkip(w http.ResponseWriter, r *http.Request) {
	var req skipIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	p, err := h.OnboardingService.SkipIdentity(r.Context(), req.Token, service.SelfReport{
		Name:           req.Name,
		Category:       req.Category,
		Platform:       req.Platform,
		Followers:      req.Followers,
		EngagementRate: req.EngagementRate,
		PricePerPost:   req.PricePerPost,
		Bio:            req.Bio,
		AvatarURL:      req.AvatarURL,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toProfileResponse(p))
}
