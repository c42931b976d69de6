package http

import (
	"encoding/json"
	"net/http"

	"github.com/openkol/kolboard/internal/kol/service"
	"github.com/openkol/kolboard/pkg/httpx"
)

// CampaignsHandler serves the admin campaign endpoints. Campaigns are scoped
// to the authenticated admin user.
type CampaignsHandler struct {
	CampaignService *service.CampaignService
}

func ownerFromCtx(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:            "unauthorized",
			ErrorDescription: "Authentication required",
		})
		return "", false
	}
	return userID, true
}

func (h *CampaignsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromCtx(w, r)
	if !ok {
		return
	}

	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	c, err := h.CampaignService.CreateCampaign(r.Context(), ownerID, req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toCampaignResponse(c))
}

func (h *CampaignsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromCtx(w, r)
	if !ok {
		return
	}

	campaigns, err := h.CampaignService.ListCampaigns(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]campaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, toCampaignResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *CampaignsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromCtx(w, r)
	if !ok {
		return
	}

	c, err := h.CampaignService.GetCampaign(r.Context(), ownerID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCampaignResponse(c))
}

func (h *CampaignsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromCtx(w, r)
	if !ok {
		return
	}

	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	c, err := h.CampaignService.UpdateCampaign(r.Context(), ownerID, r.PathValue("id"), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toCampaignResponse(c))
}

func (h *CampaignsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromCtx(w, r)
	if !ok {
		return
	}

	if err := h.CampaignService.DeleteCampaign(r.Context(), ownerID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
