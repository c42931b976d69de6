package http

import (
	"net/http"

	"github.com/openkol/kolboard/internal/kol/service"
	"github.com/openkol/kolboard/pkg/httpx"
)

// StatsHandler serves the dashboard summary endpoint.
type StatsHandler struct {
	StatsService *service.StatsService
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromCtx(w, r)
	if !ok {
		return
	}

	stats, err := h.StatsService.Dashboard(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, statsResponse{
		TotalProfiles:        stats.TotalProfiles,
		PendingInvitations:   stats.PendingInvitations,
		CompletedInvitations: stats.CompletedInvitations,
		TotalCampaigns:       stats.TotalCampaigns,
		ActiveCampaigns:      stats.ActiveCampaigns,
	})
}
