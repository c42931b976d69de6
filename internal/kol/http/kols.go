package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/openkol/kolboard/internal/kol/service"
	"github.com/openkol/kolboard/internal/kol/store"
	"github.com/openkol/kolboard/pkg/httpx"
)

// KolsHandler serves the admin influencer roster endpoints.
type KolsHandler struct {
	ProfileService *service.ProfileService
}

func (h *KolsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	p, err := h.ProfileService.CreateProfile(r.Context(), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toProfileResponse(p))
}

// HandleList returns profiles, optionally narrowed by query filters:
// category, platform, min_followers, max_price.
func (h *KolsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.ProfileFilter{
		Category: q.Get("category"),
		Platform: q.Get("platform"),
	}
	if v := q.Get("min_followers"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "min_followers must be a non-negative integer",
			})
			return
		}
		filter.MinFollowers = n
	}
	if v := q.Get("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "max_price must be a non-negative number",
			})
			return
		}
		filter.MaxPrice = f
	}

	profiles, err := h.ProfileService.ListProfiles(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *KolsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.ProfileService.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfileResponse(p))
}

func (h *KolsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	p, err := h.ProfileService.UpdateProfile(r.Context(), r.PathValue("id"), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProfileResponse(p))
}

func (h *KolsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ProfileService.DeleteProfile(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
