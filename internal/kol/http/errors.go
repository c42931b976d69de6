package http

import (
	"errors"
	"net/http"

	"github.com/openkol/kolboard/internal/kol/instagram"
	"github.com/openkol/kolboard/internal/kol/service"
	"github.com/openkol/kolboard/pkg/httpx"
	"github.com/openkol/kolboard/pkg/slogx"
)

// writeServiceError maps service sentinels onto the HTTP surface. Every
// handler funnels its service errors through here so the mapping stays in
// one place.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: err.Error(),
		})
	case errors.Is(err, service.ErrInviteNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrCampaignNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, ErrorResponse{
			Error:            "not_found",
			ErrorDescription: err.Error(),
		})
	case errors.Is(err, service.ErrInviteExpired):
		httpx.WriteJSON(w, http.StatusGone, ErrorResponse{
			Error:            "invite_expired",
			ErrorDescription: "The invitation has expired",
		})
	case errors.Is(err, service.ErrInviteRevoked):
		httpx.WriteJSON(w, http.StatusGone, ErrorResponse{
			Error:            "invite_revoked",
			ErrorDescription: "The invitation has been revoked",
		})
	case errors.Is(err, service.ErrInviteAlreadyUsed):
		httpx.WriteJSON(w, http.StatusConflict, ErrorResponse{
			Error:            "invite_already_used",
			ErrorDescription: "The invitation has already been used",
		})
	case errors.Is(err, service.ErrConsentRequired):
		httpx.WriteJSON(w, http.StatusPreconditionFailed, ErrorResponse{
			Error:            "consent_required",
			ErrorDescription: "Consent must be recorded before linking an identity",
		})
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrInvalidState):
		httpx.WriteJSON(w, http.StatusConflict, ErrorResponse{
			Error:            "conflict",
			ErrorDescription: err.Error(),
		})
	case errors.Is(err, service.ErrStoreTimeout):
		httpx.WriteJSON(w, http.StatusGatewayTimeout, ErrorResponse{
			Error:            "store_timeout",
			ErrorDescription: "The operation timed out; retry with the same token",
		})
	case errors.Is(err, instagram.ErrTimeout):
		httpx.WriteJSON(w, http.StatusGatewayTimeout, ErrorResponse{
			Error:            "provider_timeout",
			ErrorDescription: "The identity provider did not respond in time",
		})
	case errors.Is(err, instagram.ErrProvider):
		httpx.WriteJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:            "provider_error",
			ErrorDescription: "The identity provider rejected the request",
		})
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "An internal error occurred",
		})
	}
}
