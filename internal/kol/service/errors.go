package service

import "errors"

// Sentinel errors returned by the services. The HTTP layer maps these to
// status codes with errors.Is, so wrap rather than replace them.
var (
	ErrInviteNotFound    = errors.New("invitation not found")
	ErrInviteExpired     = errors.New("invitation has expired")
	ErrInviteAlreadyUsed = errors.New("invitation has already been used")
	ErrInviteRevoked     = errors.New("invitation has been revoked")
	ErrConflict          = errors.New("conflicting resource already exists")
	ErrConsentRequired   = errors.New("consent has not been recorded")
	ErrInvalidState      = errors.New("operation not valid in current state")
	ErrValidation        = errors.New("invalid request")
	ErrStoreTimeout      = errors.New("store operation timed out")

	ErrProfileNotFound  = errors.New("profile not found")
	ErrCampaignNotFound = errors.New("campaign not found")
)
