package domain

import "time"

// InvitationStatus is the lifecycle state of an invitation record.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationCompleted InvitationStatus = "completed"
	InvitationExpired   InvitationStatus = "expired"
	InvitationRevoked   InvitationStatus = "revoked"
)

// OnboardingStep tracks how far the invitee has progressed through the
// consent and identity-linking flow. It only moves forward.
type OnboardingStep string

const (
	StepAwaitingConsent  OnboardingStep = "awaiting_consent"
	StepAwaitingIdentity OnboardingStep = "awaiting_identity"
	StepFinalized        OnboardingStep = "finalized"
	StepAbandoned        OnboardingStep = "abandoned"
)

// Invitation grants one onboarding session to a single recipient email.
// The raw token is never stored; TokenHash is its SHA-256 fingerprint.
type Invitation struct {
	ID        string
	TokenHash string
	Email     string // lowercased
	InvitedBy string
	Status    InvitationStatus
	Step      OnboardingStep
	ExpiresAt time.Time
	// ConsumedAt is non-nil iff Status is InvitationCompleted.
	ConsumedAt *time.Time
	// ProfileID links to the profile created at finalize. Empty until then.
	ProfileID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExpiredAt reports whether the invitation's TTL has elapsed at the given
// time. Expiry is enforced lazily at read time, not by a scheduled job.
func (i Invitation) ExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
