package domain

import "time"

// InfluencerProfile is a durable influencer (KOL) record. Profiles are
// created either by finalizing an invitation or by manual admin entry.
type InfluencerProfile struct {
	ID             string
	Name           string
	Email          string // lowercased
	Category       string
	Platform       string
	Followers      int64
	EngagementRate float64
	PricePerPost   float64
	// Verified is set only when the identity was confirmed by a successful
	// provider token exchange, never from self-reported form data.
	Verified  bool
	Bio       string
	AvatarURL string
	// SourceInvitationID is the invitation this profile was materialized
	// from, or empty for manual entries. Unique per invitation.
	SourceInvitationID string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
