package http

import (
	"time"

	"github.com/openkol/kolboard/internal/kol/domain"
	"github.com/openkol/kolboard/internal/kol/service"
)

// ErrorResponse is the uniform error body for every endpoint.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

type createInviteRequest struct {
	Email string `json:"email"`
}

type createInviteResponse struct {
	InviteToken  string    `json:"invite_token"`
	InvitationID string    `json:"invitation_id"`
	Email        string    `json:"email"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type invitationResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	InvitedBy  string     `json:"invited_by"`
	Status     string     `json:"status"`
	Step       string     `json:"step"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	ProfileID  string     `json:"profile_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toInvitationResponse(inv domain.Invitation) invitationResponse {
	return invitationResponse{
		ID:         inv.ID,
		Email:      inv.Email,
		InvitedBy:  inv.InvitedBy,
		Status:     string(inv.Status),
		Step:       string(inv.Step),
		ExpiresAt:  inv.ExpiresAt,
		ConsumedAt: inv.ConsumedAt,
		ProfileID:  inv.ProfileID,
		CreatedAt:  inv.CreatedAt,
	}
}

type verifyInviteResponse struct {
	Valid     bool      `json:"valid"`
	Email     string    `json:"email"`
	Step      string    `json:"step"`
	ExpiresAt time.Time `json:"expires_at"`
}

type consentRequest struct {
	Token        string `json:"token"`
	ConsentGiven bool   `json:"consent_given"`
}

type linkIdentityRequest struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

type skipIdentityRequest struct {
	Token          string  `json:"token"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Platform       string  `json:"platform"`
	Followers      int64   `json:"followers"`
	EngagementRate float64 `json:"engagement_rate"`
	PricePerPost   float64 `json:"price_per_post"`
	Bio            string  `json:"bio"`
	AvatarURL      string  `json:"avatar_url"`
}

type authURLResponse struct {
	AuthURL string `json:"auth_url"`
}

type profileRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Category       string  `json:"category"`
	Platform       string  `json:"platform"`
	Followers      int64   `json:"followers"`
	EngagementRate float64 `json:"engagement_rate"`
	PricePerPost   float64 `json:"price_per_post"`
	Bio            string  `json:"bio"`
	AvatarURL      string  `json:"avatar_url"`
}

func (r profileRequest) toInput() service.ProfileInput {
	return service.ProfileInput{
		Name:           r.Name,
		Email:          r.Email,
		Category:       r.Category,
		Platform:       r.Platform,
		Followers:      r.Followers,
		EngagementRate: r.EngagementRate,
		PricePerPost:   r.PricePerPost,
		Bio:            r.Bio,
		AvatarURL:      r.AvatarURL,
	}
}

type profileResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Category       string    `json:"category,omitempty"`
	Platform       string    `json:"platform,omitempty"`
	Followers      int64     `json:"followers"`
	EngagementRate float64   `json:"engagement_rate"`
	PricePerPost   float64   `json:"price_per_post"`
	Verified       bool      `json:"verified"`
	Bio            string    `json:"bio,omitempty"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toProfileResponse(p domain.InfluencerProfile) profileResponse {
	return profileResponse{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Category:       p.Category,
		Platform:       p.Platform,
		Followers:      p.Followers,
		EngagementRate: p.EngagementRate,
		PricePerPost:   p.PricePerPost,
		Verified:       p.Verified,
		Bio:            p.Bio,
		AvatarURL:      p.AvatarURL,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

type campaignRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Budget      float64    `json:"budget"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Status      string     `json:"status,omitempty"`
	ProfileID   string     `json:"profile_id,omitempty"`
}

func (r campaignRequest) toInput() service.CampaignInput {
	return service.CampaignInput{
		Title:       r.Title,
		Description: r.Description,
		Budget:      r.Budget,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Status:      domain.CampaignStatus(r.Status),
		ProfileID:   r.ProfileID,
	}
}

type campaignResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Budget      float64    `json:"budget"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Status      string     `json:"status"`
	ProfileID   string     `json:"profile_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toCampaignResponse(c domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Budget:      c.Budget,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		Status:      string(c.Status),
		ProfileID:   c.ProfileID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type statsResponse struct {
	TotalProfiles        int `json:"total_profiles"`
	PendingInvitations   int `json:"pending_invitations"`
	CompletedInvitations int `json:"completed_invitations"`
	TotalCampaigns       int `json:"total_campaigns"`
	ActiveCampaigns      int `json:"active_campaigns"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is the body for the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
