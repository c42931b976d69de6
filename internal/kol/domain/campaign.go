package domain

import "time"

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// Campaign is a brand campaign, optionally booked against a profile.
type Campaign struct {
	ID          string
	Title       string
	Description string
	Budget      float64
	StartDate   *time.Time
	EndDate     *time.Time
	Status      CampaignStatus
	// ProfileID is the booked influencer profile, empty if unassigned.
	ProfileID string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
