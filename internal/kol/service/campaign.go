package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openkol/kolboard/internal/kol/domain"
	"github.com/openkol/kolboard/internal/kol/store"
	"github.com/openkol/kolboard/pkg/idx"
	"github.com/openkol/kolboard/pkg/slogx"
)

// CampaignService manages brand campaigns. Campaigns are scoped to the admin
// user who created them.
type CampaignService struct {
	Store store.Store
}

// CampaignInput carries the mutable attributes for create and update.
type CampaignInput struct {
	Title       string
	Description string
	Budget      float64
	StartDate   *time.Time
	EndDate     *time.Time
	Status      domain.CampaignStatus
	ProfileID   string
}

func (in CampaignInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrValidation)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return fmt.Errorf("%w: end date must not precede start date", ErrValidation)
	}
	switch in.Status {
	case "", domain.CampaignDraft, domain.CampaignActive, domain.CampaignCompleted, domain.CampaignCancelled:
	default:
		return fmt.Errorf("%w: unknown campaign status %q", ErrValidation, in.Status)
	}
	return nil
}

// CreateCampaign creates a campaign owned by ownerID. Status defaults to
// draft when not provided.
func (s *CampaignService) CreateCampaign(ctx context.Context, ownerID string, in CampaignInput) (domain.Campaign, error) {
	log := slogx.FromContext(ctx)

	if err := in.validate(); err != nil {
		return domain.Campaign{}, err
	}
	if err := s.checkProfile(ctx, in.ProfileID); err != nil {
		return domain.Campaign{}, err
	}

	status := in.Status
	if status == "" {
		status = domain.CampaignDraft
	}

	c := domain.Campaign{
		ID:          idx.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Budget:      in.Budget,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      status,
		ProfileID:   in.ProfileID,
		OwnerID:     ownerID,
	}

	if err := s.Store.Campaigns().CreateCampaign(ctx, c); err != nil {
		log.Error("failed to create campaign", slog.Any("error", err))
		return domain.Campaign{}, err
	}

	log.Info("campaign created",
		slog.String("campaign_id", c.ID),
		slog.String("owner_id", ownerID),
	)
	return c, nil
}

// GetCampaign returns a campaign, enforcing owner scope.
func (s *CampaignService) GetCampaign(ctx context.Context, ownerID, id string) (domain.Campaign, error) {
	c, err := s.Store.Campaigns().GetCampaignByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Campaign{}, ErrCampaignNotFound
		}
		return domain.Campaign{}, err
	}
	// Other owners' campaigns are indistinguishable from missing ones.
	if c.OwnerID != ownerID {
		return domain.Campaign{}, ErrCampaignNotFound
	}
	return c, nil
}

// ListCampaigns returns the owner's campaigns, newest first.
func (s *CampaignService) ListCampaigns(ctx context.Context, ownerID string) ([]domain.Campaign, error) {
	return s.Store.Campaigns().ListCampaignsByOwner(ctx, ownerID)
}

// UpdateCampaign overwrites the mutable attributes of an owned campaign.
func (s *CampaignService) UpdateCampaign(ctx context.Context, ownerID, id string, in CampaignInput) (domain.Campaign, error) {
	log := slogx.FromContext(ctx)

	if err := in.validate(); err != nil {
		return domain.Campaign{}, err
	}
	if err := s.checkProfile(ctx, in.ProfileID); err != nil {
		return domain.Campaign{}, err
	}

	c, err := s.GetCampaign(ctx, ownerID, id)
	if err != nil {
		return domain.Campaign{}, err
	}

	c.Title = in.Title
	c.Description = in.Description
	c.Budget = in.Budget
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	if in.Status != "" {
		c.Status = in.Status
	}
	c.ProfileID = in.ProfileID

	if err := s.Store.Campaigns().UpdateCampaign(ctx, c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Campaign{}, ErrCampaignNotFound
		}
		log.Error("failed to update campaign",
			slog.String("campaign_id", id),
			slog.Any("error", err),
		)
		return domain.Campaign{}, err
	}

	return c, nil
}

// DeleteCampaign removes an owned campaign.
func (s *CampaignService) DeleteCampaign(ctx context.Context, ownerID, id string) error {
	log := slogx.FromContext(ctx)

	if _, err := s.GetCampaign(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.Store.Campaigns().DeleteCampaign(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCampaignNotFound
		}
		log.Error("failed to delete campaign",
			slog.String("campaign_id", id),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("campaign deleted", slog.String("campaign_id", id))
	return nil
}

// checkProfile verifies an optional profile assignment points at a real
// profile before booking it into a campaign.
func (s *CampaignService) checkProfile(ctx context.Context, profileID string) error {
	if profileID == "" {
		return nil
	}
	_, err := s.Store.Profiles().GetProfileByID(ctx, profileID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: assigned profile does not exist", ErrValidation)
	}
	return err
}
