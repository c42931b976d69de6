package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openkol/kolboard/internal/kol/domain"
	"github.com/openkol/kolboard/internal/kol/store"
	"github.com/openkol/kolboard/pkg/idx"
	"github.com/openkol/kolboard/pkg/slogx"
)

// ProfileService manages the influencer roster behind the dashboard. Manual
// entries created here are unverified; verified profiles only come out of
// the onboarding flow.
type ProfileService struct {
	Store store.Store
}

// ProfileInput carries the mutable attributes for create and update.
type ProfileInput struct {
	Name           string
	Email          string
	Category       string
	Platform       string
	Followers      int64
	EngagementRate float64
	PricePerPost   float64
	Bio            string
	AvatarURL      string
}

func (in ProfileInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Followers < 0 {
		return fmt.Errorf("%w: followers must not be negative", ErrValidation)
	}
	if in.EngagementRate < 0 || in.EngagementRate > 100 {
		return fmt.Errorf("%w: engagement rate must be between 0 and 100", ErrValidation)
	}
	if in.PricePerPost < 0 {
		return fmt.Errorf("%w: price per post must not be negative", ErrValidation)
	}
	return nil
}

// CreateProfile adds a manual roster entry.
func (s *ProfileService) CreateProfile(ctx context.Context, in ProfileInput) (domain.InfluencerProfile, error) {
	log := slogx.FromContext(ctx)

	if err := in.validate(); err != nil {
		return domain.InfluencerProfile{}, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return domain.InfluencerProfile{}, err
	}

	p := domain.InfluencerProfile{
		ID:             idx.New().String(),
		Name:           in.Name,
		Email:          email,
		Category:       in.Category,
		Platform:       in.Platform,
		Followers:      in.Followers,
		EngagementRate: in.EngagementRate,
		PricePerPost:   in.PricePerPost,
		Verified:       false,
		Bio:            in.Bio,
		AvatarURL:      in.AvatarURL,
	}

	if err := s.Store.Profiles().CreateProfile(ctx, p); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.InfluencerProfile{}, fmt.Errorf("%w: profile already exists", ErrConflict)
		}
		log.Error("failed to create profile", slog.Any("error", err))
		return domain.InfluencerProfile{}, err
	}

	log.Info("profile created",
		slog.String("profile_id", p.ID),
		slog.String("platform", p.Platform),
	)
	return p, nil
}

// GetProfile returns a profile by id.
func (s *ProfileService) GetProfile(ctx context.Context, id string) (domain.InfluencerProfile, error) {
	p, err := s.Store.Profiles().GetProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.InfluencerProfile{}, ErrProfileNotFound
		}
		return domain.InfluencerProfile{}, err
	}
	return p, nil
}

// ListProfiles returns profiles matching the filter, newest first.
func (s *ProfileService) ListProfiles(ctx context.Context, f store.ProfileFilter) ([]domain.InfluencerProfile, error) {
	return s.Store.Profiles().ListProfiles(ctx, f)
}

// UpdateProfile overwrites the mutable attributes of a profile. Verification
// status and invitation provenance are not editable through this path.
func (s *ProfileService) UpdateProfile(ctx context.Context, id string, in ProfileInput) (domain.InfluencerProfile, error) {
	log := slogx.FromContext(ctx)

	if err := in.validate(); err != nil {
		return domain.InfluencerProfile{}, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return domain.InfluencerProfile{}, err
	}

	p, err := s.GetProfile(ctx, id)
	if err != nil {
		return domain.InfluencerProfile{}, err
	}

	p.Name = in.Name
	p.Email = email
	p.Category = in.Category
	p.Platform = in.Platform
	p.Followers = in.Followers
	p.EngagementRate = in.EngagementRate
	p.PricePerPost = in.PricePerPost
	p.Bio = in.Bio
	p.AvatarURL = in.AvatarURL

	if err := s.Store.Profiles().UpdateProfile(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.InfluencerProfile{}, ErrProfileNotFound
		}
		log.Error("failed to update profile",
			slog.String("profile_id", id),
			slog.Any("error", err),
		)
		return domain.InfluencerProfile{}, err
	}

	return p, nil
}

// DeleteProfile removes a profile. Campaigns booked against it keep running
// unassigned.
func (s *ProfileService) DeleteProfile(ctx context.Context, id string) error {
	log := slogx.FromContext(ctx)

	if err := s.Store.Profiles().DeleteProfile(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProfileNotFound
		}
		log.Error("failed to delete profile",
			slog.String("profile_id", id),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("profile deleted", slog.String("profile_id", id))
	return nil
}

// materializeVerified builds the profile a provider exchange yields for an
// invitation. Every attested attribute comes from the provider, never the
// client; this is the only path that produces a verified profile.
func materializeVerified(inv domain.Invitation, identity domain.LinkedIdentity) domain.InfluencerProfile {
	return domain.InfluencerProfile{
		ID:                 idx.New().String(),
		Name:               identity.Handle,
		Email:              inv.Email,
		Platform:           "instagram",
		Followers:          identity.Followers,
		Verified:           true,
		Bio:                identity.Bio,
		AvatarURL:          identity.AvatarURL,
		SourceInvitationID: inv.ID,
	}
}

// materializeSelfReported builds the unverified profile a skipped link
// yields from the invitee's own form data.
func materializeSelfReported(inv domain.Invitation, form SelfReport) domain.InfluencerProfile {
	platform := form.Platform
	if platform == "" {
		platform = "instagram"
	}
	return domain.InfluencerProfile{
		ID:                 idx.New().String(),
		Name:               form.Name,
		Email:              inv.Email,
		Category:           form.Category,
		Platform:           platform,
		Followers:          form.Followers,
		EngagementRate:     form.EngagementRate,
		PricePerPost:       form.PricePerPost,
		Verified:           false,
		Bio:                form.Bio,
		AvatarURL:          form.AvatarURL,
		SourceInvitationID: inv.ID,
	}
}
