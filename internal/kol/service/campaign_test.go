package service

import (
	"context"
	"testing"
	"time"

	"github.com/openkol/kolboard/internal/kol/domain"
	"github.com/openkol/kolboard/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestCampaignCRUD(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &CampaignService{Store: st}

	start := time.Now().UTC().Truncate(time.Second)
	end := start.Add(14 * 24 * time.Hour)

	created, err := svc.CreateCampaign(ctx, "owner-1", CampaignInput{
		Title:     "Summer Launch",
		Budget:    5000,
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)
	require.Equal(t, domain.CampaignDraft, created.Status, "status defaults to draft")

	got, err := svc.GetCampaign(ctx, "owner-1", created.ID)
	require.NoError(t, err)
	require.Equal(t, "Summer Launch", got.Title)

	updated, err := svc.UpdateCampaign(ctx, "owner-1", created.ID, CampaignInput{
		Title:  "Summer Launch",
		Budget: 7500,
		Status: domain.CampaignActive,
	})
	require.NoError(t, err)
	require.Equal(t, domain.CampaignActive, updated.Status)
	require.EqualValues(t, 7500, updated.Budget)

	require.NoError(t, svc.DeleteCampaign(ctx, "owner-1", created.ID))
	_, err = svc.GetCampaign(ctx, "owner-1", created.ID)
	require.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestCampaignOwnerScoping(t *testing.T) {
	ctx := context.Background()
	svc := &CampaignService{Store: newTestStore(t)}

	created, err := svc.CreateCampaign(ctx, "owner-1", CampaignInput{Title: "Private"})
	require.NoError(t, err)

	// Another owner's campaigns look like they don't exist.
	_, err = svc.GetCampaign(ctx, "owner-2", created.ID)
	require.ErrorIs(t, err, ErrCampaignNotFound)
	require.ErrorIs(t, svc.DeleteCampaign(ctx, "owner-2", created.ID), ErrCampaignNotFound)

	mine, err := svc.ListCampaigns(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	theirs, err := svc.ListCampaigns(ctx, "owner-2")
	require.NoError(t, err)
	require.Empty(t, theirs)
}

func TestCampaignValidation(t *testing.T) {
	ctx := context.Background()
	svc := &CampaignService{Store: newTestStore(t)}

	_, err := svc.CreateCampaign(ctx, "owner-1", CampaignInput{})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateCampaign(ctx, "owner-1", CampaignInput{Title: "X", Budget: -1})
	require.ErrorIs(t, err, ErrValidation)

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err = svc.CreateCampaign(ctx, "owner-1", CampaignInput{Title: "X", StartDate: &start, EndDate: &end})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateCampaign(ctx, "owner-1", CampaignInput{Title: "X", Status: "archived"})
	require.ErrorIs(t, err, ErrValidation)

	// Booking a non-existent profile is rejected.
	_, err = svc.CreateCampaign(ctx, "owner-1", CampaignInput{Title: "X", ProfileID: idx.New().String()})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCampaignProfileAssignment(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	campaigns := &CampaignService{Store: st}
	profiles := &ProfileService{Store: st}

	p, err := profiles.CreateProfile(ctx, ProfileInput{Name: "Wren", Email: "wren@example.com"})
	require.NoError(t, err)

	c, err := campaigns.CreateCampaign(ctx, "owner-1", CampaignInput{Title: "Booked", ProfileID: p.ID})
	require.NoError(t, err)
	require.Equal(t, p.ID, c.ProfileID)

	// Deleting the profile unassigns it from the campaign.
	require.NoError(t, profiles.DeleteProfile(ctx, p.ID))

	got, err := campaigns.GetCampaign(ctx, "owner-1", c.ID)
	require.NoError(t, err)
	require.Empty(t, got.ProfileID)
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	invites := &InviteService{Store: st}
	onboarding := &OnboardingService{Store: st, Provider: &fakeProvider{
		identity: domain.LinkedIdentity{Handle: "wren", Followers: 100},
	}}
	campaigns := &CampaignService{Store: st}
	stats := &StatsService{Store: st}

	// One completed invitation (which creates a profile) and one pending.
	token := issueAndConsent(t, onboarding, invites, "done@example.com")
	_, err := onboarding.LinkIdentity(ctx, token, "code")
	require.NoError(t, err)

	_, _, err = invites.IssueInvite(ctx, "pending@example.com", "admin-1")
	require.NoError(t, err)

	_, err = campaigns.CreateCampaign(ctx, "owner-1", CampaignInput{Title: "Draft one"})
	require.NoError(t, err)
	_, err = campaigns.CreateCampaign(ctx, "owner-1", CampaignInput{Title: "Live one", Status: domain.CampaignActive})
	require.NoError(t, err)

	out, err := stats.Dashboard(ctx, "owner-1")
	require.NoError(t, err)
	require.Equal(t, 1, out.TotalProfiles)
	require.Equal(t, 1, out.PendingInvitations)
	require.Equal(t, 1, out.CompletedInvitations)
	require.Equal(t, 2, out.TotalCampaigns)
	require.Equal(t, 1, out.ActiveCampaigns)
}
