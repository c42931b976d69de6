package service

import (
	"context"
	"testing"

	"github.com/openkol/kolboard/internal/kol/domain"
	"github.com/openkol/kolboard/internal/kol/store"
	"github.com/openkol/kolboard/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestProfileCRUD(t *testing.T) {
	ctx := context.Background()
	svc := &ProfileService{Store: newTestStore(t)}

	created, err := svc.CreateProfile(ctx, ProfileInput{
		Name:           "Wren",
		Email:          "wren@example.com",
		Category:       "travel",
		Platform:       "instagram",
		Followers:      10000,
		EngagementRate: 3.4,
		PricePerPost:   250,
	})
	require.NoError(t, err)
	require.False(t, created.Verified, "manual entries are unverified")

	got, err := svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Name, got.Name)

	updated, err := svc.UpdateProfile(ctx, created.ID, ProfileInput{
		Name:      "Wren W.",
		Email:     "wren@example.com",
		Category:  "food",
		Platform:  "instagram",
		Followers: 12000,
	})
	require.NoError(t, err)
	require.Equal(t, "Wren W.", updated.Name)
	require.Equal(t, "food", updated.Category)

	require.NoError(t, svc.DeleteProfile(ctx, created.ID))
	_, err = svc.GetProfile(ctx, created.ID)
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileNotFound(t *testing.T) {
	ctx := context.Background()
	svc := &ProfileService{Store: newTestStore(t)}

	missing := idx.New().String()
	_, err := svc.GetProfile(ctx, missing)
	require.ErrorIs(t, err, ErrProfileNotFound)

	_, err = svc.UpdateProfile(ctx, missing, ProfileInput{Name: "X", Email: "x@example.com"})
	require.ErrorIs(t, err, ErrProfileNotFound)

	require.ErrorIs(t, svc.DeleteProfile(ctx, missing), ErrProfileNotFound)
}

func TestProfileValidation(t *testing.T) {
	ctx := context.Background()
	svc := &ProfileService{Store: newTestStore(t)}

	cases := []ProfileInput{
		{Email: "a@example.com"},                                          // missing name
		{Name: "A", Email: "bad"},                                         // bad email
		{Name: "A", Email: "a@example.com", Followers: -1},                // negative followers
		{Name: "A", Email: "a@example.com", EngagementRate: 120},          // rate out of range
		{Name: "A", Email: "a@example.com", PricePerPost: -5},             // negative price
	}
	for _, in := range cases {
		_, err := svc.CreateProfile(ctx, in)
		require.ErrorIs(t, err, ErrValidation, "%+v", in)
	}
}

func TestListProfilesFilters(t *testing.T) {
	ctx := context.Background()
	svc := &ProfileService{Store: newTestStore(t)}

	seed := []ProfileInput{
		{Name: "A", Email: "a@example.com", Category: "travel", Platform: "instagram", Followers: 5000, PricePerPost: 100},
		{Name: "B", Email: "b@example.com", Category: "food", Platform: "instagram", Followers: 50000, PricePerPost: 800},
		{Name: "C", Email: "c@example.com", Category: "travel", Platform: "tiktok", Followers: 200000, PricePerPost: 2500},
	}
	for _, in := range seed {
		_, err := svc.CreateProfile(ctx, in)
		require.NoError(t, err)
	}

	all, err := svc.ListProfiles(ctx, store.ProfileFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	travel, err := svc.ListProfiles(ctx, store.ProfileFilter{Category: "travel"})
	require.NoError(t, err)
	require.Len(t, travel, 2)

	big, err := svc.ListProfiles(ctx, store.ProfileFilter{MinFollowers: 40000})
	require.NoError(t, err)
	require.Len(t, big, 2)

	affordableTravel, err := svc.ListProfiles(ctx, store.ProfileFilter{Category: "travel", MaxPrice: 500})
	require.NoError(t, err)
	require.Len(t, affordableTravel, 1)
	require.Equal(t, "A", affordableTravel[0].Name)
}

func TestMaterializeProfiles(t *testing.T) {
	inv := domain.Invitation{ID: idx.New().String(), Email: "wren@example.com"}

	verified := materializeVerified(inv, domain.LinkedIdentity{
		Handle:    "wanderlust.wren",
		Followers: 52100,
	})
	require.True(t, verified.Verified)
	require.Equal(t, "wanderlust.wren", verified.Name)
	require.Equal(t, "wren@example.com", verified.Email)
	require.Equal(t, "instagram", verified.Platform)
	require.Equal(t, inv.ID, verified.SourceInvitationID)

	self := materializeSelfReported(inv, SelfReport{Name: "Wren", Followers: 10000})
	require.False(t, self.Verified, "self-reported profiles are never verified")
	require.Equal(t, "instagram", self.Platform, "platform defaults when unreported")
	require.Equal(t, inv.ID, self.SourceInvitationID)
}
