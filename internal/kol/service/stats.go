package service

import (
	"context"
	"time"

	"github.com/openkol/kolboard/internal/kol/domain"
	"github.com/openkol/kolboard/internal/kol/store"
)

// DashboardStats is the summary block on the dashboard landing page.
type DashboardStats struct {
	TotalProfiles        int
	PendingInvitations   int
	CompletedInvitations int
	TotalCampaigns       int
	ActiveCampaigns      int
}

// StatsService aggregates counts for the dashboard.
type StatsService struct {
	Store store.Store
}

// Dashboard computes the summary for one admin user. Invitation counts apply
// lazy expiry, so a pending invitation past its TTL counts as expired.
func (s *StatsService) Dashboard(ctx context.Context, ownerID string) (DashboardStats, error) {
	var out DashboardStats

	profiles, err := s.Store.Profiles().CountProfiles(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	out.TotalProfiles = profiles

	invs, err := s.Store.Invitations().ListInvitations(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	now := time.Now().UTC()
	for _, inv := range invs {
		switch inv.Status {
		case domain.InvitationPending:
			if !inv.ExpiredAt(now) {
				out.PendingInvitations++
			}
		case domain.InvitationCompleted:
			out.CompletedInvitations++
		}
	}

	total, err := s.Store.Campaigns().CountCampaignsByOwner(ctx, ownerID)
	if err != nil {
		return DashboardStats{}, err
	}
	out.TotalCampaigns = total

	active, err := s.Store.Campaigns().CountCampaignsByOwnerAndStatus(ctx, ownerID, domain.CampaignActive)
	if err != nil {
		return DashboardStats{}, err
	}
	out.ActiveCampaigns = active

	return out, nil
}
