package store

import (
	"context"
	"errors"
	"time"

	"github.com/openkol/kolboard/internal/kol/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Invitations() Invitations
	Profiles() Profiles
	Campaigns() Campaigns

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Invitations interface {
	// CreateInvitation writes a new invitation (token_hash is the SHA-256
	// fingerprint of the opaque invite token).
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByID returns an invitation by id.
	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// GetInvitationByTokenHash returns an invitation by token fingerprint,
	// regardless of its status. Status rules are enforced by the service.
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// GetActiveInvitationByEmail returns the pending, unexpired invitation
	// for an email, if any. At most one can exist at a time.
	GetActiveInvitationByEmail(ctx context.Context, email string, now time.Time) (domain.Invitation, error)

	// ListInvitations returns all invitations, newest first.
	ListInvitations(ctx context.Context) ([]domain.Invitation, error)

	// AdvanceStep moves the onboarding step from one value to another only
	// if the invitation is still pending and currently at the expected step.
	// Reports whether the compare-and-set applied.
	AdvanceStep(ctx context.Context, id string, from, to domain.OnboardingStep) (bool, error)

	// UpdateStatusIf transitions status only if it currently equals from.
	// Reports whether the compare-and-set applied.
	UpdateStatusIf(ctx context.Context, id string, from, to domain.InvitationStatus) (bool, error)

	// CompleteInvitation marks a pending invitation completed, recording
	// consumed_at and the created profile in the same write. Reports whether
	// the compare-and-set applied (false means another writer finalized first).
	CompleteInvitation(ctx context.Context, id, profileID string, consumedAt time.Time) (bool, error)

	// MarkExpired reconciles a pending invitation whose TTL elapsed. No-op
	// if the invitation is no longer pending.
	MarkExpired(ctx context.Context, id string) error

	// ExpireOverdueInvitations is housekeeping: reconciles every pending
	// invitation past its TTL. Lazy expiry at read time remains the
	// correctness mechanism; this only bounds table growth of stale rows.
	ExpireOverdueInvitations(ctx context.Context, now time.Time) error

	// ExpireOverdueInvitationsByEmail reconciles a pending invitation for one
	// email past its TTL. A stale pending row would otherwise still hold the
	// one-pending-per-email slot and block a fresh issue.
	ExpireOverdueInvitationsByEmail(ctx context.Context, email string, now time.Time) error
}

// ProfileFilter narrows ListProfiles. Zero values mean "no constraint".
type ProfileFilter struct {
	Category     string
	Platform     string
	MinFollowers int64
	MaxPrice     float64
}

type Profiles interface {
	// CreateProfile inserts a new profile. Returns ErrAlreadyExists if a
	// profile for the same source invitation was already created.
	CreateProfile(ctx context.Context, p domain.InfluencerProfile) error

	// GetProfileByID returns a profile by id.
	GetProfileByID(ctx context.Context, id string) (domain.InfluencerProfile, error)

	// GetProfileBySourceInvitation returns the profile materialized from the
	// given invitation, if any. This is the finalize idempotency lookup.
	GetProfileBySourceInvitation(ctx context.Context, invitationID string) (domain.InfluencerProfile, error)

	// ListProfiles returns profiles matching the filter, newest first.
	ListProfiles(ctx context.Context, f ProfileFilter) ([]domain.InfluencerProfile, error)

	// UpdateProfile overwrites the mutable attributes of a profile.
	UpdateProfile(ctx context.Context, p domain.InfluencerProfile) error

	// DeleteProfile removes a profile.
	DeleteProfile(ctx context.Context, id string) error

	// CountProfiles returns the total number of profiles.
	CountProfiles(ctx context.Context) (int, error)
}

type Campaigns interface {
	CreateCampaign(ctx context.Context, c domain.Campaign) error
	GetCampaignByID(ctx context.Context, id string) (domain.Campaign, error)
	ListCampaignsByOwner(ctx context.Context, ownerID string) ([]domain.Campaign, error)
	UpdateCampaign(ctx context.Context, c domain.Campaign) error
	DeleteCampaign(ctx context.Context, id string) error
	CountCampaignsByOwner(ctx context.Context, ownerID string) (int, error)
	CountCampaignsByOwnerAndStatus(ctx context.Context, ownerID string, status domain.CampaignStatus) (int, error)
}
