package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/openkol/kolboard/internal/kol/domain"
	"github.com/openkol/kolboard/internal/kol/notify"
	"github.com/openkol/kolboard/internal/kol/store"
	"github.com/openkol/kolboard/pkg/cryptox"
	"github.com/openkol/kolboard/pkg/idx"
	"github.com/openkol/kolboard/pkg/slogx"
)

// DefaultInviteTTL is how long an invitation stays redeemable.
const DefaultInviteTTL = 7 * 24 * time.Hour

// InviteService issues, verifies, and revokes onboarding invitations.
type InviteService struct {
	Store    store.Store
	Notifier notify.Notifier

	// OnboardingBaseURL is prepended to the raw token to form the link sent
	// to the invitee, e.g. "https://app.example.com/onboarding".
	OnboardingBaseURL string

	// TTL overrides DefaultInviteTTL when positive.
	TTL time.Duration
}

func (s *InviteService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultInviteTTL
}

// IssueInvite mints a single-use invitation for an email address and sends
// the onboarding link. The raw token is returned once and never stored; only
// its fingerprint is persisted. At most one pending, unexpired invitation may
// exist per email.
func (s *InviteService) IssueInvite(
	ctx context.Context,
	email string,
	invitedBy string,
) (string, domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate and normalize the recipient address.
	email, err := normalizeEmail(email)
	if err != nil {
		log.Warn("invite requested with invalid email")
		return "", domain.Invitation{}, err
	}

	now := time.Now().UTC()

	// 2. Reject if an active invitation already exists for this email.
	existing, err := s.Store.Invitations().GetActiveInvitationByEmail(ctx, email, now)
	if err == nil {
		log.Warn("invite requested for email with active invitation",
			slog.String("invitation_id", existing.ID),
		)
		return "", domain.Invitation{}, fmt.Errorf("%w: active invitation exists for email", ErrConflict)
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check for active invitation", slog.Any("error", err))
		return "", domain.Invitation{}, err
	}

	// A pending row past its TTL still holds the one-pending-per-email slot
	// in the store. Reconcile it so the insert below is not rejected.
	if err := s.Store.Invitations().ExpireOverdueInvitationsByEmail(ctx, email, now); err != nil {
		log.Error("failed to reconcile overdue invitation", slog.Any("error", err))
		return "", domain.Invitation{}, err
	}

	// 3. Generate the token and persist only its fingerprint.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return "", domain.Invitation{}, err
	}

	inv := domain.Invitation{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		Email:     email,
		InvitedBy: invitedBy,
		Status:    domain.InvitationPending,
		Step:      domain.StepAwaitingConsent,
		ExpiresAt: now.Add(s.ttl()),
	}

	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent issue for the same email.
			return "", domain.Invitation{}, fmt.Errorf("%w: active invitation exists for email", ErrConflict)
		}
		log.Error("failed to create invitation",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return "", domain.Invitation{}, err
	}

	// 4. Send the onboarding link. Delivery failure does not fail the issue:
	// the admin still gets the token back and can resend out of band.
	if s.Notifier != nil {
		link := s.OnboardingBaseURL + "?token=" + token
		if err := s.Notifier.SendInvite(ctx, email, link); err != nil {
			log.Warn("failed to send invite email",
				slog.String("invitation_id", inv.ID),
				slog.Any("error", err),
			)
		}
	}

	log.Info("invitation issued",
		slog.String("invitation_id", inv.ID),
		slog.String("invited_by", invitedBy),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	return token, inv, nil
}

// VerifyInvite resolves a raw token to its invitation and checks that it is
// still redeemable. Expiry is enforced here, lazily: a pending invitation
// past its TTL is reconciled to expired on this read.
func (s *InviteService) VerifyInvite(ctx context.Context, token string) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		return domain.Invitation{}, fmt.Errorf("%w: token is required", ErrValidation)
	}

	fingerprint := cryptox.FingerprintToken(token)
	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("verification attempted with unknown token")
			return domain.Invitation{}, ErrInviteNotFound
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return domain.Invitation{}, err
	}

	return s.checkRedeemable(ctx, inv)
}

// checkRedeemable applies the status rules shared by verify and the
// onboarding transitions. It reconciles lazy expiry as a side effect.
func (s *InviteService) checkRedeemable(ctx context.Context, inv domain.Invitation) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	switch inv.Status {
	case domain.InvitationCompleted:
		return domain.Invitation{}, ErrInviteAlreadyUsed
	case domain.InvitationRevoked:
		return domain.Invitation{}, ErrInviteRevoked
	case domain.InvitationExpired:
		return domain.Invitation{}, ErrInviteExpired
	}

	if inv.ExpiredAt(time.Now().UTC()) {
		// Reconcile the stored row. Best effort: the read answer does not
		// depend on the write landing.
		if err := s.Store.Invitations().MarkExpired(ctx, inv.ID); err != nil {
			log.Warn("failed to reconcile expired invitation",
				slog.String("invitation_id", inv.ID),
				slog.Any("error", err),
			)
		}
		return domain.Invitation{}, ErrInviteExpired
	}

	return inv, nil
}

// RevokeInvite withdraws a pending invitation so its token can no longer be
// redeemed. Only pending invitations can be revoked; anything else fails
// with ErrInvalidState.
func (s *InviteService) RevokeInvite(ctx context.Context, id string) error {
	log := slogx.FromContext(ctx)

	applied, err := s.Store.Invitations().UpdateStatusIf(
		ctx, id, domain.InvitationPending, domain.InvitationRevoked)
	if err != nil {
		log.Error("failed to revoke invitation",
			slog.String("invitation_id", id),
			slog.Any("error", err),
		)
		return err
	}
	if applied {
		log.Info("invitation revoked", slog.String("invitation_id", id))
		return nil
	}

	// The CAS missed: either the invitation does not exist or it already
	// left the pending state.
	if _, err := s.Store.Invitations().GetInvitationByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInviteNotFound
		}
		return err
	}
	return ErrInvalidState
}

// GetInvite returns an invitation by id with lazy expiry applied to the
// returned view. It does not enforce redeemability.
func (s *InviteService) GetInvite(ctx context.Context, id string) (domain.Invitation, error) {
	inv, err := s.Store.Invitations().GetInvitationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrInviteNotFound
		}
		return domain.Invitation{}, err
	}
	return s.effectiveView(inv), nil
}

// ListInvites returns all invitations, newest first, with lazy expiry
// applied to the returned view.
func (s *InviteService) ListInvites(ctx context.Context) ([]domain.Invitation, error) {
	invs, err := s.Store.Invitations().ListInvitations(ctx)
	if err != nil {
		return nil, err
	}
	for i := range invs {
		invs[i] = s.effectiveView(invs[i])
	}
	return invs, nil
}

// effectiveView presents a pending-but-overdue invitation as expired without
// writing. Housekeeping reconciles the stored rows in bulk.
func (s *InviteService) effectiveView(inv domain.Invitation) domain.Invitation {
	if inv.Status == domain.InvitationPending && inv.ExpiredAt(time.Now().UTC()) {
		inv.Status = domain.InvitationExpired
		inv.Step = domain.StepAbandoned
	}
	return inv
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: malformed email address", ErrValidation)
	}
	return email, nil
}
