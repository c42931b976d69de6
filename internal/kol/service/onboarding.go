package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openkol/kolboard/internal/kol/domain"
	"github.com/openkol/kolboard/internal/kol/notify"
	"github.com/openkol/kolboard/internal/kol/store"
	"github.com/openkol/kolboard/pkg/cryptox"
	"github.com/openkol/kolboard/pkg/slogx"
)

// IdentityProvider abstracts the external OAuth provider. The production
// implementation is the instagram client; tests substitute a fake.
type IdentityProvider interface {
	// AuthorizationURL returns the provider authorize URL for the browser.
	AuthorizationURL() string

	// Exchange trades an authorization code for a normalized identity.
	// Codes are single-use on the provider side: a failed exchange means the
	// invitee must authorize again and retry with a fresh code.
	Exchange(ctx context.Context, code string) (domain.LinkedIdentity, error)
}

// SelfReport is the form data an invitee submits when declining to link a
// provider account. Profiles built from it are never marked verified.
type SelfReport struct {
	Name           string
	Category       string
	Platform       string
	Followers      int64
	EngagementRate float64
	PricePerPost   float64
	Bio            string
	AvatarURL      string
}

// storeOpTimeout bounds the finalize transaction so a wedged database fails
// the request instead of hanging it.
const storeOpTimeout = 10 * time.Second

// errLostFinalizeRace signals that another writer finalized the invitation
// while our transaction was in flight. The caller re-reads the winner's
// profile and returns it, so concurrent finalizes converge on one result.
var errLostFinalizeRace = errors.New("lost finalize race")

// OnboardingService walks an invitee through consent, identity linking, and
// profile materialization. Every transition re-validates the invitation so a
// revoked or expired token stops the flow at any point.
type OnboardingService struct {
	Store    store.Store
	Provider IdentityProvider
	Notifier notify.Notifier
}

// AuthorizationURL exposes the provider authorize URL. Stateless: nothing is
// recorded until the invitee returns with a code.
func (s *OnboardingService) AuthorizationURL() string {
	return s.Provider.AuthorizationURL()
}

// RecordConsent marks that the invitee accepted the data-processing terms.
// Declining is not stored: the flow simply cannot proceed without consent.
// Consent is monotonic: recording it again after it was given is a no-op
// success, and there is no operation to withdraw it mid-flow.
func (s *OnboardingService) RecordConsent(ctx context.Context, token string, consentGiven bool) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	if !consentGiven {
		return domain.Invitation{}, ErrConsentRequired
	}

	inv, err := s.resolvePending(ctx, token)
	if err != nil {
		return domain.Invitation{}, err
	}

	if inv.Step != domain.StepAwaitingConsent {
		// Already consented. Idempotent.
		return inv, nil
	}

	applied, err := s.Store.Invitations().AdvanceStep(
		ctx, inv.ID, domain.StepAwaitingConsent, domain.StepAwaitingIdentity)
	if err != nil {
		log.Error("failed to record consent",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.Invitation{}, err
	}
	if !applied {
		// A concurrent call moved the step or the status changed under us.
		// Re-read and let the fresh row decide.
		return s.resolvePending(ctx, token)
	}

	inv.Step = domain.StepAwaitingIdentity
	log.Info("consent recorded", slog.String("invitation_id", inv.ID))
	return inv, nil
}

// LinkIdentity exchanges the OAuth code server-side and finalizes the
// invitation into a verified profile in one operation. The client never
// submits provider profile data directly; everything attested comes from the
// provider over the exchange.
func (s *OnboardingService) LinkIdentity(ctx context.Context, token, code string) (domain.InfluencerProfile, error) {
	log := slogx.FromContext(ctx)

	if code == "" {
		return domain.InfluencerProfile{}, fmt.Errorf("%w: authorization code is required", ErrValidation)
	}

	inv, existing, err := s.resolveForFinalize(ctx, token)
	if err != nil {
		return domain.InfluencerProfile{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	identity, err := s.Provider.Exchange(ctx, code)
	if err != nil {
		log.Warn("identity exchange failed",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.InfluencerProfile{}, err
	}

	return s.finalize(ctx, inv, materializeVerified(inv, identity))
}

// SkipIdentity finalizes the invitation from self-reported form data instead
// of a provider exchange. The resulting profile is unverified.
func (s *OnboardingService) SkipIdentity(ctx context.Context, token string, form SelfReport) (domain.InfluencerProfile, error) {
	if form.Name == "" {
		return domain.InfluencerProfile{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if form.Followers < 0 {
		return domain.InfluencerProfile{}, fmt.Errorf("%w: followers must not be negative", ErrValidation)
	}

	inv, existing, err := s.resolveForFinalize(ctx, token)
	if err != nil {
		return domain.InfluencerProfile{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	return s.finalize(ctx, inv, materializeSelfReported(inv, form))
}

// finalize atomically creates the profile and consumes the invitation.
// Exactly-once under retries and races:
//   - the invitation id is the profile's idempotency key (unique column), so
//     a retry after a partial failure adopts the profile it created before
//   - consuming the invitation is a compare-and-set on pending status, so of
//     two concurrent finalizes exactly one commits; the loser rolls back and
//     returns the winner's profile
func (s *OnboardingService) finalize(
	ctx context.Context,
	inv domain.Invitation,
	draft domain.InfluencerProfile,
) (domain.InfluencerProfile, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, storeOpTimeout)
	defer cancel()

	var out domain.InfluencerProfile
	err := s.Store.WithTx(txCtx, func(tx store.Tx) error {
		existing, err := tx.Profiles().GetProfileBySourceInvitation(txCtx, inv.ID)
		switch {
		case err == nil:
			// A previous attempt created the profile but failed before the
			// invitation write landed. Adopt it.
			out = existing
		case errors.Is(err, store.ErrNotFound):
			if err := tx.Profiles().CreateProfile(txCtx, draft); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					return errLostFinalizeRace
				}
				return err
			}
			out = draft
		default:
			return err
		}

		applied, err := tx.Invitations().CompleteInvitation(txCtx, inv.ID, out.ID, now)
		if err != nil {
			return err
		}
		if !applied {
			return errLostFinalizeRace
		}
		return nil
	})

	if errors.Is(err, errLostFinalizeRace) {
		return s.winnerProfile(ctx, inv.ID)
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return domain.InfluencerProfile{}, fmt.Errorf("%w: finalize transaction", ErrStoreTimeout)
	}
	if err != nil {
		log.Error("failed to finalize invitation",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.InfluencerProfile{}, err
	}

	log.Info("invitation finalized",
		slog.String("invitation_id", inv.ID),
		slog.String("profile_id", out.ID),
		slog.Bool("verified", out.Verified),
	)

	if s.Notifier != nil {
		if err := s.Notifier.SendWelcome(ctx, out.Email, out.Name); err != nil {
			log.Warn("failed to send welcome email",
				slog.String("profile_id", out.ID),
				slog.Any("error", err),
			)
		}
	}

	return out, nil
}

// winnerProfile resolves the profile of whichever writer won the finalize
// race. If the invitation instead went revoked or expired, surface that.
func (s *OnboardingService) winnerProfile(ctx context.Context, invitationID string) (domain.InfluencerProfile, error) {
	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		return domain.InfluencerProfile{}, err
	}

	switch inv.Status {
	case domain.InvitationCompleted:
		p, err := s.Store.Profiles().GetProfileBySourceInvitation(ctx, invitationID)
		if err != nil {
			return domain.InfluencerProfile{}, err
		}
		return p, nil
	case domain.InvitationRevoked:
		return domain.InfluencerProfile{}, ErrInviteRevoked
	case domain.InvitationExpired:
		return domain.InfluencerProfile{}, ErrInviteExpired
	default:
		return domain.InfluencerProfile{}, ErrInvalidState
	}
}

// resolvePending resolves a token to its invitation and requires it to be
// pending and unexpired. Lazy expiry is reconciled here.
func (s *OnboardingService) resolvePending(ctx context.Context, token string) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		return domain.Invitation{}, fmt.Errorf("%w: token is required", ErrValidation)
	}

	fingerprint := cryptox.FingerprintToken(token)
	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrInviteNotFound
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return domain.Invitation{}, err
	}

	switch inv.Status {
	case domain.InvitationCompleted:
		return domain.Invitation{}, ErrInviteAlreadyUsed
	case domain.InvitationRevoked:
		return domain.Invitation{}, ErrInviteRevoked
	case domain.InvitationExpired:
		return domain.Invitation{}, ErrInviteExpired
	}

	if inv.ExpiredAt(time.Now().UTC()) {
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

// resolveForFinalize is resolvePending with one difference: a completed
// invitation is not an error but an idempotent success, returning the
// profile it already materialized. Retrying a finalize that already landed
// must converge, not fail.
func (s *OnboardingService) resolveForFinalize(
	ctx context.Context,
	token string,
) (domain.Invitation, *domain.InfluencerProfile, error) {
	inv, err := s.resolvePending(ctx, token)
	if err == nil {
		if inv.Step == domain.StepAwaitingConsent {
			return domain.Invitation{}, nil, ErrConsentRequired
		}
		return inv, nil, nil
	}
	if !errors.Is(err, ErrInviteAlreadyUsed) {
		return domain.Invitation{}, nil, err
	}

	// Completed: look up the profile it produced.
	fingerprint := cryptox.FingerprintToken(token)
	done, ferr := s.Store.Invitations().GetInvitationByTokenHash(ctx, fingerprint)
	if ferr != nil {
		return domain.Invitation{}, nil, ferr
	}
	p, ferr := s.Store.Profiles().GetProfileBySourceInvitation(ctx, done.ID)
	if ferr != nil {
		if errors.Is(ferr, store.ErrNotFound) {
			// Completed but no profile should not happen; the finalize write
			// is atomic. Report it as already used rather than inventing one.
			return domain.Invitation{}, nil, ErrInviteAlreadyUsed
		}
		return domain.Invitation{}, nil, ferr
	}
	return done, &p, nil
}
