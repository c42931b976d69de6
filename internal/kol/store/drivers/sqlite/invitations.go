package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/openkol/kolboard/internal/kol/domain"
)

type invitationsRepo struct {
	db dbtx
}

const invitationColumns = `id, token_hash, email, invited_by, status, step,
	expires_at, consumed_at, profile_id, created_at, updated_at`

func scanInvitation(row interface{ Scan(...any) error }) (domain.Invitation, error) {
	var (
		inv        domain.Invitation
		consumedAt sql.NullTime
		profileID  sql.NullString
	)
	err := row.Scan(
		&inv.ID,
		&inv.TokenHash,
		&inv.Email,
		&inv.InvitedBy,
		&inv.Status,
		&inv.Step,
		&inv.ExpiresAt,
		&consumedAt,
		&profileID,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invitation{}, err
	}
	inv.ConsumedAt = mapNullTimePtr(consumedAt)
	inv.ProfileID = mapNullString(profileID)
	return inv, nil
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invitations (id, token_hash, email, invited_by, status, step, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		inv.TokenHash,
		inv.Email,
		inv.InvitedBy,
		inv.Status,
		inv.Step,
		inv.ExpiresAt,
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)

	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE token_hash = ?`, hash)

	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetActiveInvitationByEmail(
	ctx context.Context,
	email string,
	now time.Time,
) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		 WHERE email = ? AND status = ? AND expires_at > ?`,
		email, domain.InvitationPending, now)

	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) ListInvitations(ctx context.Context) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) AdvanceStep(
	ctx context.Context,
	id string,
	from, to domain.OnboardingStep,
) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET step = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND step = ? AND status = ?`,
		to, id, from, domain.InvitationPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *invitationsRepo) UpdateStatusIf(
	ctx context.Context,
	id string,
	from, to domain.InvitationStatus,
) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?`,
		to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *invitationsRepo) CompleteInvitation(
	ctx context.Context,
	id, profileID string,
	consumedAt time.Time,
) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET status = ?, step = ?, consumed_at = ?, profile_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?`,
		domain.InvitationCompleted, domain.StepFinalized, consumedAt, mapStringNull(profileID),
		id, domain.InvitationPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *invitationsRepo) MarkExpired(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET status = ?, step = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?`,
		domain.InvitationExpired, domain.StepAbandoned, id, domain.InvitationPending)
	return err
}

func (r *invitationsRepo) ExpireOverdueInvitations(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET status = ?, step = ?, updated_at = CURRENT_TIMESTAMP
		WHERE status = ? AND expires_at < ?`,
		domain.InvitationExpired, domain.StepAbandoned, domain.InvitationPending, now)
	return err
}

func (r *invitationsRepo) ExpireOverdueInvitationsByEmail(ctx context.Context, email string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET status = ?, step = ?, updated_at = CURRENT_TIMESTAMP
		WHERE email = ? AND status = ? AND expires_at < ?`,
		domain.InvitationExpired, domain.StepAbandoned, email, domain.InvitationPending, now)
	return err
}
