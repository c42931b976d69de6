package sqlite

import (
	"context"
	"database/sql"

	"github.com/openkol/kolboard/internal/kol/domain"
	"github.com/openkol/kolboard/internal/kol/store"
)

type profilesRepo struct {
	db dbtx
}

const profileColumns = `id, name, email, category, platform, followers,
	engagement_rate, price_per_post, verified, bio, avatar_url,
	source_invitation_id, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (domain.InfluencerProfile, error) {
	var (
		p      domain.InfluencerProfile
		source sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Category,
		&p.Platform,
		&p.Followers,
		&p.EngagementRate,
		&p.PricePerPost,
		&p.Verified,
		&p.Bio,
		&p.AvatarURL,
		&source,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.InfluencerProfile{}, err
	}
	p.SourceInvitationID = mapNullString(source)
	return p, nil
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.InfluencerProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, email, category, platform, followers,
			engagement_rate, price_per_post, verified, bio, avatar_url,
			source_invitation_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Name,
		p.Email,
		p.Category,
		p.Platform,
		p.Followers,
		p.EngagementRate,
		p.PricePerPost,
		p.Verified,
		p.Bio,
		p.AvatarURL,
		mapStringNull(p.SourceInvitationID),
	)
	return mapConstraint(err)
}

func (r *profilesRepo) GetProfileByID(ctx context.Context, id string) (domain.InfluencerProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)

	p, err := scanProfile(row)
	if err != nil {
		return domain.InfluencerProfile{}, mapNotFound(err)
	}
	return p, nil
}

func (r *profilesRepo) GetProfileBySourceInvitation(
	ctx context.Context,
	invitationID string,
) (domain.InfluencerProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE source_invitation_id = ?`, invitationID)

	p, err := scanProfile(row)
	if err != nil {
		return domain.InfluencerProfile{}, mapNotFound(err)
	}
	return p, nil
}

func (r *profilesRepo) ListProfiles(
	ctx context.Context,
	f store.ProfileFilter,
) ([]domain.InfluencerProfile, error) {
	// Filters are optional; each zero value disables its clause.
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE 1=1`
	var args []any
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Platform != "" {
		query += ` AND platform = ?`
		args = append(args, f.Platform)
	}
	if f.MinFollowers > 0 {
		query += ` AND followers >= ?`
		args = append(args, f.MinFollowers)
	}
	if f.MaxPrice > 0 {
		query += ` AND price_per_post <= ?`
		args = append(args, f.MaxPrice)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.InfluencerProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *profilesRepo) UpdateProfile(ctx context.Context, p domain.InfluencerProfile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET name = ?, email = ?, category = ?, platform = ?, followers = ?,
			engagement_rate = ?, price_per_post = ?, verified = ?, bio = ?,
			avatar_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.Name,
		p.Email,
		p.Category,
		p.Platform,
		p.Followers,
		p.EngagementRate,
		p.PricePerPost,
		p.Verified,
		p.Bio,
		p.AvatarURL,
		p.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *profilesRepo) DeleteProfile(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *profilesRepo) CountProfiles(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n)
	return n, err
}
