package sqlite

import (
	"context"
	"database/sql"

	"github.com/openkol/kolboard/internal/kol/domain"
	"github.com/openkol/kolboard/internal/kol/store"
)

type campaignsRepo struct {
	db dbtx
}

const campaignColumns = `id, title, description, budget, start_date, end_date,
	status, profile_id, owner_id, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (domain.Campaign, error) {
	var (
		c         domain.Campaign
		start     sql.NullTime
		end       sql.NullTime
		profileID sql.NullString
	)
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Budget,
		&start,
		&end,
		&c.Status,
		&profileID,
		&c.OwnerID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return domain.Campaign{}, err
	}
	c.StartDate = mapNullTimePtr(start)
	c.EndDate = mapNullTimePtr(end)
	c.ProfileID = mapNullString(profileID)
	return c, nil
}

func (r *campaignsRepo) CreateCampaign(ctx context.Context, c domain.Campaign) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns (id, title, description, budget, start_date,
			end_date, status, profile_id, owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.Title,
		c.Description,
		c.Budget,
		mapOptionalTime(c.StartDate),
		mapOptionalTime(c.EndDate),
		c.Status,
		mapStringNull(c.ProfileID),
		c.OwnerID,
	)
	return mapConstraint(err)
}

func (r *campaignsRepo) GetCampaignByID(ctx context.Context, id string) (domain.Campaign, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`, id)

	c, err := scanCampaign(row)
	if err != nil {
		return domain.Campaign{}, mapNotFound(err)
	}
	return c, nil
}

func (r *campaignsRepo) ListCampaignsByOwner(ctx context.Context, ownerID string) ([]domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE owner_id = ? ORDER BY created_at DESC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *campaignsRepo) UpdateCampaign(ctx context.Context, c domain.Campaign) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaigns
		SET title = ?, description = ?, budget = ?, start_date = ?, end_date = ?,
			status = ?, profile_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		c.Title,
		c.Description,
		c.Budget,
		mapOptionalTime(c.StartDate),
		mapOptionalTime(c.EndDate),
		c.Status,
		mapStringNull(c.ProfileID),
		c.ID,
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

func (r *campaignsRepo) DeleteCampaign(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = ?`, id)
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

func (r *campaignsRepo) CountCampaignsByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM campaigns WHERE owner_id = ?`, ownerID).Scan(&n)
	return n, err
}

func (r *campaignsRepo) CountCampaignsByOwnerAndStatus(
	ctx context.Context,
	ownerID string,
	status domain.CampaignStatus,
) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM campaigns WHERE owner_id = ? AND status = ?`,
		ownerID, status).Scan(&n)
	return n, err
}
