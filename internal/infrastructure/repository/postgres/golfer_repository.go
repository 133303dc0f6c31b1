package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fairwaylabs/golfdata/internal/domain/golf"
)

type GolferRepository struct {
	db *sqlx.DB
}

func NewGolferRepository(db *sqlx.DB) *GolferRepository {
	return &GolferRepository{db: db}
}

const upsertGolferQuery = `
INSERT INTO golfers (
    golfer_id, name, rank, country, country_code, avatar_url, odds,
    status, external_id, external_system, updated_at
) VALUES (
    :golfer_id, :name, :rank, :country, :country_code, :avatar_url, :odds,
    :status, :external_id, :external_system, :updated_at
)
ON CONFLICT (golfer_id)
DO UPDATE SET
    name = EXCLUDED.name,
    rank = EXCLUDED.rank,
    country = EXCLUDED.country,
    country_code = EXCLUDED.country_code,
    avatar_url = EXCLUDED.avatar_url,
    odds = EXCLUDED.odds,
    status = EXCLUDED.status,
    external_id = EXCLUDED.external_id,
    external_system = EXCLUDED.external_system,
    updated_at = EXCLUDED.updated_at`

const upsertFieldEntryQuery = `
INSERT INTO tournament_golfers (tourn_id, season, golfer_id, status, updated_at)
VALUES (:tourn_id, :season, :golfer_id, :status, :updated_at)
ON CONFLICT (tourn_id, season, golfer_id)
DO UPDATE SET
    status = EXCLUDED.status,
    updated_at = EXCLUDED.updated_at`

// UpsertField stores the golfers and their tournament membership in one
// transaction.
func (r *GolferRepository) UpsertField(ctx context.Context, tournamentID, season string, golfers []golf.Golfer) error {
	if len(golfers) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert golfers: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	for _, item := range golfers {
		row := golferTableModel{
			GolferID:       item.ID,
			Name:           item.Name,
			Rank:           nullIntPtr(item.Rank),
			Country:        nullString(item.Country),
			CountryCode:    nullString(item.CountryCode),
			AvatarURL:      nullString(item.AvatarURL),
			Odds:           nullString(item.Odds),
			Status:         string(item.Status),
			ExternalID:     nullString(item.ExternalID),
			ExternalSystem: nullString(item.ExternalSystem),
			UpdatedAt:      now,
		}
		if _, err := tx.NamedExecContext(ctx, upsertGolferQuery, row); err != nil {
			return fmt.Errorf("upsert golfer golfer_id=%s: %w", item.ID, err)
		}

		entry := fieldEntryTableModel{
			TournID:   tournamentID,
			Season:    season,
			GolferID:  item.ID,
			Status:    string(item.Status),
			UpdatedAt: now,
		}
		if _, err := tx.NamedExecContext(ctx, upsertFieldEntryQuery, entry); err != nil {
			return fmt.Errorf("upsert field entry golfer_id=%s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert golfers tx: %w", err)
	}
	return nil
}

func (r *GolferRepository) Upsert(ctx context.Context, golfer golf.Golfer) error {
	row := golferTableModel{
		GolferID:       golfer.ID,
		Name:           golfer.Name,
		Rank:           nullIntPtr(golfer.Rank),
		Country:        nullString(golfer.Country),
		CountryCode:    nullString(golfer.CountryCode),
		AvatarURL:      nullString(golfer.AvatarURL),
		Odds:           nullString(golfer.Odds),
		Status:         string(golfer.Status),
		ExternalID:     nullString(golfer.ExternalID),
		ExternalSystem: nullString(golfer.ExternalSystem),
		UpdatedAt:      time.Now().UTC(),
	}
	if _, err := r.db.NamedExecContext(ctx, upsertGolferQuery, row); err != nil {
		return fmt.Errorf("upsert golfer golfer_id=%s: %w", golfer.ID, err)
	}
	return nil
}

func (r *GolferRepository) Get(ctx context.Context, golferID string) (golf.Golfer, bool, error) {
	const query = `
SELECT golfer_id, name, rank, country, country_code, avatar_url, odds,
       status, external_id, external_system, updated_at
FROM golfers
WHERE golfer_id = $1`

	var row golferTableModel
	if err := r.db.GetContext(ctx, &row, query, golferID); err != nil {
		if isNotFound(err) {
			return golf.Golfer{}, false, nil
		}
		return golf.Golfer{}, false, fmt.Errorf("select golfer golfer_id=%s: %w", golferID, err)
	}

	return golf.Golfer{
		ID:             row.GolferID,
		Name:           row.Name,
		Rank:           intPtrFromNull(row.Rank),
		Country:        row.Country.String,
		CountryCode:    row.CountryCode.String,
		AvatarURL:      row.AvatarURL.String,
		Odds:           row.Odds.String,
		Status:         golf.GolferStatus(row.Status),
		ExternalID:     row.ExternalID.String,
		ExternalSystem: row.ExternalSystem.String,
	}, true, nil
}
