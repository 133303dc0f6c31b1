package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fairwaylabs/golfdata/internal/domain/golf"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

const upsertTournamentQuery = `
INSERT INTO tournaments (
    tourn_id, season, name, start_date, end_date, course, location, purse,
    status, current_round, external_id, external_system, updated_at
) VALUES (
    :tourn_id, :season, :name, :start_date, :end_date, :course, :location, :purse,
    :status, :current_round, :external_id, :external_system, :updated_at
)
ON CONFLICT (tourn_id, season)
DO UPDATE SET
    name = EXCLUDED.name,
    start_date = EXCLUDED.start_date,
    end_date = EXCLUDED.end_date,
    course = EXCLUDED.course,
    location = EXCLUDED.location,
    purse = EXCLUDED.purse,
    status = EXCLUDED.status,
    current_round = EXCLUDED.current_round,
    external_id = EXCLUDED.external_id,
    external_system = EXCLUDED.external_system,
    updated_at = EXCLUDED.updated_at`

// UpsertBatch writes every tournament in one transaction, so a partial batch
// never becomes visible.
func (r *TournamentRepository) UpsertBatch(ctx context.Context, season string, tournaments []golf.Tournament) error {
	if len(tournaments) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert tournaments: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	for _, item := range tournaments {
		row := tournamentTableModel{
			TournID:        item.ID,
			Season:         season,
			Name:           item.Name,
			StartDate:      nullString(item.StartDate),
			EndDate:        nullString(item.EndDate),
			Course:         nullString(item.Course),
			Location:       nullString(item.Location),
			Purse:          nullString(item.Purse),
			Status:         string(item.Status),
			CurrentRound:   nullIntPtr(item.CurrentRound),
			ExternalID:     nullString(item.ExternalID),
			ExternalSystem: nullString(item.ExternalSystem),
			UpdatedAt:      now,
		}
		if _, err := tx.NamedExecContext(ctx, upsertTournamentQuery, row); err != nil {
			return fmt.Errorf("upsert tournament tourn_id=%s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert tournaments tx: %w", err)
	}
	return nil
}

func (r *TournamentRepository) Upsert(ctx context.Context, season string, tournament golf.Tournament) error {
	return r.UpsertBatch(ctx, season, []golf.Tournament{tournament})
}

// ListBySeason returns the stored calendar ordered by start date; the
// scheduler walks it to decide which tournaments are due for a sync.
func (r *TournamentRepository) ListBySeason(ctx context.Context, season string) ([]golf.Tournament, error) {
	const query = `
SELECT tourn_id, season, name, start_date, end_date, course, location, purse,
       status, current_round, external_id, external_system, updated_at
FROM tournaments
WHERE season = $1
ORDER BY start_date, tourn_id`

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, season); err != nil {
		return nil, fmt.Errorf("select tournaments season=%s: %w", season, err)
	}

	out := make([]golf.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournamentFromRow(row))
	}
	return out, nil
}

func (r *TournamentRepository) Get(ctx context.Context, tournamentID, season string) (golf.Tournament, bool, error) {
	const query = `
SELECT tourn_id, season, name, start_date, end_date, course, location, purse,
       status, current_round, external_id, external_system, updated_at
FROM tournaments
WHERE tourn_id = $1 AND season = $2`

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, tournamentID, season); err != nil {
		if isNotFound(err) {
			return golf.Tournament{}, false, nil
		}
		return golf.Tournament{}, false, fmt.Errorf("select tournament tourn_id=%s: %w", tournamentID, err)
	}
	return tournamentFromRow(row), true, nil
}

func tournamentFromRow(row tournamentTableModel) golf.Tournament {
	return golf.Tournament{
		ID:             row.TournID,
		Name:           row.Name,
		StartDate:      row.StartDate.String,
		EndDate:        row.EndDate.String,
		Course:         row.Course.String,
		Location:       row.Location.String,
		Purse:          row.Purse.String,
		Status:         golf.TournamentStatus(row.Status),
		CurrentRound:   intPtrFromNull(row.CurrentRound),
		ExternalID:     row.ExternalID.String,
		ExternalSystem: row.ExternalSystem.String,
	}
}
