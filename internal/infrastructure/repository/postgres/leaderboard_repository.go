package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fairwaylabs/golfdata/internal/domain/golf"
)

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

const upsertLeaderboardEntryQuery = `
INSERT INTO leaderboard_entries (
    tourn_id, season, golfer_id, position, total_score,
    round1, round2, round3, round4, thru, today, status,
    round_id, cut_line, tournament_status, last_updated, updated_at
) VALUES (
    :tourn_id, :season, :golfer_id, :position, :total_score,
    :round1, :round2, :round3, :round4, :thru, :today, :status,
    :round_id, :cut_line, :tournament_status, :last_updated, :updated_at
)
ON CONFLICT (tourn_id, season, golfer_id)
DO UPDATE SET
    position = EXCLUDED.position,
    total_score = EXCLUDED.total_score,
    round1 = EXCLUDED.round1,
    round2 = EXCLUDED.round2,
    round3 = EXCLUDED.round3,
    round4 = EXCLUDED.round4,
    thru = EXCLUDED.thru,
    today = EXCLUDED.today,
    status = EXCLUDED.status,
    round_id = EXCLUDED.round_id,
    cut_line = EXCLUDED.cut_line,
    tournament_status = EXCLUDED.tournament_status,
    last_updated = EXCLUDED.last_updated,
    updated_at = EXCLUDED.updated_at`

// Replace writes the whole board in one transaction: stale rows for golfers
// no longer on the board are removed, current rows are upserted. A failed
// write leaves the previous board intact.
func (r *LeaderboardRepository) Replace(ctx context.Context, season string, board golf.Leaderboard) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace leaderboard: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM leaderboard_entries WHERE tourn_id = $1 AND season = $2`,
		board.TournamentID, season,
	); err != nil {
		return fmt.Errorf("clear leaderboard tourn_id=%s: %w", board.TournamentID, err)
	}

	now := time.Now().UTC()
	lastUpdated := board.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = now
	}

	for _, entry := range board.Players {
		row := leaderboardEntryTableModel{
			TournID:          board.TournamentID,
			Season:           season,
			GolferID:         entry.GolferID,
			Position:         entry.Position,
			TotalScore:       entry.Score,
			Round1:           nullIntPtr(entry.Round1),
			Round2:           nullIntPtr(entry.Round2),
			Round3:           nullIntPtr(entry.Round3),
			Round4:           nullIntPtr(entry.Round4),
			Thru:             nullIntPtr(entry.Thru),
			Today:            nullIntPtr(entry.Today),
			Status:           string(entry.Status),
			RoundID:          nullIntPtr(board.RoundID),
			CutLine:          nullFloatPtr(board.CutLine),
			TournamentStatus: string(board.Status),
			LastUpdated:      lastUpdated,
			UpdatedAt:        now,
		}
		if _, err := tx.NamedExecContext(ctx, upsertLeaderboardEntryQuery, row); err != nil {
			return fmt.Errorf("upsert leaderboard entry golfer_id=%s: %w", entry.GolferID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace leaderboard tx: %w", err)
	}
	return nil
}

// Get rebuilds the stored board in position order.
func (r *LeaderboardRepository) Get(ctx context.Context, tournamentID, season string) (golf.Leaderboard, bool, error) {
	const query = `
SELECT tourn_id, season, golfer_id, position, total_score,
       round1, round2, round3, round4, thru, today, status,
       round_id, cut_line, tournament_status, last_updated, updated_at
FROM leaderboard_entries
WHERE tourn_id = $1 AND season = $2
ORDER BY position, golfer_id`

	var rows []leaderboardEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, tournamentID, season); err != nil {
		return golf.Leaderboard{}, false, fmt.Errorf("select leaderboard tourn_id=%s: %w", tournamentID, err)
	}
	if len(rows) == 0 {
		return golf.Leaderboard{}, false, nil
	}

	out := golf.Leaderboard{
		TournamentID: tournamentID,
		RoundID:      intPtrFromNull(rows[0].RoundID),
		LastUpdated:  rows[0].LastUpdated,
		Status:       golf.TournamentStatus(rows[0].TournamentStatus),
		Players:      make([]golf.LeaderboardEntry, 0, len(rows)),
	}
	if rows[0].CutLine.Valid {
		cut := rows[0].CutLine.Float64
		out.CutLine = &cut
	}

	for _, row := range rows {
		out.Players = append(out.Players, golf.LeaderboardEntry{
			GolferID: row.GolferID,
			Position: row.Position,
			Score:    row.TotalScore,
			Round1:   intPtrFromNull(row.Round1),
			Round2:   intPtrFromNull(row.Round2),
			Round3:   intPtrFromNull(row.Round3),
			Round4:   intPtrFromNull(row.Round4),
			Thru:     intPtrFromNull(row.Thru),
			Today:    intPtrFromNull(row.Today),
			Status:   golf.GolferStatus(row.Status),
		})
	}
	return out, true, nil
}
