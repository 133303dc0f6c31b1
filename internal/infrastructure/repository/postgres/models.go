package postgres

import (
	"database/sql"
	"time"
)

type tournamentTableModel struct {
	TournID        string         `db:"tourn_id"`
	Season         string         `db:"season"`
	Name           string         `db:"name"`
	StartDate      sql.NullString `db:"start_date"`
	EndDate        sql.NullString `db:"end_date"`
	Course         sql.NullString `db:"course"`
	Location       sql.NullString `db:"location"`
	Purse          sql.NullString `db:"purse"`
	Status         string         `db:"status"`
	CurrentRound   sql.NullInt64  `db:"current_round"`
	ExternalID     sql.NullString `db:"external_id"`
	ExternalSystem sql.NullString `db:"external_system"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type golferTableModel struct {
	GolferID       string         `db:"golfer_id"`
	Name           string         `db:"name"`
	Rank           sql.NullInt64  `db:"rank"`
	Country        sql.NullString `db:"country"`
	CountryCode    sql.NullString `db:"country_code"`
	AvatarURL      sql.NullString `db:"avatar_url"`
	Odds           sql.NullString `db:"odds"`
	Status         string         `db:"status"`
	ExternalID     sql.NullString `db:"external_id"`
	ExternalSystem sql.NullString `db:"external_system"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type fieldEntryTableModel struct {
	TournID   string    `db:"tourn_id"`
	Season    string    `db:"season"`
	GolferID  string    `db:"golfer_id"`
	Status    string    `db:"status"`
	UpdatedAt time.Time `db:"updated_at"`
}

type leaderboardEntryTableModel struct {
	TournID          string          `db:"tourn_id"`
	Season           string          `db:"season"`
	GolferID         string          `db:"golfer_id"`
	Position         int             `db:"position"`
	TotalScore       int             `db:"total_score"`
	Round1           sql.NullInt64   `db:"round1"`
	Round2           sql.NullInt64   `db:"round2"`
	Round3           sql.NullInt64   `db:"round3"`
	Round4           sql.NullInt64   `db:"round4"`
	Thru             sql.NullInt64   `db:"thru"`
	Today            sql.NullInt64   `db:"today"`
	Status           string          `db:"status"`
	RoundID          sql.NullInt64   `db:"round_id"`
	CutLine          sql.NullFloat64 `db:"cut_line"`
	TournamentStatus string          `db:"tournament_status"`
	LastUpdated      time.Time       `db:"last_updated"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func nullIntPtr(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func nullFloatPtr(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func intPtrFromNull(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}
