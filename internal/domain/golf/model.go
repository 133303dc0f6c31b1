package golf

import "time"

// TournamentStatus is the lifecycle state of a tournament as exposed to
// consumers, regardless of which provider supplied the data.
type TournamentStatus string

const (
	TournamentUpcoming   TournamentStatus = "upcoming"
	TournamentInProgress TournamentStatus = "in_progress"
	TournamentCompleted  TournamentStatus = "completed"
	TournamentCanceled   TournamentStatus = "canceled"
)

// GolferStatus is a golfer's standing within a tournament.
type GolferStatus string

const (
	GolferActive       GolferStatus = "active"
	GolferCut          GolferStatus = "cut"
	GolferWithdrawn    GolferStatus = "wd"
	GolferDisqualified GolferStatus = "dq"
)

// Tournament is the provider-agnostic tournament shape.
type Tournament struct {
	ID             string
	Name           string
	StartDate      string
	EndDate        string
	Course         string
	Location       string
	Purse          string
	Status         TournamentStatus
	CurrentRound   *int
	ExternalID     string
	ExternalSystem string
}

// Golfer is the provider-agnostic player shape. Name is never empty; mappers
// fall back to a placeholder derived from the id.
type Golfer struct {
	ID             string
	Name           string
	Rank           *int
	Country        string
	CountryCode    string
	AvatarURL      string
	Odds           string
	Status         GolferStatus
	ExternalID     string
	ExternalSystem string
}

// LeaderboardEntry is one row of a tournament leaderboard. Score and the
// per-round values are strokes relative to par.
type LeaderboardEntry struct {
	GolferID string
	Position int
	Score    int
	Round1   *int
	Round2   *int
	Round3   *int
	Round4   *int
	Thru     *int
	Today    *int
	Status   GolferStatus
}

// Leaderboard preserves provider row ordering; ranking is carried only by
// each entry's Position.
type Leaderboard struct {
	TournamentID string
	RoundID      *int
	LastUpdated  time.Time
	CutLine      *float64
	Status       TournamentStatus
	Players      []LeaderboardEntry
}

// Schedule is a season's tournament calendar.
type Schedule struct {
	Season      string
	Tournaments []Tournament
}

// ScorecardHole is one hole of a golfer's round. Only SlashGolf feeds this.
type ScorecardHole struct {
	Hole   int
	Par    *int
	Score  *int
	Status string
}

// Scorecard is a golfer's per-hole detail for one round.
type Scorecard struct {
	TournamentID string
	GolferID     string
	RoundID      *int
	Holes        []ScorecardHole
}
