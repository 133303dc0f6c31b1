package schedule

import (
	"time"

	"github.com/fairwaylabs/golfdata/internal/domain/golf"
)

// DataCategory names one of the sync feeds the scheduler drives.
type DataCategory string

const (
	CategoryPlayers     DataCategory = "players"
	CategoryTournaments DataCategory = "tournaments"
	CategoryLeaderboard DataCategory = "leaderboard"
	CategoryScorecards  DataCategory = "scorecards"
)

// Categories in stable scheduling order.
func Categories() []DataCategory {
	return []DataCategory{
		CategoryPlayers,
		CategoryTournaments,
		CategoryLeaderboard,
		CategoryScorecards,
	}
}

// UpdateRule is one cell of the refresh policy. Interval 0 means the category
// is not refreshed in that state; FinalUpdate marks the single post-completion
// sync that freezes final results.
type UpdateRule struct {
	Interval    time.Duration
	FinalUpdate bool
}

// policy maps (data category, tournament status) to a refresh rule. The table
// is the system's whole temporal model: the scheduler only ever asks it
// "how often" and owns the "when".
var policy = map[DataCategory]map[golf.TournamentStatus]UpdateRule{
	CategoryPlayers: {
		golf.TournamentUpcoming:   {Interval: 24 * time.Hour},
		golf.TournamentInProgress: {Interval: 24 * time.Hour},
		golf.TournamentCompleted:  {},
		golf.TournamentCanceled:   {},
	},
	CategoryTournaments: {
		golf.TournamentUpcoming:   {Interval: 7 * 24 * time.Hour},
		golf.TournamentInProgress: {Interval: 24 * time.Hour},
		golf.TournamentCompleted:  {},
		golf.TournamentCanceled:   {},
	},
	CategoryLeaderboard: {
		golf.TournamentUpcoming:   {Interval: 24 * time.Hour},
		golf.TournamentInProgress: {Interval: 5 * time.Minute},
		golf.TournamentCompleted:  {FinalUpdate: true},
		golf.TournamentCanceled:   {},
	},
	CategoryScorecards: {
		golf.TournamentUpcoming:   {},
		golf.TournamentInProgress: {Interval: 5 * time.Minute},
		golf.TournamentCompleted:  {FinalUpdate: true},
		golf.TournamentCanceled:   {},
	},
}

// RuleFor answers "how often should category refresh while the tournament is
// in status". Unknown combinations yield the zero rule (never refresh).
func RuleFor(category DataCategory, status golf.TournamentStatus) UpdateRule {
	rules, ok := policy[category]
	if !ok {
		return UpdateRule{}
	}
	return rules[status]
}

// Due reports whether a sync for the rule is owed given the time of the last
// successful run. A FinalUpdate rule is due exactly once: when no run has
// happened since the tournament reached its final state (lastRun zero).
func (r UpdateRule) Due(lastRun time.Time, now time.Time) bool {
	if r.FinalUpdate {
		return lastRun.IsZero()
	}
	if r.Interval <= 0 {
		return false
	}
	return lastRun.IsZero() || now.Sub(lastRun) >= r.Interval
}
