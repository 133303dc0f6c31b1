package usecase

import (
	"context"

	"github.com/fairwaylabs/golfdata/internal/domain/golf"
)

// CurrentRound selects the in-progress round when passed as the round
// argument of GetLeaderboard.
const CurrentRound = 0

// GolfDataProvider is one upstream sports-data API normalized behind a common
// capability set. Implementations live under external/ and own nothing but
// their credentials and a health flag.
//
// Health contract: any transport-level or non-2xx failure flips the provider
// unhealthy as a side effect of the failing call. The flag is never reset by
// the provider itself; only a subsequent CheckHealth success restores it.
// Calls must not retry internally; the service's fallback chain is the retry.
type GolfDataProvider interface {
	Name() string
	Healthy() bool

	GetTournamentSchedule(ctx context.Context, year string) (golf.Schedule, error)
	GetTournamentDetails(ctx context.Context, tournamentID, year string) (golf.Tournament, error)
	GetGolferList(ctx context.Context, tournamentID, year string) ([]golf.Golfer, error)
	GetGolferDetails(ctx context.Context, golferID string) (golf.Golfer, error)
	GetLeaderboard(ctx context.Context, tournamentID, year string, round int) (golf.Leaderboard, error)

	// CheckHealth probes the upstream with a minimal call and records the
	// outcome on the health flag. It never returns an error.
	CheckHealth(ctx context.Context) bool
}
