package usecase

import (
	"context"
	"fmt"

	"github.com/fairwaylabs/golfdata/internal/domain/golf"
	"github.com/fairwaylabs/golfdata/internal/platform/logging"
)

// TournamentWriter persists normalized tournaments.
type TournamentWriter interface {
	UpsertBatch(ctx context.Context, season string, tournaments []golf.Tournament) error
	Upsert(ctx context.Context, season string, tournament golf.Tournament) error
}

// GolferWriter persists golfers and their tournament membership.
type GolferWriter interface {
	UpsertField(ctx context.Context, tournamentID, season string, golfers []golf.Golfer) error
}

// LeaderboardWriter swaps a tournament's stored board for a fresh one.
type LeaderboardWriter interface {
	Replace(ctx context.Context, season string, board golf.Leaderboard) error
}

// SyncService pulls normalized data through the orchestrator and persists it.
// Each sync is all-or-nothing per entity type: a fetch failure writes nothing,
// and the repositories write transactionally, so repeated invocations are
// safe.
type SyncService struct {
	data            *GolfDataService
	tournamentRepo  TournamentWriter
	golferRepo      GolferWriter
	leaderboardRepo LeaderboardWriter
	logger          *logging.Logger
}

func NewSyncService(
	data *GolfDataService,
	tournamentRepo TournamentWriter,
	golferRepo GolferWriter,
	leaderboardRepo LeaderboardWriter,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncService{
		data:            data,
		tournamentRepo:  tournamentRepo,
		golferRepo:      golferRepo,
		leaderboardRepo: leaderboardRepo,
		logger:          logger,
	}
}

// SyncTournaments refreshes the season calendar. Returns how many tournaments
// were written.
func (s *SyncService) SyncTournaments(ctx context.Context, year string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTournaments")
	defer span.End()

	if s.tournamentRepo == nil {
		return 0, fmt.Errorf("%w: tournament storage is not configured", ErrDependencyUnavailable)
	}

	schedule, err := s.data.GetTournamentSchedule(ctx, year)
	if err != nil {
		return 0, fmt.Errorf("sync tournaments year=%s: %w", year, err)
	}
	if err := s.tournamentRepo.UpsertBatch(ctx, schedule.Season, schedule.Tournaments); err != nil {
		return 0, fmt.Errorf("persist tournaments year=%s: %w", year, err)
	}

	s.logger.InfoContext(ctx, "tournaments synced", "year", year, "count", len(schedule.Tournaments))
	return len(schedule.Tournaments), nil
}

// SyncTournamentDetails refreshes one tournament row, picking up status and
// current-round changes between full calendar syncs.
func (s *SyncService) SyncTournamentDetails(ctx context.Context, tournamentID, year string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTournamentDetails")
	defer span.End()

	if s.tournamentRepo == nil {
		return fmt.Errorf("%w: tournament storage is not configured", ErrDependencyUnavailable)
	}

	tournament, err := s.data.GetTournamentDetails(ctx, tournamentID, year)
	if err != nil {
		return fmt.Errorf("sync tournament tourn_id=%s year=%s: %w", tournamentID, year, err)
	}
	if err := s.tournamentRepo.Upsert(ctx, year, tournament); err != nil {
		return fmt.Errorf("persist tournament tourn_id=%s: %w", tournamentID, err)
	}

	s.logger.InfoContext(ctx, "tournament synced", "tourn_id", tournamentID, "year", year, "status", tournament.Status)
	return nil
}

// SyncGolfers refreshes a tournament's field. Returns how many golfers were
// written.
func (s *SyncService) SyncGolfers(ctx context.Context, tournamentID, year string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncGolfers")
	defer span.End()

	if s.golferRepo == nil {
		return 0, fmt.Errorf("%w: golfer storage is not configured", ErrDependencyUnavailable)
	}

	golfers, err := s.data.GetGolferList(ctx, tournamentID, year)
	if err != nil {
		return 0, fmt.Errorf("sync golfers tourn_id=%s year=%s: %w", tournamentID, year, err)
	}
	if err := s.golferRepo.UpsertField(ctx, tournamentID, year, golfers); err != nil {
		return 0, fmt.Errorf("persist golfers tourn_id=%s: %w", tournamentID, err)
	}

	s.logger.InfoContext(ctx, "golfers synced", "tourn_id", tournamentID, "year", year, "count", len(golfers))
	return len(golfers), nil
}

// SyncLeaderboard evicts the cached board first so a live poll always reaches
// the providers, then swaps the stored board. Returns the row count.
func (s *SyncService) SyncLeaderboard(ctx context.Context, tournamentID, year string, round int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncLeaderboard")
	defer span.End()

	if s.leaderboardRepo == nil {
		return 0, fmt.Errorf("%w: leaderboard storage is not configured", ErrDependencyUnavailable)
	}

	board, err := s.data.RefreshLeaderboard(ctx, tournamentID, year, round)
	if err != nil {
		return 0, fmt.Errorf("sync leaderboard tourn_id=%s year=%s round=%d: %w", tournamentID, year, round, err)
	}
	if err := s.leaderboardRepo.Replace(ctx, year, board); err != nil {
		return 0, fmt.Errorf("persist leaderboard tourn_id=%s: %w", tournamentID, err)
	}

	s.logger.InfoContext(ctx, "leaderboard synced",
		"tourn_id", tournamentID,
		"year", year,
		"round", round,
		"players", len(board.Players),
	)
	return len(board.Players), nil
}
