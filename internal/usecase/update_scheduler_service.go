package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fairwaylabs/golfdata/internal/domain/golf"
	"github.com/fairwaylabs/golfdata/internal/domain/schedule"
	"github.com/fairwaylabs/golfdata/internal/platform/logging"
)

// SyncTrigger fires one internal sync route. external/syncjob implements it.
type SyncTrigger interface {
	Trigger(ctx context.Context, path string, params map[string]string) error
}

// TournamentLister supplies the stored season calendar the scheduler walks.
type TournamentLister interface {
	ListBySeason(ctx context.Context, season string) ([]golf.Tournament, error)
}

const (
	schedulerStatusSuccess = "success"
	schedulerStatusFailed  = "failed"
	schedulerStatusSkipped = "skipped"
)

type SchedulerTaskResult struct {
	TournID    string `json:"tourn_id"`
	Category   string `json:"category"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

type SchedulerRunResult struct {
	TournamentCount int                   `json:"tournament_count"`
	TaskCount       int                   `json:"task_count"`
	SuccessCount    int                   `json:"success_count"`
	FailedCount     int                   `json:"failed_count"`
	SkippedCount    int                   `json:"skipped_count"`
	Tasks           []SchedulerTaskResult `json:"tasks"`
}

type UpdateSchedulerConfig struct {
	Season     string
	MaxWorkers int
}

// runKey includes the tournament status so the last-run clock restarts when a
// tournament changes state. That is what makes a FinalUpdate rule fire exactly
// once after completion even when the in-progress feed ran minutes earlier.
type runKey struct {
	tournID  string
	category schedule.DataCategory
	status   golf.TournamentStatus
}

type schedulerTask struct {
	tournID  string
	season   string
	category schedule.DataCategory
	status   golf.TournamentStatus
}

// UpdateSchedulerService turns the policy table into sync-route invocations.
// It owns "when"; the table owns "how often". Last-run state is process-local:
// a restart re-runs at most one final update per tournament, which the
// idempotent sync routes absorb.
type UpdateSchedulerService struct {
	tournaments TournamentLister
	trigger     SyncTrigger
	cfg         UpdateSchedulerConfig
	logger      *logging.Logger

	mu      sync.Mutex
	lastRun map[runKey]time.Time

	now func() time.Time
}

func NewUpdateSchedulerService(
	tournaments TournamentLister,
	trigger SyncTrigger,
	cfg UpdateSchedulerConfig,
	logger *logging.Logger,
) *UpdateSchedulerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &UpdateSchedulerService{
		tournaments: tournaments,
		trigger:     trigger,
		cfg:         cfg,
		logger:      logger,
		lastRun:     make(map[runKey]time.Time),
		now:         time.Now,
	}
}

// RunOnce evaluates every (tournament, category) cell and fires the due sync
// routes through a bounded worker pool. One tick; the caller owns the loop.
func (s *UpdateSchedulerService) RunOnce(ctx context.Context) (SchedulerRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UpdateSchedulerService.RunOnce")
	defer span.End()

	if s.tournaments == nil || s.trigger == nil {
		return SchedulerRunResult{}, fmt.Errorf("%w: scheduler is not fully configured", ErrDependencyUnavailable)
	}

	tournaments, err := s.tournaments.ListBySeason(ctx, s.cfg.Season)
	if err != nil {
		return SchedulerRunResult{}, fmt.Errorf("list tournaments season=%s: %w", s.cfg.Season, err)
	}

	now := s.now().UTC()
	tasks := s.collectDueTasks(tournaments, now)

	result := SchedulerRunResult{
		TournamentCount: len(tournaments),
		TaskCount:       len(tasks),
		Tasks:           make([]SchedulerTaskResult, 0, len(tasks)),
	}
	if len(tasks) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(normalizeSchedulerWorkerCount(s.cfg.MaxWorkers, len(tasks)))
	if err != nil {
		return SchedulerRunResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan SchedulerTaskResult, len(tasks))
	var successCount, failedCount, skippedCount atomic.Int32

	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := SchedulerTaskResult{
				TournID:  task.tournID,
				Category: string(task.category),
			}
			row.Status, row.Message = s.runTask(ctx, task, now)
			row.DurationMs = time.Since(start).Milliseconds()

			switch row.Status {
			case schedulerStatusSuccess:
				successCount.Add(1)
			case schedulerStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return SchedulerRunResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		if result.Tasks[i].TournID != result.Tasks[j].TournID {
			return result.Tasks[i].TournID < result.Tasks[j].TournID
		}
		return result.Tasks[i].Category < result.Tasks[j].Category
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())

	s.logger.InfoContext(ctx, "scheduler tick completed",
		"season", s.cfg.Season,
		"tournaments", result.TournamentCount,
		"tasks", result.TaskCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)
	return result, nil
}

func (s *UpdateSchedulerService) collectDueTasks(tournaments []golf.Tournament, now time.Time) []schedulerTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]schedulerTask, 0, len(tournaments))
	for _, tournament := range tournaments {
		for _, category := range schedule.Categories() {
			rule := schedule.RuleFor(category, tournament.Status)
			key := runKey{tournID: tournament.ID, category: category, status: tournament.Status}
			if !rule.Due(s.lastRun[key], now) {
				continue
			}
			tasks = append(tasks, schedulerTask{
				tournID:  tournament.ID,
				season:   s.cfg.Season,
				category: category,
				status:   tournament.Status,
			})
		}
	}
	return tasks
}

func (s *UpdateSchedulerService) runTask(ctx context.Context, task schedulerTask, now time.Time) (string, string) {
	path, params, ok := syncRouteFor(task)
	if !ok {
		// Recorded as run so a routeless category respects its cadence
		// instead of producing a skip row every tick.
		s.markRun(task, now)
		return schedulerStatusSkipped, fmt.Sprintf("no sync route for category=%s", task.category)
	}

	if err := s.trigger.Trigger(ctx, path, params); err != nil {
		s.logger.WarnContext(ctx, "scheduled sync failed",
			"tourn_id", task.tournID,
			"category", task.category,
			"error", err,
		)
		return schedulerStatusFailed, err.Error()
	}

	s.markRun(task, now)
	return schedulerStatusSuccess, ""
}

// markRun records a completed sync; failures are not recorded so the next
// tick retries.
func (s *UpdateSchedulerService) markRun(task schedulerTask, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun[runKey{tournID: task.tournID, category: task.category, status: task.status}] = now
}

func syncRouteFor(task schedulerTask) (string, map[string]string, bool) {
	switch task.category {
	case schedule.CategoryPlayers:
		return "/internal/jobs/sync-golfers", map[string]string{
			"tournId": task.tournID,
			"year":    task.season,
		}, true
	case schedule.CategoryTournaments:
		return "/internal/jobs/sync-tournaments", map[string]string{
			"tournId": task.tournID,
			"year":    task.season,
		}, true
	case schedule.CategoryLeaderboard:
		return "/internal/jobs/sync-leaderboard", map[string]string{
			"tournId": task.tournID,
			"year":    task.season,
		}, true
	default:
		// Scorecards carry a policy row but no sync route yet; the feed is
		// served straight from the provider.
		return "", nil, false
	}
}

func normalizeSchedulerWorkerCount(value int, taskCount int) int {
	if value <= 0 {
		value = 2
	}
	if value > 4 {
		value = 4
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
