package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fairwaylabs/golfdata/internal/domain/golf"
	"github.com/fairwaylabs/golfdata/internal/platform/logging"
)

type fakeLister struct {
	tournaments []golf.Tournament
	err         error
}

func (l *fakeLister) ListBySeason(_ context.Context, _ string) ([]golf.Tournament, error) {
	return l.tournaments, l.err
}

type fakeTrigger struct {
	mu       sync.Mutex
	calls    []string
	failPath string
}

func (t *fakeTrigger) Trigger(_ context.Context, path string, params map[string]string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if path == t.failPath {
		return errors.New("target unreachable")
	}
	t.calls = append(t.calls, path+"?tournId="+params["tournId"])
	return nil
}

func (t *fakeTrigger) count(path string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, call := range t.calls {
		if len(call) >= len(path) && call[:len(path)] == path {
			n++
		}
	}
	return n
}

func newSchedulerFixture(lister *fakeLister, trigger *fakeTrigger) *UpdateSchedulerService {
	return NewUpdateSchedulerService(lister, trigger, UpdateSchedulerConfig{Season: "2025", MaxWorkers: 2}, logging.NewNop())
}

func TestUpdateSchedulerService_InProgressTickFiresAllRoutedCategories(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{tournaments: []golf.Tournament{
		{ID: "014", Status: golf.TournamentInProgress},
	}}
	trigger := &fakeTrigger{}
	svc := newSchedulerFixture(lister, trigger)

	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TaskCount != 4 {
		t.Fatalf("task count=%d, want 4", result.TaskCount)
	}
	if result.SuccessCount != 3 || result.SkippedCount != 1 {
		t.Fatalf("success=%d skipped=%d, want 3/1", result.SuccessCount, result.SkippedCount)
	}
	for _, path := range []string{
		"/internal/jobs/sync-golfers",
		"/internal/jobs/sync-tournaments",
		"/internal/jobs/sync-leaderboard",
	} {
		if trigger.count(path) != 1 {
			t.Fatalf("route %s fired %d times, want 1", path, trigger.count(path))
		}
	}
}

func TestUpdateSchedulerService_IntervalGatesRepeatTicks(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{tournaments: []golf.Tournament{
		{ID: "014", Status: golf.TournamentInProgress},
	}}
	trigger := &fakeTrigger{}
	svc := newSchedulerFixture(lister, trigger)

	base := time.Date(2025, 4, 11, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	if _, err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One minute later nothing is due.
	svc.now = func() time.Time { return base.Add(time.Minute) }
	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TaskCount != 0 {
		t.Fatalf("task count=%d, want 0", result.TaskCount)
	}

	// Five minutes later only the live-board cadence has elapsed.
	svc.now = func() time.Time { return base.Add(5 * time.Minute) }
	result, err = svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 1 || trigger.count("/internal/jobs/sync-leaderboard") != 2 {
		t.Fatalf("success=%d leaderboard calls=%d, want 1/2",
			result.SuccessCount, trigger.count("/internal/jobs/sync-leaderboard"))
	}
}

func TestUpdateSchedulerService_FinalUpdateFiresExactlyOnce(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{tournaments: []golf.Tournament{
		{ID: "014", Status: golf.TournamentCompleted},
	}}
	trigger := &fakeTrigger{}
	svc := newSchedulerFixture(lister, trigger)

	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Leaderboard final sync plus the routeless scorecards final update.
	if result.SuccessCount != 1 || result.SkippedCount != 1 {
		t.Fatalf("success=%d skipped=%d, want 1/1", result.SuccessCount, result.SkippedCount)
	}

	result, err = svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TaskCount != 0 {
		t.Fatalf("second tick task count=%d, want 0", result.TaskCount)
	}
	if trigger.count("/internal/jobs/sync-leaderboard") != 1 {
		t.Fatalf("final sync fired %d times, want 1", trigger.count("/internal/jobs/sync-leaderboard"))
	}
}

func TestUpdateSchedulerService_StatusChangeRestartsClock(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{tournaments: []golf.Tournament{
		{ID: "014", Status: golf.TournamentInProgress},
	}}
	trigger := &fakeTrigger{}
	svc := newSchedulerFixture(lister, trigger)

	base := time.Date(2025, 4, 13, 18, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	if _, err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The tournament finishes one minute later. Even though the live board
	// synced sixty seconds ago, the completed-state final update is owed.
	lister.tournaments[0].Status = golf.TournamentCompleted
	svc.now = func() time.Time { return base.Add(time.Minute) }
	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 1 {
		t.Fatalf("success=%d, want 1 final leaderboard sync", result.SuccessCount)
	}
	if trigger.count("/internal/jobs/sync-leaderboard") != 2 {
		t.Fatalf("leaderboard calls=%d, want 2", trigger.count("/internal/jobs/sync-leaderboard"))
	}
}

func TestUpdateSchedulerService_FailedTriggerRetriesNextTick(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{tournaments: []golf.Tournament{
		{ID: "014", Status: golf.TournamentCompleted},
	}}
	trigger := &fakeTrigger{failPath: "/internal/jobs/sync-leaderboard"}
	svc := newSchedulerFixture(lister, trigger)

	result, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FailedCount != 1 {
		t.Fatalf("failed=%d, want 1", result.FailedCount)
	}

	// The target recovers; the unrecorded failure leaves the final update due.
	trigger.mu.Lock()
	trigger.failPath = ""
	trigger.mu.Unlock()

	result, err = svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 1 {
		t.Fatalf("success=%d, want 1 retried final sync", result.SuccessCount)
	}
}

func TestUpdateSchedulerService_MissingDependenciesAndListerFailure(t *testing.T) {
	t.Parallel()

	svc := NewUpdateSchedulerService(nil, nil, UpdateSchedulerConfig{Season: "2025"}, logging.NewNop())
	if _, err := svc.RunOnce(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("want ErrDependencyUnavailable, got %v", err)
	}

	lister := &fakeLister{err: errors.New("db down")}
	svc = newSchedulerFixture(lister, &fakeTrigger{})
	if _, err := svc.RunOnce(context.Background()); err == nil {
		t.Fatal("expected lister failure to surface")
	}
}
