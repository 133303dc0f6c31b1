package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fairwaylabs/golfdata/internal/domain/golf"
	"github.com/fairwaylabs/golfdata/internal/platform/cache"
	"github.com/fairwaylabs/golfdata/internal/platform/logging"
)

// fakeProvider implements GolfDataProvider the way the real adapters do:
// a failing call flips the health flag and the flag is only restored by
// CheckHealth.
type fakeProvider struct {
	name        string
	healthy     bool
	err         error
	schedule    golf.Schedule
	leaderboard golf.Leaderboard
	calls       int
	healthProbe bool
}

func newFakeProvider(name string) *fakeProvider {
	return &fakeProvider{name: name, healthy: true, healthProbe: true}
}

func (p *fakeProvider) Name() string  { return p.name }
func (p *fakeProvider) Healthy() bool { return p.healthy }

func (p *fakeProvider) fail() error {
	p.healthy = false
	return p.err
}

func (p *fakeProvider) GetTournamentSchedule(_ context.Context, year string) (golf.Schedule, error) {
	p.calls++
	if p.err != nil {
		return golf.Schedule{}, p.fail()
	}
	out := p.schedule
	out.Season = year
	return out, nil
}

func (p *fakeProvider) GetTournamentDetails(_ context.Context, tournamentID, _ string) (golf.Tournament, error) {
	p.calls++
	if p.err != nil {
		return golf.Tournament{}, p.fail()
	}
	return golf.Tournament{ID: tournamentID, Name: "Fake Open", ExternalSystem: p.name}, nil
}

func (p *fakeProvider) GetGolferList(_ context.Context, _, _ string) ([]golf.Golfer, error) {
	p.calls++
	if p.err != nil {
		return nil, p.fail()
	}
	return []golf.Golfer{{ID: "g1", Name: "Golfer One", Status: golf.GolferActive, ExternalSystem: p.name}}, nil
}

func (p *fakeProvider) GetGolferDetails(_ context.Context, golferID string) (golf.Golfer, error) {
	p.calls++
	if p.err != nil {
		return golf.Golfer{}, p.fail()
	}
	return golf.Golfer{ID: golferID, Name: "Golfer " + golferID, ExternalSystem: p.name}, nil
}

func (p *fakeProvider) GetLeaderboard(_ context.Context, tournamentID, _ string, _ int) (golf.Leaderboard, error) {
	p.calls++
	if p.err != nil {
		return golf.Leaderboard{}, p.fail()
	}
	out := p.leaderboard
	out.TournamentID = tournamentID
	return out, nil
}

func (p *fakeProvider) CheckHealth(_ context.Context) bool {
	p.healthy = p.healthProbe
	return p.healthy
}

func newTestService(ttl time.Duration, providers ...GolfDataProvider) *GolfDataService {
	return NewGolfDataService(providers, cache.NewStore(ttl), logging.NewNop())
}

func TestGolfDataService_FallbackOrderAndHealthFlag(t *testing.T) {
	t.Parallel()

	primary := newFakeProvider("primary")
	primary.err = errors.New("primary exploded")
	secondary := newFakeProvider("secondary")

	svc := newTestService(time.Minute, primary, secondary)

	got, err := svc.GetTournamentDetails(context.Background(), "014", "2025")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ExternalSystem != "secondary" {
		t.Fatalf("served by %q, want secondary", got.ExternalSystem)
	}
	if primary.healthy {
		t.Fatal("failing provider should be flagged unhealthy")
	}

	// Second call within TTL is served from cache: neither provider is hit.
	primaryCalls, secondaryCalls := primary.calls, secondary.calls
	if _, err := svc.GetTournamentDetails(context.Background(), "014", "2025"); err != nil {
		t.Fatalf("cached call error: %v", err)
	}
	if primary.calls != primaryCalls || secondary.calls != secondaryCalls {
		t.Fatal("cached call should not invoke any provider")
	}
}

func TestGolfDataService_UnhealthyProviderIsSkippedUntilHealthCheck(t *testing.T) {
	t.Parallel()

	flaky := newFakeProvider("flaky")
	flaky.healthy = false
	backup := newFakeProvider("backup")

	svc := newTestService(time.Minute, flaky, backup)

	if _, err := svc.GetGolferDetails(context.Background(), "42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flaky.calls != 0 {
		t.Fatalf("unhealthy provider was invoked %d times", flaky.calls)
	}

	health := svc.CheckProvidersHealth(context.Background())
	if !health["flaky"] || !health["backup"] {
		t.Fatalf("unexpected health map: %v", health)
	}
	if !flaky.healthy {
		t.Fatal("health check success should restore the provider")
	}

	if _, err := svc.GetGolferDetails(context.Background(), "43"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flaky.calls != 1 {
		t.Fatalf("restored provider should be tried first, calls=%d", flaky.calls)
	}
}

func TestGolfDataService_ExhaustionCarriesLastError(t *testing.T) {
	t.Parallel()

	first := newFakeProvider("first")
	first.err = errors.New("first broke")
	second := newFakeProvider("second")
	second.err = errors.New("second broke")

	svc := newTestService(time.Minute, first, second)

	_, err := svc.GetTournamentSchedule(context.Background(), "2025")
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("want ErrAllProvidersFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "second broke") {
		t.Fatalf("exhaustion error should carry the last provider error, got %q", err)
	}
}

func TestGolfDataService_NoProvidersConfigured(t *testing.T) {
	t.Parallel()

	svc := newTestService(time.Minute)

	_, err := svc.GetGolferList(context.Background(), "014", "2025")
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("want ErrAllProvidersFailed, got %v", err)
	}
}

func TestGolfDataService_CacheExpiryRefetches(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider("only")
	svc := newTestService(40*time.Millisecond, provider)

	if _, err := svc.GetTournamentSchedule(context.Background(), "2025"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetTournamentSchedule(context.Background(), "2025"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("calls=%d, want 1 (second served from cache)", provider.calls)
	}

	time.Sleep(60 * time.Millisecond)
	if _, err := svc.GetTournamentSchedule(context.Background(), "2025"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 2 {
		t.Fatalf("calls=%d, want 2 (TTL elapsed)", provider.calls)
	}
}

func TestGolfDataService_LeaderboardEndToEnd(t *testing.T) {
	t.Parallel()

	broken := newFakeProvider("broken")
	broken.err = errors.New("leaderboard endpoint down")

	two := 2
	working := newFakeProvider("working")
	working.leaderboard = golf.Leaderboard{
		Status: golf.TournamentInProgress,
		Players: []golf.LeaderboardEntry{
			{GolferID: "a", Position: golf.ParsePosition("1"), Score: golf.ParseScore("-4"), Status: golf.GolferActive},
			{GolferID: "b", Position: golf.ParsePosition("T2"), Score: golf.ParseScore("E"), Status: golf.GolferActive},
			{GolferID: "c", Position: golf.ParsePosition("T2"), Score: golf.ParseScore("E"), Round3: &two, Status: golf.GolferActive},
		},
	}

	svc := newTestService(time.Minute, broken, working)

	board, err := svc.GetLeaderboard(context.Background(), "014", "2025", CurrentRound)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board.Players) != 3 {
		t.Fatalf("players=%d, want 3", len(board.Players))
	}
	if board.Players[1].Position != 2 {
		t.Fatalf("tied position parsed to %d, want 2", board.Players[1].Position)
	}
	if board.Players[1].Score != 0 {
		t.Fatalf("even score parsed to %d, want 0", board.Players[1].Score)
	}
	if broken.healthy {
		t.Fatal("broken provider should read unhealthy after the failed call")
	}
}

func TestGolfDataService_ClearCacheForcesRefetchAndExhaustion(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider("only")
	svc := newTestService(time.Hour, provider)

	ctx := context.Background()
	if _, err := svc.GetLeaderboard(ctx, "014", "2025", CurrentRound); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.ClearCache(ctx, LeaderboardCacheKey("014", "2025", CurrentRound))
	provider.err = errors.New("now failing")

	_, err := svc.GetLeaderboard(ctx, "014", "2025", CurrentRound)
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("stale cache must not mask exhaustion, got %v", err)
	}
}

func TestGolfDataService_RefreshLeaderboardBypassesTTL(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider("only")
	svc := newTestService(time.Hour, provider)

	ctx := context.Background()
	if _, err := svc.GetLeaderboard(ctx, "014", "2025", CurrentRound); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.RefreshLeaderboard(ctx, "014", "2025", CurrentRound); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 2 {
		t.Fatalf("calls=%d, want 2 (refresh must hit the provider)", provider.calls)
	}
}
