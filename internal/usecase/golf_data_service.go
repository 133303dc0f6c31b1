package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/fairwaylabs/golfdata/internal/domain/golf"
	"github.com/fairwaylabs/golfdata/internal/platform/cache"
	"github.com/fairwaylabs/golfdata/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

// GolfDataService is the single façade over the configured providers: cache
// first, then each provider in construction order until one succeeds. The
// first listed provider is the preferred one; later entries are fallbacks,
// tried strictly sequentially so a lower-priority (costlier or rate-limited)
// upstream is never hit while a higher-priority one can answer.
//
// The cache and every provider health flag are process-local. In a
// multi-instance deployment each instance holds its own view, so one instance
// can consider a provider unhealthy while another still tries it. That skew
// is accepted; health state is not distributed.
type GolfDataService struct {
	providers []GolfDataProvider
	cache     *cache.Store
	logger    *logging.Logger
}

// NewGolfDataService builds a service over the given providers. The store's
// TTL is the instance's freshness policy: callers needing different
// freshness (live leaderboards vs. season schedules) construct separate
// instances with different stores.
func NewGolfDataService(providers []GolfDataProvider, store *cache.Store, logger *logging.Logger) *GolfDataService {
	if logger == nil {
		logger = logging.Default()
	}
	if len(providers) == 0 {
		logger.Warn("no golf data providers configured, all queries will fail")
	}

	return &GolfDataService{
		providers: providers,
		cache:     store,
		logger:    logger,
	}
}

func (s *GolfDataService) GetTournamentSchedule(ctx context.Context, year string) (golf.Schedule, error) {
	key := cache.Key("schedule", year)
	return fetchWithFallback(ctx, s, key, "tournament schedule", func(p GolfDataProvider) (golf.Schedule, error) {
		return p.GetTournamentSchedule(ctx, year)
	})
}

func (s *GolfDataService) GetTournamentDetails(ctx context.Context, tournamentID, year string) (golf.Tournament, error) {
	key := cache.Key("tournament", tournamentID, year)
	return fetchWithFallback(ctx, s, key, "tournament details", func(p GolfDataProvider) (golf.Tournament, error) {
		return p.GetTournamentDetails(ctx, tournamentID, year)
	})
}

func (s *GolfDataService) GetGolferList(ctx context.Context, tournamentID, year string) ([]golf.Golfer, error) {
	key := cache.Key("golfers", tournamentID, year)
	return fetchWithFallback(ctx, s, key, "golfer list", func(p GolfDataProvider) ([]golf.Golfer, error) {
		return p.GetGolferList(ctx, tournamentID, year)
	})
}

func (s *GolfDataService) GetGolferDetails(ctx context.Context, golferID string) (golf.Golfer, error) {
	key := cache.Key("golfer", golferID)
	return fetchWithFallback(ctx, s, key, "golfer details", func(p GolfDataProvider) (golf.Golfer, error) {
		return p.GetGolferDetails(ctx, golferID)
	})
}

func (s *GolfDataService) GetLeaderboard(ctx context.Context, tournamentID, year string, round int) (golf.Leaderboard, error) {
	key := LeaderboardCacheKey(tournamentID, year, round)
	return fetchWithFallback(ctx, s, key, "leaderboard", func(p GolfDataProvider) (golf.Leaderboard, error) {
		return p.GetLeaderboard(ctx, tournamentID, year, round)
	})
}

// RefreshLeaderboard evicts the leaderboard cache entry before fetching so
// live polling always reaches the providers regardless of remaining TTL.
func (s *GolfDataService) RefreshLeaderboard(ctx context.Context, tournamentID, year string, round int) (golf.Leaderboard, error) {
	s.cache.Delete(ctx, LeaderboardCacheKey(tournamentID, year, round))
	return s.GetLeaderboard(ctx, tournamentID, year, round)
}

// LeaderboardCacheKey exposes the leaderboard key so callers can target
// evictions. Round 0 means the current round.
func LeaderboardCacheKey(tournamentID, year string, round int) string {
	roundArg := "current"
	if round > 0 {
		roundArg = strconv.Itoa(round)
	}
	return cache.Key("leaderboard", tournamentID, year, roundArg)
}

// ClearCache drops one key, or everything when key is empty.
func (s *GolfDataService) ClearCache(ctx context.Context, key string) {
	if key == "" {
		s.cache.Clear(ctx)
		return
	}
	s.cache.Delete(ctx, key)
}

// CheckProvidersHealth probes every configured provider, including ones
// currently flagged unhealthy. This is the only path that returns a failed
// provider to the fallback rotation; nothing heals on a timer.
func (s *GolfDataService) CheckProvidersHealth(ctx context.Context) map[string]bool {
	results := make(map[string]bool, len(s.providers))

	var mu sync.Mutex
	var wg conc.WaitGroup
	for _, provider := range s.providers {
		provider := provider
		wg.Go(func() {
			healthy := provider.CheckHealth(ctx)
			mu.Lock()
			results[provider.Name()] = healthy
			mu.Unlock()
		})
	}
	wg.Wait()

	s.logger.InfoContext(ctx, "provider health check completed", "results", results)
	return results
}

// ProviderNames lists the configured providers in fallback order.
func (s *GolfDataService) ProviderNames() []string {
	names := make([]string, 0, len(s.providers))
	for _, provider := range s.providers {
		names = append(names, provider.Name())
	}
	return names
}

// fetchWithFallback runs one logical query: cache, then each healthy provider
// in order, caching the first success. Per-provider errors are logged and
// swallowed; only exhaustion crosses the service boundary, carrying the last
// underlying error for diagnostics. Deliberately no single-flight: concurrent
// misses on one key may fetch redundantly, which is harmless for idempotent
// reads.
func fetchWithFallback[T any](ctx context.Context, s *GolfDataService, key, what string, fetch func(GolfDataProvider) (T, error)) (T, error) {
	var zero T

	if cached, ok := s.cache.Get(ctx, key); ok {
		if value, ok := cached.(T); ok {
			return value, nil
		}
	}

	var lastErr error
	for _, provider := range s.providers {
		if !provider.Healthy() {
			s.logger.DebugContext(ctx, "skipping unhealthy provider", "provider", provider.Name(), "what", what)
			continue
		}

		value, err := fetch(provider)
		if err != nil {
			lastErr = err
			s.logger.WarnContext(ctx, "provider fetch failed, falling back",
				"provider", provider.Name(),
				"what", what,
				"error", err,
			)
			continue
		}

		s.cache.Set(ctx, key, value)
		return value, nil
	}

	if lastErr != nil {
		return zero, fmt.Errorf("%w: unable to get %s: last error: %v", ErrAllProvidersFailed, what, lastErr)
	}
	return zero, fmt.Errorf("%w: unable to get %s: no healthy providers configured", ErrAllProvidersFailed, what)
}
