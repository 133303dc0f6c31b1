package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/fairwaylabs/golfdata/external/slashgolf"
	"github.com/fairwaylabs/golfdata/external/sportradar"
	"github.com/fairwaylabs/golfdata/internal/config"
	"github.com/fairwaylabs/golfdata/internal/infrastructure/repository/postgres"
	"github.com/fairwaylabs/golfdata/internal/interfaces/httpapi"
	"github.com/fairwaylabs/golfdata/internal/platform/cache"
	"github.com/fairwaylabs/golfdata/internal/platform/logging"
	"github.com/fairwaylabs/golfdata/internal/usecase"
)

// App bundles the wired HTTP server with the resources it owns.
type App struct {
	Server *http.Server
	DB     *sqlx.DB
}

// Close releases resources the server does not close itself.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// New wires the full service: provider adapters gated by API keys, one data
// service per freshness class, optional Postgres persistence, and the HTTP
// router.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	providers, scorecards := buildProviders(cfg, logger)

	defaultData := usecase.NewGolfDataService(providers, cache.NewStore(cfg.CacheTTLDefault), logger)
	scheduleData := usecase.NewGolfDataService(providers, cache.NewStore(cfg.CacheTTLSchedule), logger)
	liveData := usecase.NewGolfDataService(providers, cache.NewStore(cfg.CacheTTLLeaderboard), logger)

	var db *sqlx.DB
	var syncService *usecase.SyncService
	if cfg.DBURL != "" {
		var err error
		db, err = postgres.Connect(ctx, cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		syncService = usecase.NewSyncService(
			liveData,
			postgres.NewTournamentRepository(db),
			postgres.NewGolferRepository(db),
			postgres.NewLeaderboardRepository(db),
			logger,
		)
	} else {
		logger.Warn("DB_URL is empty, sync routes are disabled")
	}

	handler := httpapi.NewHandler(defaultData, syncService, scorecards, logger).
		WithScheduleService(scheduleData).
		WithLiveService(liveData)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, DB: db}, nil
}

// buildProviders constructs the configured adapters in fallback order. The
// second return value is the scorecard source when SlashGolf is configured;
// no other provider carries that feed.
func buildProviders(cfg config.Config, logger *logging.Logger) ([]usecase.GolfDataProvider, httpapi.ScorecardSource) {
	var providers []usecase.GolfDataProvider
	var scorecards httpapi.ScorecardSource

	for _, name := range cfg.ProviderOrder {
		switch name {
		case slashgolf.ProviderName:
			if !cfg.SlashGolfEnabled() {
				logger.Info("slashgolf adapter disabled", "reason", "SLASHGOLF_API_KEY empty")
				continue
			}
			provider := slashgolf.NewProvider(slashgolf.Config{
				BaseURL: cfg.SlashGolfBaseURL,
				Host:    cfg.SlashGolfHost,
				APIKey:  cfg.SlashGolfAPIKey,
				Timeout: cfg.SlashGolfTimeout,
				Logger:  logger,
			})
			providers = append(providers, provider)
			scorecards = provider
		case sportradar.ProviderName:
			if !cfg.SportradarEnabled() {
				logger.Info("sportradar adapter disabled", "reason", "SPORTRADAR_API_KEY empty")
				continue
			}
			providers = append(providers, sportradar.NewProvider(sportradar.Config{
				BaseURL: cfg.SportradarBaseURL,
				APIKey:  cfg.SportradarAPIKey,
				Timeout: cfg.SportradarTimeout,
				Logger:  logger,
			}))
		}
	}

	return providers, scorecards
}
