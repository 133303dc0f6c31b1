package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairwaylabs/golfdata/external/syncjob"
	"github.com/fairwaylabs/golfdata/internal/config"
	"github.com/fairwaylabs/golfdata/internal/infrastructure/repository/postgres"
	"github.com/fairwaylabs/golfdata/internal/observability"
	"github.com/fairwaylabs/golfdata/internal/platform/logging"
	"github.com/fairwaylabs/golfdata/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	edgeLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if cfg.DBURL == "" {
		edgeLogger.Error("DB_URL is required, the scheduler walks the stored tournament calendar")
		os.Exit(1)
	}
	if cfg.InternalJobToken == "" {
		edgeLogger.Error("INTERNAL_JOB_TOKEN is required to call the sync routes")
		os.Exit(1)
	}

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		edgeLogger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownUptrace(ctx); err != nil {
			edgeLogger.Error("shutdown uptrace", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.DBURL)
	if err != nil {
		edgeLogger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	executor := syncjob.NewExecutor(syncjob.ExecutorConfig{
		TargetBaseURL:    cfg.SyncTargetBaseURL,
		APIKey:           cfg.InternalJobToken,
		InternalJobToken: cfg.InternalJobToken,
	}, edgeLogger)

	scheduler := usecase.NewUpdateSchedulerService(
		postgres.NewTournamentRepository(db),
		executor,
		usecase.UpdateSchedulerConfig{
			Season:     cfg.SchedulerSeason,
			MaxWorkers: cfg.SchedulerMaxWorkers,
		},
		logger,
	)

	edgeLogger.Info("scheduler starting",
		"season", cfg.SchedulerSeason,
		"interval", cfg.SchedulerInterval.String(),
		"target", cfg.SyncTargetBaseURL,
	)

	runTick(ctx, scheduler, edgeLogger)

	ticker := time.NewTicker(cfg.SchedulerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			edgeLogger.Info("scheduler stopped")
			return
		case <-ticker.C:
			runTick(ctx, scheduler, edgeLogger)
		}
	}
}

func runTick(ctx context.Context, scheduler *usecase.UpdateSchedulerService, logger *slog.Logger) {
	result, err := scheduler.RunOnce(ctx)
	if err != nil {
		logger.Error("scheduler tick failed", "error", err)
		return
	}
	if result.TaskCount > 0 {
		logger.Info("scheduler tick",
			"tournaments", result.TournamentCount,
			"tasks", result.TaskCount,
			"success", result.SuccessCount,
			"failed", result.FailedCount,
			"skipped", result.SkippedCount,
		)
	}
}
