package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.CacheTTLDefault != 5*time.Minute {
		t.Fatalf("unexpected CacheTTLDefault: %s", cfg.CacheTTLDefault)
	}
	if cfg.CacheTTLLeaderboard != 2*time.Minute {
		t.Fatalf("unexpected CacheTTLLeaderboard: %s", cfg.CacheTTLLeaderboard)
	}
	if cfg.CacheTTLSchedule != 24*time.Hour {
		t.Fatalf("unexpected CacheTTLSchedule: %s", cfg.CacheTTLSchedule)
	}
	if len(cfg.ProviderOrder) != 2 || cfg.ProviderOrder[0] != "slashgolf" || cfg.ProviderOrder[1] != "sportradar" {
		t.Fatalf("unexpected ProviderOrder: %v", cfg.ProviderOrder)
	}
	if cfg.SlashGolfEnabled() || cfg.SportradarEnabled() {
		t.Fatalf("expected both adapters disabled without API keys")
	}
	if len(cfg.SchedulerSeason) != 4 {
		t.Fatalf("unexpected SchedulerSeason: %q", cfg.SchedulerSeason)
	}
}

func TestLoad_ProviderKeysGateAdapters(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SLASHGOLF_API_KEY", "rapid-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.SlashGolfEnabled() {
		t.Fatalf("expected SlashGolf adapter enabled with API key")
	}
	if cfg.SportradarEnabled() {
		t.Fatalf("expected Sportradar adapter disabled without API key")
	}
}

func TestLoad_ProviderOrderValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PROVIDER_ORDER", "sportradar,espn")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown provider in PROVIDER_ORDER")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_TTL_LEADERBOARD", "0s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for CACHE_TTL_LEADERBOARD=0s")
	}
}

func TestLoad_SchedulerSeasonValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SCHEDULER_SEASON", "25")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for two-digit SCHEDULER_SEASON")
	}
}
