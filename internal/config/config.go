package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fairwaylabs/golfdata/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service. Provider API keys
// double as feature switches: an adapter is only constructed when its key is
// present.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	CORSAllowedOrigins []string
	LogLevel           logging.Level

	DBURL string

	CacheTTLDefault     time.Duration
	CacheTTLLeaderboard time.Duration
	CacheTTLSchedule    time.Duration

	ProviderOrder []string

	SlashGolfAPIKey  string
	SlashGolfBaseURL string
	SlashGolfHost    string
	SlashGolfTimeout time.Duration

	SportradarAPIKey  string
	SportradarBaseURL string
	SportradarTimeout time.Duration

	InternalJobToken    string
	SyncTargetBaseURL   string
	SchedulerInterval   time.Duration
	SchedulerSeason     string
	SchedulerMaxWorkers int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cacheTTLDefault, err := parsePositiveDuration("CACHE_TTL_DEFAULT", "5m")
	if err != nil {
		return Config{}, err
	}
	cacheTTLLeaderboard, err := parsePositiveDuration("CACHE_TTL_LEADERBOARD", "2m")
	if err != nil {
		return Config{}, err
	}
	cacheTTLSchedule, err := parsePositiveDuration("CACHE_TTL_SCHEDULE", "24h")
	if err != nil {
		return Config{}, err
	}

	slashGolfTimeout, err := parsePositiveDuration("SLASHGOLF_TIMEOUT", "20s")
	if err != nil {
		return Config{}, err
	}
	sportradarTimeout, err := parsePositiveDuration("SPORTRADAR_TIMEOUT", "20s")
	if err != nil {
		return Config{}, err
	}

	providerOrder := splitCSV(getEnv("PROVIDER_ORDER", "slashgolf,sportradar"))
	for _, name := range providerOrder {
		if name != "slashgolf" && name != "sportradar" {
			return Config{}, fmt.Errorf("invalid PROVIDER_ORDER entry %q: valid values are slashgolf, sportradar", name)
		}
	}

	schedulerInterval, err := parsePositiveDuration("SCHEDULER_INTERVAL", "1m")
	if err != nil {
		return Config{}, err
	}
	schedulerMaxWorkers, err := getEnvAsInt("SCHEDULER_MAX_WORKERS", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_MAX_WORKERS: %w", err)
	}
	if schedulerMaxWorkers < 1 {
		return Config{}, fmt.Errorf("SCHEDULER_MAX_WORKERS must be >= 1")
	}

	readTimeout, err := parsePositiveDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := parsePositiveDuration("APP_WRITE_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := parsePositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "golfdata-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		DBURL: strings.TrimSpace(getEnv("DB_URL", "")),

		CacheTTLDefault:     cacheTTLDefault,
		CacheTTLLeaderboard: cacheTTLLeaderboard,
		CacheTTLSchedule:    cacheTTLSchedule,

		ProviderOrder: providerOrder,

		SlashGolfAPIKey:  strings.TrimSpace(getEnv("SLASHGOLF_API_KEY", "")),
		SlashGolfBaseURL: strings.TrimSpace(getEnv("SLASHGOLF_BASE_URL", "")),
		SlashGolfHost:    strings.TrimSpace(getEnv("SLASHGOLF_HOST", "")),
		SlashGolfTimeout: slashGolfTimeout,

		SportradarAPIKey:  strings.TrimSpace(getEnv("SPORTRADAR_API_KEY", "")),
		SportradarBaseURL: strings.TrimSpace(getEnv("SPORTRADAR_BASE_URL", "")),
		SportradarTimeout: sportradarTimeout,

		InternalJobToken:    strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		SyncTargetBaseURL:   strings.TrimSpace(getEnv("SYNC_TARGET_BASE_URL", "http://localhost:8080")),
		SchedulerInterval:   schedulerInterval,
		SchedulerSeason:     strings.TrimSpace(getEnv("SCHEDULER_SEASON", strconv.Itoa(time.Now().UTC().Year()))),
		SchedulerMaxWorkers: schedulerMaxWorkers,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if len(cfg.SchedulerSeason) != 4 {
		return Config{}, fmt.Errorf("SCHEDULER_SEASON must be a four-digit year")
	}

	return cfg, nil
}

// SlashGolfEnabled reports whether the SlashGolf adapter should be built.
func (c Config) SlashGolfEnabled() bool { return c.SlashGolfAPIKey != "" }

// SportradarEnabled reports whether the Sportradar adapter should be built.
func (c Config) SportradarEnabled() bool { return c.SportradarAPIKey != "" }

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
