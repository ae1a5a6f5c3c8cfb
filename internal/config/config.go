// Package config loads runtime configuration. Environment variables win;
// an optional bizquest.toml fills in anything the environment leaves unset.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

type APIConfig struct {
	Addr           string
	DatabaseURL    string
	DBMaxConns     int32
	TutorURL       string
	TutorAPIKey    string
	CashFloorCents int64
	EventProbScale float64
	IdleRateCents  int64
	SeedContent    bool
	ShutdownGrace  time.Duration
}

type CLIConfig struct {
	APIBaseURL string
}

// fileConfig mirrors the optional bizquest.toml layout.
type fileConfig struct {
	API struct {
		Addr        string `toml:"addr"`
		DatabaseURL string `toml:"database_url"`
		DBMaxConns  int32  `toml:"db_max_conns"`
		TutorURL    string `toml:"tutor_url"`
		TutorAPIKey string `toml:"tutor_api_key"`
		SeedContent *bool  `toml:"seed_content"`
	} `toml:"api"`
	Tuning struct {
		CashFloorDollars float64 `toml:"cash_floor_dollars"`
		EventProbScale   float64 `toml:"event_prob_scale"`
		IdleRateDollars  float64 `toml:"idle_rate_dollars_per_level_hour"`
	} `toml:"tuning"`
	CLI struct {
		APIBaseURL string `toml:"api_base_url"`
	} `toml:"cli"`
}

func loadFile() fileConfig {
	var fc fileConfig
	path := envDefault("BIZQUEST_CONFIG", "bizquest.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return fc
	}
	// A malformed file is ignored rather than fatal; env still applies.
	_ = toml.Unmarshal(data, &fc)
	return fc
}

func LoadAPIFromEnv() (APIConfig, error) {
	fc := loadFile()

	addr := strings.TrimSpace(os.Getenv("PORT"))
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("BIZQUEST_API_ADDR", firstNonEmpty(fc.API.Addr, ":8080"))
	}

	cfg := APIConfig{
		Addr:           addr,
		DatabaseURL:    firstNonEmpty(strings.TrimSpace(os.Getenv("DATABASE_URL")), fc.API.DatabaseURL),
		DBMaxConns:     envInt32Default("BIZQUEST_DB_MAX_CONNS", int32Or(fc.API.DBMaxConns, 20)),
		TutorURL:       strings.TrimRight(firstNonEmpty(strings.TrimSpace(os.Getenv("BIZQUEST_TUTOR_URL")), fc.API.TutorURL), "/"),
		TutorAPIKey:    firstNonEmpty(strings.TrimSpace(os.Getenv("BIZQUEST_TUTOR_API_KEY")), fc.API.TutorAPIKey),
		CashFloorCents: envCentsDefault("BIZQUEST_CASH_FLOOR", dollarsToCents(fc.Tuning.CashFloorDollars)),
		EventProbScale: envFloatDefault("BIZQUEST_EVENT_PROB_SCALE", fc.Tuning.EventProbScale),
		IdleRateCents:  envCentsDefault("BIZQUEST_IDLE_RATE", dollarsToCents(fc.Tuning.IdleRateDollars)),
		SeedContent:    envBoolDefault("BIZQUEST_STARTUP_SEED_CONTENT", boolOrDefault(fc.API.SeedContent, true)),
		ShutdownGrace:  envDurationDefault("BIZQUEST_SHUTDOWN_GRACE", 10*time.Second),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	fc := loadFile()
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("BQ_API_BASE_URL", firstNonEmpty(fc.CLI.APIBaseURL, "http://localhost:8080")), "/"),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func boolOrDefault(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func dollarsToCents(v float64) int64 {
	if v <= 0 {
		return 0
	}
	return int64(v*100 + 0.5)
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func int32Or(v, fallback int32) int32 {
	if v <= 0 {
		return fallback
	}
	return v
}

func envInt32Default(key string, fallback int32) int32 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n <= 0 {
		return fallback
	}
	return int32(n)
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// envCentsDefault reads a dollar amount and converts to cents.
func envCentsDefault(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return dollarsToCents(f)
}

func envBoolDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
