package config

import (
	"fmt"
	"os"
	"padel-connect/internal/constants"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath           string
	ServerPort       string
	LogLevel         string
	SimulatedLatency time.Duration
	SeedDemoMatches  bool
	APIBaseURL       string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	latency, err := getDuration("SIMULATED_LATENCY", constants.DefaultSimulatedLatency)
	if err != nil {
		return nil, err
	}
	seed, err := getBool("SEED_DEMO_MATCHES", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:           getEnv("DB_PATH", "padel.db"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", constants.DefaultLogLevel),
		SimulatedLatency: latency,
		SeedDemoMatches:  seed,
		APIBaseURL:       getEnv("PADEL_API_URL", "http://localhost:8080"),
	}

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("DB_PATH must not be empty")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("simulated_latency", cfg.SimulatedLatency).
		Bool("seed_demo_matches", cfg.SeedDemoMatches).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

var Module = fx.Provide(Load)
