package logger

import (
	"os"
	"padel-connect/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New builds the process logger. It loads .env itself because config
// loading logs through this logger and so runs later.
func New() zerolog.Logger {
	_ = godotenv.Load()
	return SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// ParseLevel falls back to the default level for empty or unknown input.
func ParseLevel(raw string) zerolog.Level {
	if raw == "" {
		raw = constants.DefaultLogLevel
	}
	level, err := zerolog.ParseLevel(raw)
	if err != nil || level == zerolog.NoLevel {
		level, _ = zerolog.ParseLevel(constants.DefaultLogLevel)
	}
	return level
}

func SetLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(level)

	return logger
}

var Module = fx.Provide(New)
