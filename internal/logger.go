package internal

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the application logger: JSON in prod, console otherwise.
func NewLogger(w io.Writer, env string, level string) zerolog.Logger {
	// Validate log level, info by default
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		l = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	switch env {
	case "prod":
		logger = zerolog.New(w)
	default:
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
	}

	logger = logger.Level(l).With().Timestamp().Logger()

	if err != nil {
		logger.Warn().Str("value", level).Msg("invalid log level, using default level: info")
	}

	return logger
}
