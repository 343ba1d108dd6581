package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"incident-worker-go/internal/config"
)

// Setup configures the global logger: console output, level from config and,
// when enabled, a tee into the embedded Logdy UI
func Setup(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if cfg.LogdyEnabled {
		if w, _, err := StartLogdy(cfg); err != nil {
			log.Warn().Err(err).Msg("Failed to start Logdy, logging to console only")
		} else {
			out = zerolog.MultiLevelWriter(out, w)
		}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(ParseLevel(cfg.LogLevel))
}

// ParseLevel maps a config level name to a zerolog level, defaulting to info
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		log.Warn().Str("level", name).Msg("Invalid log level, using info")
		return zerolog.InfoLevel
	}
	return level
}

func NewServiceLogger(cfg *config.Config, service string) zerolog.Logger {
	return log.With().Str("worker_id", cfg.WorkerID).Str("service", service).Logger()
}

func WithStream(base zerolog.Logger, streamID string) zerolog.Logger {
	return base.With().Str("stream_id", streamID).Logger()
}
