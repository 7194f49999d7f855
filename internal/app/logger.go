package app

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"casa-nova-rsvp/internal/config"
)

// NewLogger builds the root logger. Unknown levels fall back to info.
func NewLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "casa-nova-rsvp").Logger()
}
