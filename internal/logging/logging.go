// Package logging builds the application logger
package logging

import (
	"io"
	"os"
	"time"

	"github.com/findosh/holdings/internal/config"
	"github.com/rs/zerolog"
)

// New creates a logger from configuration. Development gets a human readable
// console writer on stderr; production gets JSON lines on stdout.
func New(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.IsDevelopment() {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return NewWithWriter(out, cfg.LogLevel)
}

// NewWithWriter creates a logger writing to w. Unknown levels fall back to info.
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
