// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds a logger for env. Development gets a human readable console
// writer on stderr, every other environment gets JSON lines.
func Setup(env, level string) zerolog.Logger {
	var out io.Writer = os.Stderr
	if strings.EqualFold(env, "development") || env == "" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}
	return New(out, level)
}

// New builds a logger writing to w at the given level. Unknown levels mean info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "reelforge").Logger()
}
