// Package logging builds the service's zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger with timestamps, or a console writer in
// development. An unknown level falls back to info (debug in development).
func New(appEnv, level string) zerolog.Logger {
	return newWithOutput(os.Stdout, appEnv, level)
}

func newWithOutput(out io.Writer, appEnv, level string) zerolog.Logger {
	dev := appEnv == "development"

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
		if dev {
			lvl = zerolog.DebugLevel
		}
	}

	if dev {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
