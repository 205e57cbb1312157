// Package logging builds the root zerolog logger shared by all components.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls the root logger construction.
type Config struct {
	// Level is the minimum level: debug, info, warn, error. Defaults to info.
	Level string
	// Format selects json or console output. Defaults to json.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New constructs the root logger. Unknown levels fall back to info rather
// than failing startup.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
