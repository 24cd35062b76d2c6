// ABOUTME: Runtime settings from TEXTSIZE_* environment variables; CLI flags override them
// ABOUTME: Probe timeout defaults to zero, which means wait indefinitely for terminal replies

package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mauromedda/textsize-go/internal/log"
)

// Environment variable names.
const (
	EnvProbeTimeout = "TEXTSIZE_PROBE_TIMEOUT"
	EnvLenient      = "TEXTSIZE_LENIENT"
	EnvLogLevel     = "TEXTSIZE_LOG_LEVEL"
)

// Settings holds the knobs shared by every subcommand.
type Settings struct {
	// ProbeTimeout bounds each cursor position query. Zero is unbounded.
	ProbeTimeout time.Duration
	// Lenient reports probe failures as "unsupported" instead of errors.
	Lenient  bool
	LogLevel slog.Level
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{LogLevel: log.LevelInfo}
}

// Load reads settings from the environment through getenv (os.Getenv in
// production). Unset variables keep their defaults.
func Load(getenv func(string) string) (Settings, error) {
	s := Defaults()

	if v := getenv(EnvProbeTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return s, fmt.Errorf("%s: %w", EnvProbeTimeout, err)
		}
		if d < 0 {
			return s, fmt.Errorf("%s: negative duration %s", EnvProbeTimeout, v)
		}
		s.ProbeTimeout = d
	}

	if v := getenv(EnvLenient); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return s, fmt.Errorf("%s: %w", EnvLenient, err)
		}
		s.Lenient = b
	}

	if v := getenv(EnvLogLevel); v != "" {
		l, err := log.ParseLevel(v)
		if err != nil {
			return s, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		s.LogLevel = l
	}

	return s, nil
}
