package logger

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/a11yscan/internal/config"
)

// LogLevelEnvVar overrides the configured log level.
const LogLevelEnvVar = "A11YSCAN_LOG_LEVEL"

// NewLogger creates a named logger writing to stderr, so reports sent to stdout stay clean.
func NewLogger(cfg *config.Config, name string) hclog.Logger {
	var lc config.Logger
	if cfg != nil {
		lc = cfg.Logger
	}

	level, raw := determineLogLevel(lc.Level)
	lg := hclog.New(&hclog.LoggerOptions{
		Name:            name,
		Level:           level,
		Output:          os.Stderr,
		DisableTime:     boolOr(lc.DisableTime, true),
		JSONFormat:      boolOr(lc.JSONFormat, false),
		IncludeLocation: boolOr(lc.IncludeLocation, false),
	})
	if level == hclog.NoLevel {
		lg.SetLevel(hclog.Info)
		lg.Warn("unrecognized log level, defaulting to INFO", "providedLevel", raw)
	}
	return lg
}

// determineLogLevel resolves the level from the environment first, then from the configured value.
// NoLevel is returned together with the raw value when it is not a known level name.
func determineLogLevel(configured string) (hclog.Level, string) {
	raw := os.Getenv(LogLevelEnvVar)
	if raw == "" {
		raw = configured
	}
	if raw == "" {
		return hclog.Info, raw
	}
	level := hclog.LevelFromString(strings.TrimSpace(raw))
	if level == hclog.NoLevel || level == hclog.Off {
		return hclog.NoLevel, raw
	}
	return level, raw
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
