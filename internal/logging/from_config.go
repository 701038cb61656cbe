package logging

import (
	"log/slog"
	"path/filepath"

	"cardbox/internal/config"
)

// NewFromConfig creates a logger using application config. The daemon log
// file lives alongside the other state in the configured log directory.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	opts := Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Paths.LogDir != "" {
		opts.LogFile = filepath.Join(cfg.Paths.LogDir, "cardbox.log")
	}
	return New(opts)
}
