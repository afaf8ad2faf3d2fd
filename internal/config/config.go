// Package config defines service configuration and how it is loaded.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/elevatos/internal/domain/model"
	"github.com/okian/elevatos/internal/domain/seed"
	"github.com/okian/elevatos/internal/i18n"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StorageBackend is where the mirror persists state: memory or sqlite.
	StorageBackend string `koanf:"storage_backend"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// Seed drives the mock data generator used when nothing is persisted.
	Seed int64 `koanf:"seed"`

	// MirrorQueueSize bounds outstanding persistence jobs.
	MirrorQueueSize int `koanf:"mirror_queue_size"`

	// DefaultLanguage and DefaultTheme apply when no preference is persisted.
	DefaultLanguage string `koanf:"default_language"`
	DefaultTheme    string `koanf:"default_theme"`

	// MaxFeedbackLimit caps GET /feedback?limit.
	MaxFeedbackLimit int `koanf:"max_feedback_limit"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		StorageBackend:   BackendMemory,
		SQLitePath:       "elevatos.db",
		Seed:             seed.DefaultSeed,
		MirrorQueueSize:  64,
		DefaultLanguage:  i18n.DefaultLanguage,
		DefaultTheme:     string(model.ThemeLight),
		MaxFeedbackLimit: 100,
	}
}

// Validate checks field ranges and normalizes enumerations in place.
func (c *Config) Validate() error {
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StorageBackend != BackendMemory && c.StorageBackend != BackendSQLite:
		return fmt.Errorf("%w: unknown storage_backend %q", ErrInvalidConfig, c.StorageBackend)
	case c.StorageBackend == BackendSQLite && strings.TrimSpace(c.SQLitePath) == "":
		return fmt.Errorf("%w: sqlite_path is required for the sqlite backend", ErrInvalidConfig)
	case c.MirrorQueueSize <= 0:
		return fmt.Errorf("%w: mirror_queue_size must be positive", ErrInvalidConfig)
	case c.MaxFeedbackLimit <= 0:
		return fmt.Errorf("%w: max_feedback_limit must be positive", ErrInvalidConfig)
	case !model.Theme(c.DefaultTheme).Valid():
		return fmt.Errorf("%w: unknown default_theme %q", ErrInvalidConfig, c.DefaultTheme)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}

	lang, ok := i18n.Normalize(c.DefaultLanguage)
	if !ok {
		return fmt.Errorf("%w: unsupported default_language %q", ErrInvalidConfig, c.DefaultLanguage)
	}
	c.DefaultLanguage = lang
	return nil
}
