// Package config provides centralized configuration management for the
// importer. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast
// on misconfiguration.
package config

import "time"

// Config holds all importer configuration.
// All settings can be configured via environment variables.
type Config struct {
	Store   StoreConfig
	Source  SourceConfig
	Import  ImportConfig
	Logging LoggingConfig
}

// StoreConfig selects and tunes the collection store backend.
type StoreConfig struct {
	// Backend is the store implementation: "postgres" or "memory"
	// (default: memory; the memory backend is a dry run, nothing persists)
	Backend string `env:"STORE_BACKEND" default:"memory"`

	// DatabaseURL is the PostgreSQL connection string, required for the
	// postgres backend. Supports both DATABASE_URL and DB_URL.
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of pooled connections (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// SourceConfig holds remote record-source settings.
type SourceConfig struct {
	// APIBaseURL is the base URL of a paginated records API. Unset
	// means CSV-only operation.
	APIBaseURL string `env:"SOURCE_API_URL"`

	// APIToken is the bearer token for the records API.
	APIToken string `env:"SOURCE_API_TOKEN"`

	// FetchTimeout bounds one whole fetch, all pages included (default: 5m)
	FetchTimeout time.Duration `env:"SOURCE_FETCH_TIMEOUT" default:"5m"`
}

// ImportConfig holds import pipeline settings.
type ImportConfig struct {
	// ConflictPolicy decides conflicting records headlessly:
	// "update" or "skip" (default: skip)
	ConflictPolicy string `env:"IMPORT_CONFLICT_POLICY" default:"skip"`

	// DropIncompleteRows drops CSV rows with an empty content cell
	// instead of importing them with gaps (default: false)
	DropIncompleteRows bool `env:"IMPORT_DROP_INCOMPLETE_ROWS" default:"false"`

	// SaveSession persists mapping decisions as plugin data after a
	// successful commit (default: true)
	SaveSession bool `env:"IMPORT_SAVE_SESSION" default:"true"`

	// Timeout is the maximum duration for one import cycle (default: 10m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"10m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
