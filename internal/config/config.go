// Package config loads application settings from environment variables,
// applies defaults, and validates everything on startup so a misconfigured
// deployment fails immediately rather than at the first request.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to.
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on.
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout bounds reading of a request body.
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout bounds writing of a response.
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout.
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the per-request middleware timeout.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required).
	URL string `env:"DATABASE_URL" required:"true"`

	// MaxConns is the pool's maximum connection count.
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the number of connections kept open.
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a pooled connection.
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// ImportConfig holds spreadsheet import settings.
type ImportConfig struct {
	// MaxFileSize is the largest accepted upload in bytes (default 20MB).
	// Import files are small human-curated exports, not bulk data.
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"20971520"`

	// PageSize is the preview page size.
	PageSize int `env:"IMPORT_PAGE_SIZE" default:"10"`

	// CommitTimeout bounds the bulk-insert call.
	CommitTimeout time.Duration `env:"IMPORT_COMMIT_TIMEOUT" default:"30s"`

	// MaxConcurrent caps simultaneous workbook parses.
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"4"`

	// ParseWait is how long an upload waits for a parse slot before the
	// request is rejected.
	ParseWait time.Duration `env:"IMPORT_PARSE_WAIT" default:"10s"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log output format: text or json.
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Validate checks constraints that tag defaults cannot express.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT (%d) must be 1-65535", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1, got %d", c.Database.MaxConns)
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must be between 0 and DB_MAX_CONNS (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Import.MaxFileSize < 1 {
		return fmt.Errorf("IMPORT_MAX_FILE_SIZE must be positive, got %d", c.Import.MaxFileSize)
	}
	if c.Import.PageSize < 1 {
		return fmt.Errorf("IMPORT_PAGE_SIZE must be at least 1, got %d", c.Import.PageSize)
	}
	if c.Import.MaxConcurrent < 1 {
		return fmt.Errorf("IMPORT_MAX_CONCURRENT must be at least 1, got %d", c.Import.MaxConcurrent)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT: %q", c.Logging.Format)
	}
	return nil
}
