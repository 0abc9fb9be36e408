// Package config defines service configuration and how it is loaded.
package config

import (
	"errors"
	"fmt"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/logging"
)

// Config contains process configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBDriver selects the database backend: sqlite or postgres.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the SQLite file path or the Postgres connection URL.
	DBDSN string `koanf:"db_dsn"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile mirrors all log output to a file when set.
	LogFile string `koanf:"log_file"`

	// ImageDir stores uploaded item images.
	ImageDir string `koanf:"image_dir"`

	// MaxUploadMB caps the size of an uploaded image.
	MaxUploadMB int `koanf:"max_upload_mb"`

	// PlaceholderSize is the edge length in pixels of the placeholder image.
	PlaceholderSize int `koanf:"placeholder_size"`

	// CORSOrigin is sent as Access-Control-Allow-Origin. Empty disables CORS headers.
	CORSOrigin string `koanf:"cors_origin"`

	// MetricsEnabled exposes Prometheus metrics on /metrics.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:            ":8080",
		DBDriver:        string(db.DriverSQLite),
		DBDSN:           "zaloga.sqlite3",
		LogLevel:        "info",
		ImageDir:        "images",
		MaxUploadMB:     5,
		PlaceholderSize: 256,
		CORSOrigin:      "*",
		MetricsEnabled:  true,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if _, err := db.ParseDriver(c.DBDriver); err != nil {
		return err
	}
	if c.DBDSN == "" {
		return errors.New("db_dsn must not be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.PlaceholderSize <= 0 {
		return fmt.Errorf("placeholder_size must be positive, got %d", c.PlaceholderSize)
	}
	return nil
}

// Driver returns the parsed database driver. Call Validate first.
func (c *Config) Driver() db.Driver {
	d, _ := db.ParseDriver(c.DBDriver)
	return d
}

// MaxUploadBytes returns MaxUploadMB in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
