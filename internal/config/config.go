package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store backends.
const (
	BackendMemory     = "memory"
	BackendRelational = "relational"
)

// Relational drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port             int           `envconfig:"PORT" default:"8080"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	Version          string        `envconfig:"VERSION" default:"dev"`
	StoreBackend     string        `envconfig:"STORE_BACKEND" default:"memory"`
	RelationalDriver string        `envconfig:"RELATIONAL_DRIVER" default:"postgres"`
	DatabaseURL      string        `envconfig:"DATABASE_URL" default:""`
	SQLitePath       string        `envconfig:"SQLITE_PATH" default:"blueprints.db"`
	Filter           string        `envconfig:"FILTER" default:"identity"`
	RateLimitRPS     float64       `envconfig:"RATE_LIMIT_RPS" default:"0"`
	RateLimitBurst   int           `envconfig:"RATE_LIMIT_BURST" default:"50"`
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	MonitorInterval  time.Duration `envconfig:"MONITOR_INTERVAL" default:"30s"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the selector values and backend-specific requirements.
// Filter names are checked by the filter package when the service is built.
func (c *Config) Validate() error {
	if c.MonitorInterval < 0 {
		return fmt.Errorf("MONITOR_INTERVAL must not be negative, got %s", c.MonitorInterval)
	}

	switch c.StoreBackend {
	case BackendMemory:
		return nil
	case BackendRelational:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMemory, BackendRelational, c.StoreBackend)
	}

	switch c.RelationalDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("RELATIONAL_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.RelationalDriver)
	}
	return nil
}
