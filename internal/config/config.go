// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Sync     SyncConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string `env:"PORT" envDefault:"8080"`
	ReadTimeout  int    `env:"SERVER_READ_TIMEOUT" envDefault:"15"`  // seconds
	WriteTimeout int    `env:"SERVER_WRITE_TIMEOUT" envDefault:"45"` // seconds, covers a sync round-trip
	IdleTimeout  int    `env:"SERVER_IDLE_TIMEOUT" envDefault:"60"`  // seconds
}

// DatabaseConfig holds the local store connection settings.
// Driver is one of sqlite, postgres or mysql.
type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	Path     string `env:"DB_PATH" envDefault:"shop.db"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT"` // 0 means the driver's usual port
	User     string `env:"DB_USER" envDefault:"shop"`
	Password string `env:"DB_PASSWORD" envDefault:"shop"`
	DBName   string `env:"DB_NAME" envDefault:"shop"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// SyncConfig holds remote document store settings.
type SyncConfig struct {
	APIURL      string        `env:"SYNC_API_URL" envDefault:"https://api.github.com"`
	Filename    string        `env:"SYNC_FILENAME" envDefault:"shop_data.json"`
	Description string        `env:"SYNC_DESCRIPTION" envDefault:"Shop App Sync Data"`
	Public      bool          `env:"SYNC_PUBLIC" envDefault:"false"`
	Timeout     time.Duration `env:"SYNC_TIMEOUT" envDefault:"30s"`
	ProbeURL    string        `env:"NET_PROBE_URL" envDefault:"https://api.github.com"`
	ProbeTTL    time.Duration `env:"NET_PROBE_TTL" envDefault:"30s"`
	// TokenSecret, when set, encrypts the stored access token.
	TokenSecret string `env:"SYNC_TOKEN_SECRET"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev         bool   `env:"DEV" envDefault:"false"`
	DefaultLang string `env:"DEFAULT_LANG" envDefault:"en"`
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.port(), d.User, d.Password, d.DBName, d.SSLMode,
		)
	case "mysql":
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.port(), d.DBName,
		)
	default:
		return d.Path
	}
}

func (d DatabaseConfig) port() int {
	if d.Port != 0 {
		return d.Port
	}
	if d.Driver == "mysql" {
		return 3306
	}
	return 5432
}

// Load reads configuration from environment variables.
// It uses sensible defaults for running on the operator's own device.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	switch cfg.Database.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Database.Driver != "sqlite" {
		cfg.Database.Port = cfg.Database.port()
	}
	cfg.Sync.APIURL = strings.TrimRight(cfg.Sync.APIURL, "/")
	return &cfg, nil
}
