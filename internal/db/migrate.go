package db

import (
	"fmt"
	"log"
	"time"

	"github.com/diewo77/go-shop/internal/config"
	"github.com/diewo77/go-shop/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database. Network drivers are retried a few
// times so the app can start alongside its database container.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	attempts := 5
	if cfg.Driver == "sqlite" {
		attempts = 1
	}
	var db *gorm.DB
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		if i < attempts-1 {
			log.Printf("database connection attempt %d/%d failed, retrying: %v", i+1, attempts, err)
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}
	return db, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return sqlite.Open(cfg.DSN()), nil
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "mysql":
		return mysql.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// Migrate creates or updates the local store schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Entry{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Ping checks that the underlying connection is usable.
func Ping(db *gorm.DB) error {
	return db.Exec("SELECT 1").Error
}
