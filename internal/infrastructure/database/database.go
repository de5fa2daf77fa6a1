package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"roottrack-api/internal/config"
	"roottrack-api/internal/infrastructure/logger"
)

// Config holds database configuration
type Config struct {
	Driver      string
	DatabaseURL string
	SQLitePath  string
	MaxIdle     int
	MaxOpen     int
	MaxLifetime time.Duration
	LogLevel    gormlogger.LogLevel
}

// ConfigFrom maps service configuration onto database configuration.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Driver:      cfg.DBDriver,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxLifetime: cfg.DBConnLifetime,
		LogLevel:    gormlogger.Silent,
	}
}

// Connect opens PostgreSQL or SQLite depending on cfg.Driver.
func Connect(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DBDriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	case config.DBDriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	log := logger.GetLogger()
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(cfg.LogLevel),
	})
	if err != nil {
		log.Error().
			Str("error_code", "5e1f3b7a-9c2d-4a68-b0e4-7d3c1f9a2b56").
			Str("driver", cfg.Driver).
			Err(err).
			Msg("unable to connect to database")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == config.DBDriverSQLite {
		// SQLite serializes writers; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
		sqlDB.SetMaxOpenConns(cfg.MaxOpen)
		sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)
	}

	log.Info().Str("driver", cfg.Driver).Msg("Successfully connected to database")
	return db, nil
}
