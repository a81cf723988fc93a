package db

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alarm-clock-backend/config"
	"alarm-clock-backend/internal/model"
)

// Dialector picks the gorm driver for a DSN: PostgreSQL for postgres URLs and
// key/value connection strings, SQLite for everything else.
func Dialector(dsn string) gorm.Dialector {
	switch {
	case strings.HasPrefix(dsn, "postgres://"),
		strings.HasPrefix(dsn, "postgresql://"),
		strings.HasPrefix(dsn, "host="):
		return postgres.Open(dsn)
	default:
		return sqlite.Open(dsn)
	}
}

// newGormLogger routes gorm's warnings and errors through zap, leaving out
// ErrRecordNotFound.
func newGormLogger(log *zap.Logger) logger.Interface {
	return logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Init opens the database connection and runs migrations.
func Init(cfg *config.StorageConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector := Dialector(cfg.DSN)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if dialector.Name() == "sqlite" {
		// A single writer keeps SQLite from returning SQLITE_BUSY under concurrent intents.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Info("running database migrations", zap.String("driver", dialector.Name()))
	if err := db.AutoMigrate(
		&model.KVSlot{},
		&model.PushSubscription{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	log.Info("database initialization complete")
	return db, nil
}
