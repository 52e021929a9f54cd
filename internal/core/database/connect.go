package database

import (
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PoolConfig sizes a connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Open connects gorm to postgres. Every repository writes through this pool.
func Open(dsn string, pool PoolConfig, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	applyPool(sqlDB.SetMaxOpenConns, sqlDB.SetMaxIdleConns, sqlDB.SetConnMaxLifetime, sqlDB.SetConnMaxIdleTime, pool)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connected", "driver", "postgres", "max_open_conns", pool.MaxOpenConns)
	return db, nil
}

// OpenSQLX connects sqlx on the pgx stdlib driver for read-only reporting.
func OpenSQLX(dsn string, pool PoolConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlx connection: %w", err)
	}
	applyPool(db.SetMaxOpenConns, db.SetMaxIdleConns, db.SetConnMaxLifetime, db.SetConnMaxIdleTime, pool)

	return db, nil
}

func applyPool(maxOpen, maxIdle func(int), lifetime, idleTime func(time.Duration), pool PoolConfig) {
	if pool.MaxOpenConns > 0 {
		maxOpen(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		maxIdle(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		lifetime(pool.ConnMaxLifetime)
	}
	if pool.ConnMaxIdleTime > 0 {
		idleTime(pool.ConnMaxIdleTime)
	}
}
