package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"catalog-service/pkg/config"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// NewConnection creates a new database connection based on configuration
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	var driverName string
	dsn := cfg.DSN()

	switch cfg.Type {
	case "postgres":
		driverName = "postgres"
	case "sqlite":
		driverName = "sqlite3"
		if !strings.Contains(dsn, "?") {
			dsn += "?_busy_timeout=5000"
		}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	return db, nil
}
