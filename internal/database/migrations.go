package database

import (
	"context"
	"database/sql"
	"fmt"
)

// RunMigrations executes database migrations for the given database type
func RunMigrations(ctx context.Context, db *sql.DB, dbType string) error {
	var migrations []string
	switch dbType {
	case "postgres":
		migrations = []string{
			createUsersTablePostgres,
			createProductsTablePostgres,
			createIndices,
		}
	case "sqlite":
		migrations = []string{
			createUsersTableSQLite,
			createProductsTableSQLite,
			createIndices,
		}
	default:
		return fmt.Errorf("unsupported database type: %s", dbType)
	}

	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const createUsersTableSQLite = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username VARCHAR(50) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`

const createProductsTableSQLite = `
CREATE TABLE IF NOT EXISTS products (
    id VARCHAR(36) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    description TEXT NOT NULL,
    price REAL NOT NULL CHECK (price >= 0),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`

const createUsersTablePostgres = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    username VARCHAR(50) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);`

const createProductsTablePostgres = `
CREATE TABLE IF NOT EXISTS products (
    id VARCHAR(36) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    description TEXT NOT NULL,
    price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);`

const createIndices = `
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);
`
