package database

import (
	"context"
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations(ctx context.Context) error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createUsersUsernameIndex,
		createTheatresTable,
		createShowsTable,
		createShowsTheatreIndex,
		createActivityLogTable,
	}

	for i, migration := range migrations {
		slog.Debug("Running migration", "step", i+1)
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully", "count", len(migrations))
	return nil
}

// Usernames are intentionally not unique; created_at orders duplicates so
// the oldest account wins a lookup.
const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(50) PRIMARY KEY,
    username VARCHAR(255) NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    admin_status BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createUsersUsernameIndex = `
CREATE INDEX IF NOT EXISTS users_username_idx ON users (username, created_at);`

const createTheatresTable = `
CREATE TABLE IF NOT EXISTS theatres (
    id VARCHAR(50) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    place VARCHAR(255) NOT NULL,
    capacity VARCHAR(255) NOT NULL
);`

const createShowsTable = `
CREATE TABLE IF NOT EXISTS shows (
    id VARCHAR(50) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    rating VARCHAR(16),
    tags VARCHAR(255) NOT NULL,
    ticket_price INTEGER NOT NULL,
    theatre_id VARCHAR(50) NOT NULL REFERENCES theatres(id) ON DELETE RESTRICT
);`

const createShowsTheatreIndex = `
CREATE INDEX IF NOT EXISTS shows_theatre_id_idx ON shows (theatre_id);`

const createActivityLogTable = `
CREATE TABLE IF NOT EXISTS activity_log (
    id BIGSERIAL PRIMARY KEY,
    subject VARCHAR(100) NOT NULL,
    entity_id VARCHAR(50) NOT NULL,
    payload JSONB NOT NULL,
    occurred_at TIMESTAMP NOT NULL,
    recorded_at TIMESTAMP NOT NULL DEFAULT NOW()
);`
