package postgres

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		name        text PRIMARY KEY,
		description text NOT NULL DEFAULT '',
		created_at  timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id         uuid PRIMARY KEY,
		room       text NOT NULL REFERENCES rooms(name) ON DELETE CASCADE,
		username   text NOT NULL,
		content    text NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS messages_room_created_at_idx
		ON messages (room, created_at DESC, id DESC)`,
}

// Migrate applies the schema. Statements are idempotent, so re-running on
// startup is safe.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
