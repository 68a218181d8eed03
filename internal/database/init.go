package database

import (
	"context"
	"fmt"

	"github.com/yourusername/courtside/internal/config"
)

// Schema creates the serve record table when it does not exist
const Schema = `
CREATE TABLE IF NOT EXISTS serve_records (
	id          BIGSERIAL PRIMARY KEY,
	player_a    TEXT NOT NULL,
	player_b    TEXT NOT NULL,
	serve_win_a DOUBLE PRECISION NOT NULL CHECK (serve_win_a >= 0 AND serve_win_a <= 1),
	serve_win_b DOUBLE PRECISION NOT NULL CHECK (serve_win_b >= 0 AND serve_win_b <= 1),
	played_at   TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS serve_records_pair_idx ON serve_records (player_a, player_b);
`

// Initialize creates a database connection pool and makes sure the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply serve_records schema: %w", err)
	}

	return db, nil
}
