package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/models"
)

var serveRecordColumns = []string{"player_a", "player_b", "serve_win_a", "serve_win_b", "played_at"}

// PostgresServeRecordRepository implements ServeRecordRepository for PostgreSQL
type PostgresServeRecordRepository struct {
	db *database.DB
}

// NewPostgresServeRecordRepository creates a new serve record repository
func NewPostgresServeRecordRepository(db *database.DB) ServeRecordRepository {
	return &PostgresServeRecordRepository{db: db}
}

// List retrieves every stored serve record
func (r *PostgresServeRecordRepository) List(ctx context.Context) ([]models.ServeRecord, error) {
	query := `
		SELECT player_a, player_b, serve_win_a, serve_win_b, played_at
		FROM serve_records
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query serve records: %w", err)
	}
	return scanServeRecords(rows)
}

// ListForPlayer retrieves the records a player appears in on either side
func (r *PostgresServeRecordRepository) ListForPlayer(ctx context.Context, player string) ([]models.ServeRecord, error) {
	query := `
		SELECT player_a, player_b, serve_win_a, serve_win_b, played_at
		FROM serve_records
		WHERE player_a = $1 OR player_b = $1
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query, player)
	if err != nil {
		return nil, fmt.Errorf("failed to query serve records for %s: %w", player, err)
	}
	return scanServeRecords(rows)
}

// InsertBatch bulk loads records with COPY
func (r *PostgresServeRecordRepository) InsertBatch(ctx context.Context, records []models.ServeRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	count, err := r.db.GetPool().CopyFrom(ctx, pgx.Identifier{"serve_records"}, serveRecordColumns, pgx.CopyFromRows(copyRows(records)))
	if err != nil {
		return 0, fmt.Errorf("failed to batch insert serve records: %w", err)
	}

	if count != int64(len(records)) {
		return count, fmt.Errorf("inserted %d rows, expected %d", count, len(records))
	}

	return count, nil
}

// Count returns the number of stored records
func (r *PostgresServeRecordRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM serve_records").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count serve records: %w", err)
	}
	return count, nil
}

func copyRows(records []models.ServeRecord) [][]any {
	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = []any{rec.PlayerA, rec.PlayerB, rec.ServeWinA, rec.ServeWinB, rec.PlayedAt}
	}
	return rows
}

func scanServeRecords(rows pgx.Rows) ([]models.ServeRecord, error) {
	defer rows.Close()

	var records []models.ServeRecord
	for rows.Next() {
		var rec models.ServeRecord
		if err := rows.Scan(&rec.PlayerA, &rec.PlayerB, &rec.ServeWinA, &rec.ServeWinB, &rec.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan serve record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
