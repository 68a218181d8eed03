package repository

import (
	"context"

	"github.com/yourusername/courtside/internal/models"
)

// ServeRecordRepository defines the interface for serve record data access
type ServeRecordRepository interface {
	List(ctx context.Context) ([]models.ServeRecord, error)
	ListForPlayer(ctx context.Context, player string) ([]models.ServeRecord, error)
	InsertBatch(ctx context.Context, records []models.ServeRecord) (int64, error)
	Count(ctx context.Context) (int64, error)
}
