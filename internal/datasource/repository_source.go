package datasource

import (
	"context"

	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

const postgresSourceName = "postgres"

// RepositorySource reads serve records stored in Postgres
type RepositorySource struct {
	repo repository.ServeRecordRepository
}

// NewRepositorySource creates a source over the record repository
func NewRepositorySource(repo repository.ServeRecordRepository) *RepositorySource {
	return &RepositorySource{repo: repo}
}

// Name returns the source name
func (s *RepositorySource) Name() string {
	return postgresSourceName
}

// Records lists every stored record
func (s *RepositorySource) Records(ctx context.Context) ([]models.ServeRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, NewSourceError(postgresSourceName, ErrCodeServerError, "failed to list serve records", err)
	}
	return records, nil
}
