// Package repository implements Postgres persistence for serve records.
package repository

import (
	"fmt"

	"github.com/yourusername/courtside/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	ServeRecords ServeRecordRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		ServeRecords: NewPostgresServeRecordRepository(db),
	}, nil
}
