package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
)

// ImportMetrics tracks statistics about a record import
type ImportMetrics struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	TotalRecords     int
	Inserted         int64
	ValidationErrors int
	Errors           int
}

// NewImportMetrics creates a new metrics tracker
func NewImportMetrics() *ImportMetrics {
	return &ImportMetrics{StartTime: time.Now()}
}

func (m *ImportMetrics) recordBatch(inserted int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inserted += inserted
	if err != nil {
		m.Errors++
	}
}

func (m *ImportMetrics) recordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// String returns a formatted string representation of metrics
func (m *ImportMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf(
		"ImportMetrics{Total=%d, Inserted=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.TotalRecords, m.Inserted, m.ValidationErrors, m.Errors, m.Duration,
	)
}

// ImportService copies serve records from a source into the database
type ImportService struct {
	source    datasource.Source
	repo      repository.ServeRecordRepository
	logger    *logrus.Logger
	batchSize int
}

// NewImportService creates a new import service
func NewImportService(source datasource.Source, repo repository.ServeRecordRepository, logger *logrus.Logger, batchSize int) *ImportService {
	if batchSize <= 0 {
		batchSize = 500
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &ImportService{
		source:    source,
		repo:      repo,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Import reads every record, skips invalid ones and inserts the rest in
// batches. A failed batch is logged and counted; the remaining batches still run.
func (s *ImportService) Import(ctx context.Context) (*ImportMetrics, error) {
	m := NewImportMetrics()
	log := s.logger.WithField("source", s.source.Name())

	records, err := s.source.Records(ctx)
	if err != nil {
		return m, fmt.Errorf("failed to read records: %w", err)
	}
	m.TotalRecords = len(records)
	log.WithField("records", len(records)).Info("Starting serve record import")

	valid := make([]models.ServeRecord, 0, len(records))
	for i, rec := range records {
		if err := datasource.ValidateRecord(rec); err != nil {
			m.recordValidationError()
			log.WithError(err).WithField("index", i).Warn("Skipping invalid serve record")
			continue
		}
		valid = append(valid, rec)
	}

	for i := 0; i < len(valid); i += s.batchSize {
		if err := ctx.Err(); err != nil {
			return m, err
		}

		end := i + s.batchSize
		if end > len(valid) {
			end = len(valid)
		}

		n, err := s.repo.InsertBatch(ctx, valid[i:end])
		m.recordBatch(n, err)
		if err != nil {
			log.WithError(err).WithField("batch_start", i).Error("Error inserting batch")
		}
	}

	m.Duration = time.Since(m.StartTime)
	log.WithFields(logrus.Fields{
		"inserted":          m.Inserted,
		"validation_errors": m.ValidationErrors,
		"errors":            m.Errors,
		"duration_ms":       m.Duration.Milliseconds(),
	}).Info("Serve record import complete")

	if m.Errors > 0 {
		return m, fmt.Errorf("%d of %d batches failed", m.Errors, (len(valid)+s.batchSize-1)/s.batchSize)
	}
	return m, nil
}
