package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/courtside/internal/models"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Records(ctx context.Context) ([]models.ServeRecord, error) {
	args := m.Called(ctx)
	if records, ok := args.Get(0).([]models.ServeRecord); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSource) Name() string { return "mock" }

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) List(ctx context.Context) ([]models.ServeRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ServeRecord), args.Error(1)
}

func (m *mockRepo) ListForPlayer(ctx context.Context, player string) ([]models.ServeRecord, error) {
	args := m.Called(ctx, player)
	return args.Get(0).([]models.ServeRecord), args.Error(1)
}

func (m *mockRepo) InsertBatch(ctx context.Context, records []models.ServeRecord) (int64, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func records(n int) []models.ServeRecord {
	out := make([]models.ServeRecord, n)
	for i := range out {
		out[i] = models.ServeRecord{PlayerA: "A", PlayerB: "B", ServeWinA: 0.6, ServeWinB: 0.6}
	}
	return out
}

func TestImportBatches(t *testing.T) {
	data := append(records(5), models.ServeRecord{PlayerA: "A", PlayerB: "A", ServeWinA: 0.6, ServeWinB: 0.6})

	src := &mockSource{}
	src.On("Records", mock.Anything).Return(data, nil)

	repo := &mockRepo{}
	repo.On("InsertBatch", mock.Anything, mock.MatchedBy(func(b []models.ServeRecord) bool { return len(b) == 2 })).Return(int64(2), nil).Twice()
	repo.On("InsertBatch", mock.Anything, mock.MatchedBy(func(b []models.ServeRecord) bool { return len(b) == 1 })).Return(int64(1), nil).Once()

	m, err := NewImportService(src, repo, quietLogger(), 2).Import(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, m.TotalRecords)
	assert.Equal(t, int64(5), m.Inserted)
	assert.Equal(t, 1, m.ValidationErrors)
	assert.Zero(t, m.Errors)
	assert.Contains(t, m.String(), "Inserted=5")
	repo.AssertExpectations(t)
}

func TestImportContinuesAfterFailedBatch(t *testing.T) {
	src := &mockSource{}
	src.On("Records", mock.Anything).Return(records(4), nil)

	repo := &mockRepo{}
	repo.On("InsertBatch", mock.Anything, mock.Anything).Return(int64(0), errors.New("copy failed")).Once()
	repo.On("InsertBatch", mock.Anything, mock.Anything).Return(int64(2), nil).Once()

	m, err := NewImportService(src, repo, quietLogger(), 2).Import(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 batches failed")
	assert.Equal(t, int64(2), m.Inserted)
	assert.Equal(t, 1, m.Errors)
}

func TestImportSourceError(t *testing.T) {
	src := &mockSource{}
	src.On("Records", mock.Anything).Return(nil, errors.New("missing file"))

	repo := &mockRepo{}
	_, err := NewImportService(src, repo, quietLogger(), 0).Import(context.Background())
	assert.ErrorContains(t, err, "missing file")
	repo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}
