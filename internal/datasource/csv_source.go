package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/courtside/internal/models"
)

const csvSourceName = "csv"

// Column names of the historical dataset
const (
	ColumnPlayerA   = "player_a"
	ColumnServeWinA = "serve_win_pct_a"
	ColumnPlayerB   = "player_b"
	ColumnServeWinB = "serve_win_pct_b"
	ColumnPlayedAt  = "played_at"
)

var (
	hundred         = decimal.NewFromInt(100)
	requiredColumns = []string{ColumnPlayerA, ColumnServeWinA, ColumnPlayerB, ColumnServeWinB}
)

// CSVSource reads serve records from a dataset file
type CSVSource struct {
	path string
}

// NewCSVSource creates a source for the dataset at path
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Name returns the source name
func (s *CSVSource) Name() string {
	return csvSourceName
}

// Records reads and parses the whole dataset
func (s *CSVSource) Records(ctx context.Context) ([]models.ServeRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewSourceError(csvSourceName, ErrCodeNotFound, "dataset not found at "+s.path, err)
		}
		return nil, NewSourceError(csvSourceName, ErrCodeInvalidData, "failed to open dataset", err)
	}
	defer f.Close()

	return ParseCSV(ctx, f)
}

// ParseCSV parses dataset rows. Header names are matched case-insensitively;
// serve percentages may be fractions (0.63) or percents (63).
func ParseCSV(ctx context.Context, r io.Reader) ([]models.ServeRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, NewSourceError(csvSourceName, ErrCodeInvalidData, "failed to read header", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, NewSourceError(csvSourceName, ErrCodeInvalidData, "missing column "+col, ErrInvalidData)
		}
	}
	playedAtCol, hasPlayedAt := index[ColumnPlayedAt]

	var records []models.ServeRecord
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewSourceError(csvSourceName, ErrCodeInvalidData, fmt.Sprintf("line %d", line), err)
		}

		rec := models.ServeRecord{
			PlayerA: strings.TrimSpace(row[index[ColumnPlayerA]]),
			PlayerB: strings.TrimSpace(row[index[ColumnPlayerB]]),
		}
		if rec.ServeWinA, err = parseServePct(row[index[ColumnServeWinA]]); err != nil {
			return nil, NewSourceError(csvSourceName, ErrCodeInvalidData, fmt.Sprintf("line %d: %s", line, ColumnServeWinA), err)
		}
		if rec.ServeWinB, err = parseServePct(row[index[ColumnServeWinB]]); err != nil {
			return nil, NewSourceError(csvSourceName, ErrCodeInvalidData, fmt.Sprintf("line %d: %s", line, ColumnServeWinB), err)
		}
		if hasPlayedAt {
			if rec.PlayedAt, err = parsePlayedAt(row[playedAtCol]); err != nil {
				return nil, NewSourceError(csvSourceName, ErrCodeInvalidData, fmt.Sprintf("line %d: %s", line, ColumnPlayedAt), err)
			}
		}
		if err := ValidateRecord(rec); err != nil {
			return nil, NewSourceError(csvSourceName, ErrCodeInvalidData, fmt.Sprintf("line %d", line), err)
		}

		records = append(records, rec)
	}

	return records, nil
}

func parseServePct(raw string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidData, raw)
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		d = d.Div(hundred)
	}
	f, _ := d.Float64()
	return f, nil
}

func parsePlayedAt(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: unrecognised date %q", ErrInvalidData, raw)
}
