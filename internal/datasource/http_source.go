package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/models"
)

const httpSourceName = "http"

// HTTPSource fetches a JSON list of serve records from a stats service
type HTTPSource struct {
	httpClient *RateLimitedHTTPClient
	url        string
	apiKey     string
	logger     *logrus.Logger
}

// NewHTTPSource creates a source backed by the given client
func NewHTTPSource(httpClient *RateLimitedHTTPClient, url, apiKey string, logger *logrus.Logger) *HTTPSource {
	if logger == nil {
		logger = logrus.New()
	}
	return &HTTPSource{
		httpClient: httpClient,
		url:        url,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Name returns the source name
func (s *HTTPSource) Name() string {
	return httpSourceName
}

// Records fetches the record list. Invalid entries are skipped and logged.
func (s *HTTPSource) Records(ctx context.Context) ([]models.ServeRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, NewSourceError(httpSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewSourceError(httpSourceName, ErrCodeNetworkError, "failed to fetch serve records", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewSourceError(httpSourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewSourceError(httpSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewSourceError(httpSourceName, ErrCodeNotFound, "no records at "+s.url, nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewSourceError(httpSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var raw []models.ServeRecord
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, NewSourceError(httpSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	records := make([]models.ServeRecord, 0, len(raw))
	for i, rec := range raw {
		if err := ValidateRecord(rec); err != nil {
			s.logger.WithError(err).WithField("index", i).Warn("Skipping invalid serve record")
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}
