package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/repository"
)

// Factory creates Source implementations based on configuration
type Factory struct {
	logger *logrus.Logger
	repos  *repository.Repositories
}

// NewFactory creates a new source factory. repos may be nil when no
// database is configured.
func NewFactory(repos *repository.Repositories, logger *logrus.Logger) *Factory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Factory{
		logger: logger,
		repos:  repos,
	}
}

// NewSource creates the Source named by the stats configuration
func (f *Factory) NewSource(cfg config.StatsConfig) (Source, error) {
	switch cfg.Source {
	case config.StatsSourceCSV:
		if cfg.Path == "" {
			return nil, fmt.Errorf("csv source requires a path")
		}
		return NewCSVSource(cfg.Path), nil

	case config.StatsSourceHTTP:
		if cfg.URL == "" {
			return nil, fmt.Errorf("http source requires a url")
		}
		return NewHTTPSource(NewRateLimitedHTTPClient(httpClientConfig(cfg.HTTP), f.logger), cfg.URL, cfg.APIKey, f.logger), nil

	case config.StatsSourcePostgres:
		if f.repos == nil {
			return nil, fmt.Errorf("postgres source requires a database connection")
		}
		return NewRepositorySource(f.repos.ServeRecords), nil

	default:
		return nil, fmt.Errorf("unknown stats source: %s", cfg.Source)
	}
}

func httpClientConfig(cfg config.StatsHTTPConfig) HTTPClientConfig {
	out := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		out.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.MaxRetries > 0 {
		out.MaxRetries = cfg.MaxRetries
	}
	if cfg.RateLimit > 0 {
		out.RateLimit = cfg.RateLimit
	}
	return out
}
