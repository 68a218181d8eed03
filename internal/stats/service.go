package stats

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/datasource"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
)

const tableKey = "serve_table"

// Fallback is the opt-in default for players without records
type Fallback struct {
	Mode  string
	Value float64
}

// Service implements Provider over a datasource with a TTL cache
type Service struct {
	source   datasource.Source
	cache    *cache.Cache
	ttl      time.Duration
	fallback Fallback
	logger   *logger.PricingLogger

	loadMu    sync.Mutex
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewService creates a stats service reading from source
func NewService(source datasource.Source, ttl time.Duration, fallback Fallback, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	if fallback.Mode == "" {
		fallback.Mode = config.FallbackNone
	}
	return &Service{
		source:   source,
		cache:    cache.New(ttl, ttl*2),
		ttl:      ttl,
		fallback: fallback,
		logger:   logger.NewPricingLogger(log),
	}
}

// NewServiceFromConfig wires a service from the stats configuration
func NewServiceFromConfig(source datasource.Source, cfg config.StatsConfig, log *logrus.Logger) *Service {
	return NewService(source, cfg.CacheTTL(), Fallback{Mode: cfg.Fallback.Mode, Value: cfg.Fallback.Value}, log)
}

// ServeStats resolves the pairing. Head-to-head meetings win, then each
// player's overall mean, then the configured fallback.
func (s *Service) ServeStats(ctx context.Context, playerA, playerB string) (models.ServeStats, error) {
	playerA, playerB = strings.TrimSpace(playerA), strings.TrimSpace(playerB)
	if playerA == "" {
		return models.ServeStats{}, models.Invalid("player_a", "name is required")
	}
	if playerB == "" {
		return models.ServeStats{}, models.Invalid("player_b", "name is required")
	}
	if playerA == playerB {
		return models.ServeStats{}, models.Invalid("player_b", "must differ from player_a")
	}

	table, err := s.table(ctx)
	if err != nil {
		return models.ServeStats{}, err
	}

	out := models.ServeStats{PlayerA: playerA, PlayerB: playerB}

	if a, b, n, ok := table.HeadToHead(playerA, playerB); ok {
		out.ServeA, out.ServeB, out.Samples = a, b, n
		out.Source = models.StatSourceHeadToHead
		return out, nil
	}

	meanA, nA, okA := table.PlayerMean(playerA)
	meanB, nB, okB := table.PlayerMean(playerB)
	if okA && okB {
		out.ServeA, out.ServeB, out.Samples = meanA, meanB, nA+nB
		out.Source = models.StatSourcePlayerAverage
		return out, nil
	}

	fallback, source, ok := s.fallbackValue(table)
	if !ok {
		return models.ServeStats{}, &models.NoMatchupError{PlayerA: playerA, PlayerB: playerB}
	}

	out.ServeA, out.ServeB, out.Samples = meanA, meanB, nA+nB
	if !okA {
		out.ServeA = fallback
	}
	if !okB {
		out.ServeB = fallback
	}
	out.Source = source
	return out, nil
}

func (s *Service) fallbackValue(table *Table) (float64, models.StatSource, bool) {
	switch s.fallback.Mode {
	case config.FallbackPopulationAverage:
		v, ok := table.PopulationMean()
		return v, models.StatSourcePopulationAverage, ok
	case config.FallbackFixed:
		return s.fallback.Value, models.StatSourceFixed, s.fallback.Value > 0 && s.fallback.Value <= 1
	default:
		return 0, "", false
	}
}

// Players lists every player in the current table
func (s *Service) Players(ctx context.Context) ([]string, error) {
	table, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	return table.Players(), nil
}

// Ping loads the table if it is not cached
func (s *Service) Ping(ctx context.Context) error {
	_, err := s.table(ctx)
	return err
}

// Refresh reloads the table from the source and replaces the cached copy
func (s *Service) Refresh(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	_, err := s.load(ctx)
	return err
}

func (s *Service) table(ctx context.Context) (*Table, error) {
	if t, ok := s.cached(); ok {
		return t, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if v, found := s.cache.Get(tableKey); found {
		return v.(*Table), nil
	}
	return s.load(ctx)
}

func (s *Service) cached() (*Table, bool) {
	v, found := s.cache.Get(tableKey)

	s.mu.Lock()
	if found {
		s.hitCount++
	} else {
		s.missCount++
	}
	s.mu.Unlock()
	s.updateMetrics()

	if !found {
		return nil, false
	}
	return v.(*Table), true
}

func (s *Service) load(ctx context.Context) (*Table, error) {
	start := time.Now()

	records, err := s.source.Records(ctx)
	if err != nil {
		metrics.RecordStatsRefresh("error", 0)
		s.logger.WithError(err).WithField("source", s.source.Name()).Error("Serve statistics refresh failed")
		return nil, fmt.Errorf("failed to load serve records from %s: %w", s.source.Name(), err)
	}

	table := BuildTable(records)
	s.cache.Set(tableKey, table, s.ttl)

	players := len(table.Players())
	metrics.RecordStatsRefresh("success", players)
	s.logger.LogStatsRefresh(s.source.Name(), table.Len(), players, time.Since(start).Milliseconds())

	return table, nil
}

// Stats returns cache statistics
func (s *Service) Stats() (hits, misses uint64, ratio float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits = s.hitCount
	misses = s.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (s *Service) updateMetrics() {
	_, _, ratio := s.Stats()
	metrics.UpdateCacheHitRatio(ratio)
}
