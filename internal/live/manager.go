package live

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/scoring"
	"github.com/yourusername/courtside/internal/stats"
)

// Estimator produces a win probability from match parameters and a score
type Estimator interface {
	Estimate(ctx context.Context, params models.MatchParameters, start models.ScoreState, trials int) (models.SimulationResult, error)
}

// Config holds the defaults applied to new sessions
type Config struct {
	BestOf      int
	Decider     models.Decider
	FirstServer models.Player
	Trials      int
}

type entry struct {
	mu      sync.Mutex
	session Session
	rules   scoring.Rules
}

// Manager owns every open session
type Manager struct {
	estimator Estimator
	provider  stats.Provider
	publisher Publisher
	cfg       Config
	logger    *logger.LiveLogger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
}

// NewManager creates a session manager. provider may be nil when sessions
// always carry explicit serve probabilities; publisher may be nil.
func NewManager(estimator Estimator, provider stats.Provider, publisher Publisher, cfg Config, log *logrus.Logger) *Manager {
	if log == nil {
		log = logrus.New()
	}
	if cfg.Trials <= 0 {
		cfg.Trials = 5000
	}
	if !cfg.FirstServer.Valid() {
		cfg.FirstServer = models.PlayerA
	}
	return &Manager{
		estimator: estimator,
		provider:  provider,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.NewLiveLogger(log),
		sessions:  make(map[uuid.UUID]*entry),
	}
}

// Create opens a session at the zero score, or at opts.Resume after
// validating it, and computes the opening estimate.
func (m *Manager) Create(ctx context.Context, playerA, playerB string, opts Options) (*Session, error) {
	playerA, playerB = strings.TrimSpace(playerA), strings.TrimSpace(playerB)

	st, err := m.serveStats(ctx, playerA, playerB, opts)
	if err != nil {
		return nil, err
	}

	params := models.MatchParameters{
		ServeA:  st.ServeA,
		ServeB:  st.ServeB,
		BestOf:  opts.BestOf,
		Decider: opts.Decider,
	}
	if params.BestOf == 0 {
		params.BestOf = m.cfg.BestOf
	}
	if params.Decider == "" {
		params.Decider = m.cfg.Decider
	}
	params = params.WithDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	trials := opts.Trials
	if trials == 0 {
		trials = m.cfg.Trials
	}
	if trials < 0 {
		return nil, models.Invalid("trial_count", "must be positive, got %d", trials)
	}

	first := m.cfg.FirstServer
	if opts.FirstServer != nil {
		first = *opts.FirstServer
	}
	state := models.NewScoreState(first)
	if opts.Resume != nil {
		state = *opts.Resume
	}

	rules := scoring.NewRules(params)
	if err := rules.Validate(state); err != nil {
		return nil, err
	}

	result, err := m.estimator.Estimate(ctx, params, state, trials)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	e := &entry{
		rules: rules,
		session: Session{
			ID:         uuid.New(),
			PlayerA:    labelOr(playerA, "A"),
			PlayerB:    labelOr(playerB, "B"),
			Parameters: params,
			Stats:      st,
			State:      state,
			Result:     result,
			Trials:     trials,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}

	m.mu.Lock()
	m.sessions[e.session.ID] = e
	active := len(m.sessions)
	m.mu.Unlock()

	metrics.UpdateLiveSessions(active)
	m.logger.LogSessionOpened(e.session.ID.String(), e.session.PlayerA, e.session.PlayerB, params.BestOf)

	snapshot := e.session
	return &snapshot, nil
}

// ScorePoint records a point won by winner, re-estimates from the new score
// and publishes the update. Scoring a decided match fails with
// models.ErrMatchFinished.
func (m *Manager) ScorePoint(ctx context.Context, id uuid.UUID, winner models.Player) (Update, error) {
	if !winner.Valid() {
		return Update{}, models.Invalid("winner", "must be A or B")
	}

	e, err := m.lookup(id)
	if err != nil {
		return Update{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Finished() {
		return Update{}, fmt.Errorf("session %s: %w", id, models.ErrMatchFinished)
	}

	next := e.rules.AwardPoint(e.session.State, winner)

	var result models.SimulationResult
	matchWinner, decided := e.rules.Winner(next)
	if decided {
		result = decidedResult(matchWinner)
	} else {
		result, err = m.estimator.Estimate(ctx, e.session.Parameters, next, e.session.Trials)
		if err != nil {
			return Update{}, err
		}
	}

	now := time.Now().UTC()
	e.session.State = next
	e.session.Result = result
	e.session.Points++
	e.session.UpdatedAt = now
	if decided {
		w := matchWinner
		e.session.Winner = &w
	}

	update := Update{
		SessionID:   id,
		Point:       e.session.Points,
		PointWinner: winner,
		State:       next,
		Score:       next.String(),
		Result:      result,
		Winner:      e.session.Winner,
		At:          now,
	}

	metrics.RecordLivePoint()
	m.logger.LogPoint(id.String(), winner.String(), update.Score, result.WinProbabilityA)
	if m.publisher != nil {
		m.publisher.Publish(id, update)
	}
	if decided {
		m.logger.LogSessionClosed(id.String(), "match decided, winner "+matchWinner.String())
	}

	return update, nil
}

// Snapshot returns a copy of the session
func (m *Manager) Snapshot(id uuid.UUID) (Session, error) {
	e, err := m.lookup(id)
	if err != nil {
		return Session{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session, nil
}

// Close removes the session and disconnects its subscribers
func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	active := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}

	metrics.UpdateLiveSessions(active)
	if m.publisher != nil {
		m.publisher.CloseSession(id)
	}
	m.logger.LogSessionClosed(id.String(), "closed")
	return nil
}

// Active returns the number of open sessions
func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Exists reports whether id names an open session
func (m *Manager) Exists(id uuid.UUID) bool {
	_, err := m.lookup(id)
	return err == nil
}

func (m *Manager) lookup(id uuid.UUID) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}
	return e, nil
}

func (m *Manager) serveStats(ctx context.Context, playerA, playerB string, opts Options) (models.ServeStats, error) {
	switch {
	case opts.ServeA != nil && opts.ServeB != nil:
		return models.ServeStats{
			PlayerA: playerA,
			PlayerB: playerB,
			ServeA:  *opts.ServeA,
			ServeB:  *opts.ServeB,
			Source:  models.StatSourceExplicit,
		}, nil
	case opts.ServeA != nil:
		return models.ServeStats{}, models.Invalid("serve_b", "required when serve_a is given")
	case opts.ServeB != nil:
		return models.ServeStats{}, models.Invalid("serve_a", "required when serve_b is given")
	case m.provider == nil:
		return models.ServeStats{}, models.Invalid("serve_a", "serve probabilities are required without a stats provider")
	}
	return m.provider.ServeStats(ctx, playerA, playerB)
}

func labelOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
