package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/courtside/internal/live"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/service"
	"github.com/yourusername/courtside/internal/simulation"
	"github.com/yourusername/courtside/internal/stats"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) ServeStats(ctx context.Context, playerA, playerB string) (models.ServeStats, error) {
	args := m.Called(ctx, playerA, playerB)
	return args.Get(0).(models.ServeStats), args.Error(1)
}

func (m *mockProvider) Players(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockProvider) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestHandler(t *testing.T, provider stats.Provider) *Handler {
	t.Helper()
	log := quietLogger()
	est := simulation.NewEstimator(simulation.EstimatorConfig{Workers: 2, Seed: 7}, log)

	pricing := service.NewPricingService(est, provider, service.PricingConfig{
		BestOf:          3,
		Decider:         models.DeciderWeightedTrial,
		FirstServer:     models.PlayerA,
		Trials:          2000,
		KellyMultiplier: 1,
	}, log)

	hub := live.NewHub(nil, log)
	sessions := live.NewManager(est, provider, hub, live.Config{
		BestOf:      3,
		Decider:     models.DeciderWeightedTrial,
		FirstServer: models.PlayerA,
		Trials:      500,
	}, log)

	return NewHandler(pricing, provider, sessions, hub, log)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateQuote(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(t, h, http.MethodPost, "/v1/quotes", `{"serve_a":0.7,"serve_b":0.6,"trials":2000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var q struct {
		Result struct {
			WinProbabilityA float64 `json:"win_probability_a"`
			WinProbabilityB float64 `json:"win_probability_b"`
		} `json:"result"`
		Degenerate bool `json:"degenerate"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.InDelta(t, 1.0, q.Result.WinProbabilityA+q.Result.WinProbabilityB, 1e-9)
	assert.Greater(t, q.Result.WinProbabilityA, 0.5)
	assert.False(t, q.Degenerate)
}

func TestCreateQuote_Errors(t *testing.T) {
	provider := new(mockProvider)
	provider.On("ServeStats", mock.Anything, "Alpha", "Beta").
		Return(models.ServeStats{}, &models.NoMatchupError{PlayerA: "Alpha", PlayerB: "Beta"})
	h := newTestHandler(t, provider)

	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{name: "malformed body", body: `{"serve_a":`, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"serve_c":0.5}`, status: http.StatusBadRequest},
		{name: "probability out of range", body: `{"serve_a":1.5,"serve_b":0.6}`, status: http.StatusBadRequest, field: "serve_a"},
		{name: "invalid best of", body: `{"serve_a":0.6,"serve_b":0.6,"best_of":4}`, status: http.StatusBadRequest, field: "best_of"},
		{name: "unknown matchup", body: `{"player_a":"Alpha","player_b":"Beta"}`, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/quotes", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			if tt.field != "" {
				assert.Equal(t, tt.field, resp.Field)
			}
		})
	}
}

func TestListPlayers(t *testing.T) {
	t.Run("no provider", func(t *testing.T) {
		h := newTestHandler(t, nil)
		rec := do(t, h, http.MethodGet, "/v1/players", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("lists players", func(t *testing.T) {
		provider := new(mockProvider)
		provider.On("Players", mock.Anything).Return([]string{"Alpha", "Beta"}, nil)
		h := newTestHandler(t, provider)

		rec := do(t, h, http.MethodGet, "/v1/players", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp PlayersResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []string{"Alpha", "Beta"}, resp.Players)
	})
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(t, h, http.MethodPost, "/v1/sessions", `{"player_a":"Alpha","player_b":"Beta","serve_a":0.65,"serve_b":0.62}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created live.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "/v1/sessions/"+created.ID.String(), rec.Header().Get("Location"))
	assert.Equal(t, "Alpha", created.PlayerA)

	path := "/v1/sessions/" + created.ID.String()

	rec = do(t, h, http.MethodPost, path+"/points", `{"winner":"A"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var update live.Update
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &update))
	assert.Equal(t, 1, update.Point)
	assert.Equal(t, models.PlayerA, update.PointWinner)
	assert.Equal(t, 1, update.State.PointsA)

	rec = do(t, h, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap live.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.Points)

	rec = do(t, h, http.MethodPost, path+"/points", `{"winner":"C"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionFinishedConflict(t *testing.T) {
	h := newTestHandler(t, nil)

	// One point from match point: 40-0, 5-0, one set up.
	body := `{"player_a":"Alpha","player_b":"Beta","serve_a":0.6,"serve_b":0.6,` +
		`"resume":{"points_a":3,"games_a":5,"sets_a":1,"serving":"A"}}`
	rec := do(t, h, http.MethodPost, "/v1/sessions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created live.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	path := "/v1/sessions/" + created.ID.String() + "/points"

	rec = do(t, h, http.MethodPost, path, `{"winner":"A"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var update live.Update
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &update))
	require.NotNil(t, update.Winner)
	assert.Equal(t, models.PlayerA, *update.Winner)
	assert.Equal(t, 1.0, update.Result.WinProbabilityA)

	rec = do(t, h, http.MethodPost, path, `{"winner":"B"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSessionIDValidation(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(t, h, http.MethodGet, "/v1/sessions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/sessions/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/sessions/"+uuid.NewString()+"/ws", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := do(t, h, http.MethodGet, "/v1/quotes", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{models.Invalid("best_of", "must be 3 or 5"), http.StatusBadRequest},
		{&models.NoMatchupError{PlayerA: "a", PlayerB: "b"}, http.StatusNotFound},
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrMatchFinished, http.StatusConflict},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{context.Canceled, http.StatusRequestTimeout},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.err.Error(), " ", "_"), func(t *testing.T) {
			assert.Equal(t, tt.status, StatusFor(tt.err))
		})
	}
}
