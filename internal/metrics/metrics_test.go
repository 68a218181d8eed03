package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordEstimate(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(TrialsTotal)

	RecordEstimate("success", 5000, 0.02)
	RecordEstimate("invalid", 0, 0)

	assert.Equal(t, before+5000, testutil.ToFloat64(TrialsTotal))
	assert.GreaterOrEqual(t, testutil.ToFloat64(EstimatesTotal.WithLabelValues("invalid")), 1.0)
}

func TestRecordQuote(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name        string
		outcome     string
		probability float64
	}{
		{name: "success", outcome: "success", probability: 0.62},
		{name: "degenerate", outcome: "degenerate", probability: 1},
		{name: "rejected", outcome: "invalid", probability: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(QuotesTotal.WithLabelValues(tt.outcome))
			RecordQuote(tt.outcome, tt.probability)
			assert.Equal(t, before+1, testutil.ToFloat64(QuotesTotal.WithLabelValues(tt.outcome)))
		})
	}
}

func TestGauges(t *testing.T) {
	InitRegistry()

	UpdateCacheHitRatio(0.75)
	UpdateLiveSessions(3)
	RecordStatsRefresh("success", 120)

	assert.Equal(t, 0.75, testutil.ToFloat64(StatsCacheHitRatio))
	assert.Equal(t, 3.0, testutil.ToFloat64(LiveSessions))
	assert.Equal(t, 120.0, testutil.ToFloat64(StatsPlayers))
}

func TestHandlerServesMetrics(t *testing.T) {
	InitRegistry()
	RecordLivePoint()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "courtside_live_points_total"))
}
