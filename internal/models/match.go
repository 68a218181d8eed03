package models

import (
	"fmt"
	"math"
)

// Decider selects how a set standing at 6-6 is resolved
type Decider string

const (
	// DeciderWeightedTrial settles the set with one draw weighted by the
	// players' relative serve strength, independent of who serves.
	DeciderWeightedTrial Decider = "weighted_trial"
	// DeciderTiebreak plays a first-to-7, win-by-2 tie-break.
	DeciderTiebreak Decider = "tiebreak"
)

// Valid reports whether d is a known decider
func (d Decider) Valid() bool {
	return d == DeciderWeightedTrial || d == DeciderTiebreak
}

// MatchParameters configures a single estimate
type MatchParameters struct {
	ServeA  float64 `json:"serve_a"`
	ServeB  float64 `json:"serve_b"`
	BestOf  int     `json:"best_of"`
	Decider Decider `json:"decider,omitempty"`
}

// ServeProbability returns the point-win probability of p on serve
func (m MatchParameters) ServeProbability(p Player) float64 {
	if p == PlayerA {
		return m.ServeA
	}
	return m.ServeB
}

// DeciderShareA returns the chance that A takes a set settled by a weighted
// draw: A's serve strength relative to both players'. It does not depend on
// who serves at 6-6.
func (m MatchParameters) DeciderShareA() float64 {
	total := m.ServeA + m.ServeB
	if total <= 0 {
		return 0.5
	}
	return m.ServeA / total
}

// SetsToWin returns the majority threshold for the format
func (m MatchParameters) SetsToWin() int {
	return m.BestOf/2 + 1
}

// WithDefaults fills the zero-valued decider
func (m MatchParameters) WithDefaults() MatchParameters {
	if m.Decider == "" {
		m.Decider = DeciderWeightedTrial
	}
	return m
}

// Validate checks the parameters without looking at any score
func (m MatchParameters) Validate() error {
	if m.BestOf != 3 && m.BestOf != 5 {
		return Invalid("best_of", "must be 3 or 5, got %d", m.BestOf)
	}
	if !validProbability(m.ServeA) {
		return Invalid("serve_a", "must be in (0,1], got %v", m.ServeA)
	}
	if !validProbability(m.ServeB) {
		return Invalid("serve_b", "must be in (0,1], got %v", m.ServeB)
	}
	d := m.WithDefaults().Decider
	if !d.Valid() {
		return Invalid("decider", "unknown decider %q", d)
	}
	if d == DeciderTiebreak && m.ServeA == 1 && m.ServeB == 1 {
		return Invalid("decider", "tiebreak never finishes when both players hold every serve point")
	}
	return nil
}

func validProbability(p float64) bool {
	return p > 0 && p <= 1
}

// SimulationResult is the aggregate of a Monte Carlo estimate
type SimulationResult struct {
	WinProbabilityA float64 `json:"win_probability_a"`
	WinProbabilityB float64 `json:"win_probability_b"`
	WinsA           int     `json:"wins_a"`
	Trials          int     `json:"trials"`
}

// NewSimulationResult derives both probabilities from a win count
func NewSimulationResult(winsA, trials int) SimulationResult {
	pa := float64(winsA) / float64(trials)
	return SimulationResult{
		WinProbabilityA: pa,
		WinProbabilityB: 1 - pa,
		WinsA:           winsA,
		Trials:          trials,
	}
}

// WinProbability returns the estimate for p
func (r SimulationResult) WinProbability(p Player) float64 {
	if p == PlayerA {
		return r.WinProbabilityA
	}
	return r.WinProbabilityB
}

// StandardError returns sqrt(p(1-p)/N) for the estimate
func (r SimulationResult) StandardError() float64 {
	if r.Trials == 0 {
		return 0
	}
	p := r.WinProbabilityA
	return math.Sqrt(p * (1 - p) / float64(r.Trials))
}

func (r SimulationResult) String() string {
	return fmt.Sprintf("A %.4f / B %.4f over %d trials", r.WinProbabilityA, r.WinProbabilityB, r.Trials)
}
