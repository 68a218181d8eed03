// Package stats aggregates historical serve records into per-player and
// head-to-head serve-win probabilities.
package stats

import (
	"sort"

	"github.com/yourusername/courtside/internal/models"
)

type mean struct {
	sum   float64
	count int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.count++
}

func (m mean) value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

type pairKey struct {
	a, b string
}

type pairMean struct {
	serveA mean
	serveB mean
}

// Table is an immutable aggregate over a set of serve records
type Table struct {
	players    map[string]mean
	pairs      map[pairKey]*pairMean
	population mean
	records    int
}

// BuildTable aggregates records. Each record contributes one sample to each
// player's mean, one to the ordered pair and two to the population mean.
func BuildTable(records []models.ServeRecord) *Table {
	t := &Table{
		players: make(map[string]mean),
		pairs:   make(map[pairKey]*pairMean),
		records: len(records),
	}

	for _, rec := range records {
		a := t.players[rec.PlayerA]
		a.add(rec.ServeWinA)
		t.players[rec.PlayerA] = a

		b := t.players[rec.PlayerB]
		b.add(rec.ServeWinB)
		t.players[rec.PlayerB] = b

		key := pairKey{rec.PlayerA, rec.PlayerB}
		pm, ok := t.pairs[key]
		if !ok {
			pm = &pairMean{}
			t.pairs[key] = pm
		}
		pm.serveA.add(rec.ServeWinA)
		pm.serveB.add(rec.ServeWinB)

		t.population.add(rec.ServeWinA)
		t.population.add(rec.ServeWinB)
	}

	return t
}

// HeadToHead returns the mean serve-win of a and b over their meetings.
// Meetings recorded as (b, a) are used, swapped, when (a, b) has none.
func (t *Table) HeadToHead(a, b string) (serveA, serveB float64, samples int, ok bool) {
	if pm, found := t.pairs[pairKey{a, b}]; found {
		return pm.serveA.value(), pm.serveB.value(), pm.serveA.count, true
	}
	if pm, found := t.pairs[pairKey{b, a}]; found {
		return pm.serveB.value(), pm.serveA.value(), pm.serveA.count, true
	}
	return 0, 0, 0, false
}

// PlayerMean returns a player's mean serve-win across all their records
func (t *Table) PlayerMean(name string) (float64, int, bool) {
	m, ok := t.players[name]
	if !ok {
		return 0, 0, false
	}
	return m.value(), m.count, true
}

// PopulationMean returns the mean serve-win across every player-record
func (t *Table) PopulationMean() (float64, bool) {
	if t.population.count == 0 {
		return 0, false
	}
	return t.population.value(), true
}

// Players returns the known player names in sorted order
func (t *Table) Players() []string {
	names := make([]string, 0, len(t.players))
	for name := range t.players {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of aggregated records
func (t *Table) Len() int {
	return t.records
}
