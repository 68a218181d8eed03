package models

import "time"

// ServeRecord is one historical match row: each player's share of points
// won on their own serve
type ServeRecord struct {
	PlayerA   string     `db:"player_a" json:"player_a"`
	PlayerB   string     `db:"player_b" json:"player_b"`
	ServeWinA float64    `db:"serve_win_a" json:"serve_win_a"`
	ServeWinB float64    `db:"serve_win_b" json:"serve_win_b"`
	PlayedAt  *time.Time `db:"played_at" json:"played_at,omitempty"`
}

// StatSource records how a pair of serve probabilities was resolved
type StatSource string

const (
	StatSourceHeadToHead        StatSource = "head_to_head"
	StatSourcePlayerAverage     StatSource = "player_average"
	StatSourcePopulationAverage StatSource = "population_average"
	StatSourceFixed             StatSource = "fixed"
	StatSourceExplicit          StatSource = "explicit"
)

// ServeStats is the provider's answer for a pairing
type ServeStats struct {
	PlayerA string     `json:"player_a"`
	PlayerB string     `json:"player_b"`
	ServeA  float64    `json:"serve_a"`
	ServeB  float64    `json:"serve_b"`
	Source  StatSource `json:"source"`
	Samples int        `json:"samples"`
}
