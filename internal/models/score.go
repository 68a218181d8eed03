package models

import "fmt"

// Player identifies one side of a match
type Player int

const (
	PlayerA Player = iota
	PlayerB
)

// Other returns the opposing player
func (p Player) Other() Player {
	if p == PlayerA {
		return PlayerB
	}
	return PlayerA
}

// Valid reports whether p is PlayerA or PlayerB
func (p Player) Valid() bool {
	return p == PlayerA || p == PlayerB
}

func (p Player) String() string {
	switch p {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	default:
		return fmt.Sprintf("Player(%d)", int(p))
	}
}

// ParsePlayer parses "A"/"B" (case-insensitive)
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "A", "a":
		return PlayerA, nil
	case "B", "b":
		return PlayerB, nil
	}
	return 0, Invalid("player", "unknown player %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (p Player) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid player %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Player) UnmarshalText(text []byte) error {
	parsed, err := ParsePlayer(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ScoreState is a snapshot of a match in progress. It is a plain value:
// copying it gives an independent state.
type ScoreState struct {
	PointsA int    `json:"points_a"`
	PointsB int    `json:"points_b"`
	GamesA  int    `json:"games_a"`
	GamesB  int    `json:"games_b"`
	SetsA   int    `json:"sets_a"`
	SetsB   int    `json:"sets_b"`
	Serving Player `json:"serving"`
}

// NewScoreState returns the zero state with server to serve first
func NewScoreState(server Player) ScoreState {
	return ScoreState{Serving: server}
}

// Points returns p's point count in the current game
func (s ScoreState) Points(p Player) int {
	if p == PlayerA {
		return s.PointsA
	}
	return s.PointsB
}

// Games returns p's game count in the current set
func (s ScoreState) Games(p Player) int {
	if p == PlayerA {
		return s.GamesA
	}
	return s.GamesB
}

// Sets returns p's set count
func (s ScoreState) Sets(p Player) int {
	if p == PlayerA {
		return s.SetsA
	}
	return s.SetsB
}

func (s ScoreState) String() string {
	return fmt.Sprintf("sets %d-%d games %d-%d points %d-%d (%s serving)",
		s.SetsA, s.SetsB, s.GamesA, s.GamesB, s.PointsA, s.PointsB, s.Serving)
}
