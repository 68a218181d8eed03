package scoring

import (
	"github.com/yourusername/courtside/internal/models"
)

// Validate rejects snapshots that no legal sequence of points could leave
// behind mid-match, including one whose match is already decided.
func (r Rules) Validate(s models.ScoreState) error {
	if !s.Serving.Valid() {
		return models.Invalid("serving", "unknown server %d", int(s.Serving))
	}
	if s.PointsA < 0 || s.PointsB < 0 || s.GamesA < 0 || s.GamesB < 0 || s.SetsA < 0 || s.SetsB < 0 {
		return models.Invalid("score", "counters must be non-negative: %s", s)
	}
	if s.SetsA >= r.SetsToWin || s.SetsB >= r.SetsToWin {
		return models.Invalid("sets", "match already decided at %d-%d", s.SetsA, s.SetsB)
	}
	if s.GamesA > gamesToWinSet || s.GamesB > gamesToWinSet {
		return models.Invalid("games", "games %d-%d exceed a set", s.GamesA, s.GamesB)
	}
	if won(s.GamesA, s.GamesB, gamesToWinSet) || won(s.GamesB, s.GamesA, gamesToWinSet) {
		return models.Invalid("games", "set already won at %d-%d", s.GamesA, s.GamesB)
	}

	if r.InDecider(s) {
		if won(s.PointsA, s.PointsB, pointsToWinTiebreak) || won(s.PointsB, s.PointsA, pointsToWinTiebreak) {
			return models.Invalid("points", "tie-break already won at %d-%d", s.PointsA, s.PointsB)
		}
		return nil
	}

	if won(s.PointsA, s.PointsB, pointsToWinGame) || won(s.PointsB, s.PointsA, pointsToWinGame) {
		return models.Invalid("points", "game already won at %d-%d", s.PointsA, s.PointsB)
	}
	return nil
}
