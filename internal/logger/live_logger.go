package logger

import (
	"github.com/sirupsen/logrus"
)

// LiveLogger provides dedicated logging for live match sessions.
type LiveLogger struct {
	*logrus.Entry
}

// NewLiveLogger creates a new live session logger.
func NewLiveLogger(baseLogger *logrus.Logger) *LiveLogger {
	return &LiveLogger{
		Entry: baseLogger.WithField("component", "live"),
	}
}

// LogSessionOpened logs a new session.
func (ll *LiveLogger) LogSessionOpened(sessionID, playerA, playerB string, bestOf int) {
	ll.WithFields(logrus.Fields{
		"session_id": sessionID,
		"player_a":   playerA,
		"player_b":   playerB,
		"best_of":    bestOf,
		"event_type": "opened",
	}).Info("Live session opened")
}

// LogPoint logs a scored point and the refreshed estimate.
func (ll *LiveLogger) LogPoint(sessionID, winner, score string, winProbabilityA float64) {
	ll.WithFields(logrus.Fields{
		"session_id":        sessionID,
		"point_winner":      winner,
		"score":             score,
		"win_probability_a": winProbabilityA,
	}).Info("Live point scored")
}

// LogSessionClosed logs a closed or finished session.
func (ll *LiveLogger) LogSessionClosed(sessionID, reason string) {
	ll.WithFields(logrus.Fields{
		"session_id": sessionID,
		"event_type": "closed",
		"reason":     reason,
	}).Info("Live session closed")
}

// LogSubscriberDropped logs a websocket client removed after a failed write.
func (ll *LiveLogger) LogSubscriberDropped(sessionID string, err error) {
	ll.WithFields(logrus.Fields{
		"session_id": sessionID,
	}).WithError(err).Warn("Live subscriber dropped")
}
