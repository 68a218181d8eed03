package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerWithOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLoggerWithOutput("debug", "production", buf)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.Info("hello")
	entry := parseLogOutput(buf)
	require.NotNil(t, entry, "production logs are JSON")
	assert.Equal(t, "hello", entry["msg"])
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	log := NewLoggerWithOutput("loud", "development", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestPricingLoggerQuote(t *testing.T) {
	log, buf := setupTestLogger()
	pricingLogger := NewPricingLogger(log)

	pricingLogger.LogQuote("Sinner", "Alcaraz", 5, 100000, 0.54, "head_to_head", 420)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "pricing", logEntry["component"])
	assert.Equal(t, "Sinner", logEntry["player_a"])
	assert.Equal(t, 0.54, logEntry["win_probability_a"])
}

func TestPricingLoggerStakeDecision(t *testing.T) {
	log, buf := setupTestLogger()
	pricingLogger := NewPricingLogger(log)

	pricingLogger.LogStakeDecision("A", 0.6, 2.1, 0.236, "23.64", true)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "23.64", logEntry["stake"])
	assert.Equal(t, "debug", logEntry["level"])
}

func TestPricingLoggerDegenerate(t *testing.T) {
	log, buf := setupTestLogger()
	NewPricingLogger(log).LogDegenerate("A", "B", 1)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
}

func TestLiveLoggerSession(t *testing.T) {
	log, buf := setupTestLogger()
	liveLogger := NewLiveLogger(log)

	liveLogger.LogSessionClosed("session_1", "match_finished")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "live", logEntry["component"])
	assert.Equal(t, "closed", logEntry["event_type"])
	assert.Equal(t, "match_finished", logEntry["reason"])
}

func TestLiveLoggerSubscriberDropped(t *testing.T) {
	log, buf := setupTestLogger()
	NewLiveLogger(log).LogSubscriberDropped("session_1", errors.New("broken pipe"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "broken pipe", logEntry["error"])
}
