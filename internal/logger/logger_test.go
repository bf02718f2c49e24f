package logger

import (
	"bytes"
	"encoding/json"
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

func TestNewLoggerDefaultsToInfoOnInvalidLevel(t *testing.T) {
	log := NewLogger("not-a-level")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestBacktestLoggerFoldCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	btLogger := NewBacktestLogger(log)

	btLogger.LogFoldCompleted("GSPC", 2500, 2500, 250, 250)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "backtest", logEntry["component"])
	assert.Equal(t, "GSPC", logEntry["symbol"])
	assert.Equal(t, float64(2500), logEntry["split_index"])
}

func TestBacktestLoggerFoldSkipped(t *testing.T) {
	log, buf := setupTestLogger()
	btLogger := NewBacktestLogger(log)

	btLogger.LogFoldSkipped("GSPC", 2750, "missing predictor column")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "missing predictor column", logEntry["reason"])
}

func TestBacktestLoggerOracleLookupError(t *testing.T) {
	log, buf := setupTestLogger()
	btLogger := NewBacktestLogger(log)

	btLogger.LogOracleLookupError("GSPC", "2026-08-01", "connection refused")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "connection refused", logEntry["error_reason"])
}
