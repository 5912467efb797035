package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Unknown levels are rejected.
func TestNewLoggerLevel(t *testing.T) {
	_, err := NewLogger("loud", "text", "")
	assert.Error(t, err)

	log, err := NewLogger("debug", "text", "")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

// JSON output is tee'd into the log file.
func TestNewLoggerJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.log")
	log, err := NewLogger("info", "json", path)
	require.NoError(t, err)
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log.WithField("session", "s-1").Info("session closed")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"session":"s-1"`)
}
