package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework_notification_bot/internal/infra/config"
)

// resetLog restores the global logger after a test reconfigures it.
func resetLog(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		Log.SetOutput(os.Stderr)
		Log.SetLevel(logrus.InfoLevel)
		Log.SetFormatter(&logrus.TextFormatter{})
	})
}

func TestInit_LevelAndFormatter(t *testing.T) {
	resetLog(t)

	require.NoError(t, Init(&config.AppConfig{LogLevel: "debug", Environment: "production"}))
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, Log.Formatter)

	require.NoError(t, Init(&config.AppConfig{LogLevel: "warn", Environment: "development"}))
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, Log.Formatter)
}

func TestInit_InvalidLevelFallsBackToInfo(t *testing.T) {
	resetLog(t)

	require.NoError(t, Init(&config.AppConfig{LogLevel: "chatty"}))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}

func TestInit_LogFile(t *testing.T) {
	resetLog(t)

	path := filepath.Join(t.TempDir(), "program.log")
	require.NoError(t, Init(&config.AppConfig{LogLevel: "info", Environment: "production", LogFile: path}))

	Component("poll").Info("cycle finished")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	assert.Equal(t, "cycle finished", entry["msg"])
	assert.Equal(t, "poll", entry["component"])
}

func TestInit_LogFileUnwritable(t *testing.T) {
	resetLog(t)

	err := Init(&config.AppConfig{LogFile: filepath.Join(t.TempDir(), "missing-dir", "program.log")})
	require.Error(t, err)
}
