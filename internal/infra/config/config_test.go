package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework_notification_bot/internal/infra/config"
	"homework_notification_bot/internal/infra/practicum"
	"homework_notification_bot/internal/infra/scheduler"
)

var allVars = []string{
	"PRACTICUM_TOKEN", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID",
	"PRACTICUM_ENDPOINT", "TELEGRAM_API_URL", "POLL_SCHEDULE", "API_TIMEOUT",
	"TELEGRAM_RATE_PER_SEC", "LOG_LEVEL", "ENVIRONMENT", "LOG_FILE",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range allVars {
		t.Setenv(name, "")
	}
}

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("PRACTICUM_TOKEN", "p-token")
	t.Setenv("TELEGRAM_TOKEN", "t-token")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	setCredentials(t)

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "p-token", cfg.PracticumToken)
	assert.Equal(t, "t-token", cfg.TelegramToken)
	assert.Equal(t, "12345", cfg.TelegramChatID)
	assert.Equal(t, practicum.DefaultEndpoint, cfg.PracticumEndpoint)
	assert.Empty(t, cfg.TelegramAPIURL)
	assert.Equal(t, scheduler.DefaultSpec, cfg.PollSchedule)
	assert.Equal(t, 10*time.Minute, cfg.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.InDelta(t, 1.0, cfg.TelegramRatePerSec, 1e-9)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.LogFile)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	setCredentials(t)
	t.Setenv("PRACTICUM_ENDPOINT", "http://localhost:8080/hw")
	t.Setenv("POLL_SCHEDULE", "@every 5m")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("TELEGRAM_RATE_PER_SEC", "0.5")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ENVIRONMENT", "Production")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/hw", cfg.PracticumEndpoint)
	assert.Equal(t, "@every 5m", cfg.PollSchedule)
	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.InDelta(t, 0.5, cfg.TelegramRatePerSec, 1e-9)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "production", cfg.Environment)
}

func TestLoad_MissingCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "t-token")

	_, err := config.Load("")
	require.Error(t, err)

	var missing *config.MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"PRACTICUM_TOKEN", "TELEGRAM_CHAT_ID"}, missing.Names)
	assert.Contains(t, err.Error(), "PRACTICUM_TOKEN, TELEGRAM_CHAT_ID")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad schedule", "POLL_SCHEDULE", "sometimes"},
		{"wall-clock schedule", "POLL_SCHEDULE", "*/10 * * * *"},
		{"bad timeout", "API_TIMEOUT", "soon"},
		{"negative timeout", "API_TIMEOUT", "-1s"},
		{"bad rate", "TELEGRAM_RATE_PER_SEC", "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			setCredentials(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override set variables, so unset the blanks for the file to apply.
	for _, name := range []string{"PRACTICUM_TOKEN", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID"} {
		require.NoError(t, os.Unsetenv(name))
	}

	path := filepath.Join(t.TempDir(), "bot.env")
	content := "PRACTICUM_TOKEN=file-p\nTELEGRAM_TOKEN=file-t\nTELEGRAM_CHAT_ID=@reviews\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-p", cfg.PracticumToken)
	assert.Equal(t, "file-t", cfg.TelegramToken)
	assert.Equal(t, "@reviews", cfg.TelegramChatID)
}

func TestLoad_EnvFileMissing(t *testing.T) {
	clearEnv(t)
	setCredentials(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
}
