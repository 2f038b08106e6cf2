package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"

	"homework_notification_bot/internal/infra/practicum"
	"homework_notification_bot/internal/infra/scheduler"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken     string
	TelegramToken      string
	TelegramChatID     string // numeric id or @channel username, passed through as is
	PracticumEndpoint  string
	TelegramAPIURL     string // empty means the public Bot API
	PollSchedule       string
	PollInterval       time.Duration // parsed from PollSchedule
	APITimeout         time.Duration
	TelegramRatePerSec float64
	LogLevel           string
	Environment        string
	LogFile            string
}

// MissingError lists every required variable that is unset or empty.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return "required environment variables are not set: " + strings.Join(e.Names, ", ")
}

// Load reads configuration from environment variables and a .env file.
// With envFile empty, ./.env is loaded if present; otherwise envFile must exist.
// godotenv never overrides variables that are already set.
func Load(envFile string) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &AppConfig{
		PracticumToken: os.Getenv("PRACTICUM_TOKEN"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")),
	}

	missing := &MissingError{}
	for _, v := range []struct{ name, value string }{
		{"PRACTICUM_TOKEN", cfg.PracticumToken},
		{"TELEGRAM_TOKEN", cfg.TelegramToken},
		{"TELEGRAM_CHAT_ID", cfg.TelegramChatID},
	} {
		if v.value == "" {
			missing.Names = append(missing.Names, v.name)
		}
	}
	if len(missing.Names) > 0 {
		return nil, missing
	}

	cfg.PracticumEndpoint = os.Getenv("PRACTICUM_ENDPOINT")
	if cfg.PracticumEndpoint == "" {
		cfg.PracticumEndpoint = practicum.DefaultEndpoint
	}

	cfg.TelegramAPIURL = os.Getenv("TELEGRAM_API_URL")

	cfg.PollSchedule = os.Getenv("POLL_SCHEDULE")
	if cfg.PollSchedule == "" {
		cfg.PollSchedule = scheduler.DefaultSpec
	}
	interval, err := scheduler.ParseInterval(cfg.PollSchedule)
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_SCHEDULE: %w", err)
	}
	cfg.PollInterval = interval

	cfg.APITimeout = 30 * time.Second
	if v := os.Getenv("API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("invalid API_TIMEOUT: must be positive, got %s", d)
		}
		cfg.APITimeout = d
	}

	cfg.TelegramRatePerSec = 1 // Telegram allows about one message per second per chat
	if v := os.Getenv("TELEGRAM_RATE_PER_SEC"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_RATE_PER_SEC: %w", err)
		}
		cfg.TelegramRatePerSec = r
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.LogFile = os.Getenv("LOG_FILE")

	return cfg, nil
}
