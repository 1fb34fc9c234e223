package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	SlackBotToken      string
	SlackAppToken      string
	SlackSigningSecret string
	DatabasePath       string
	Port               string
	LogLevel           string
	Environment        string
	RateLimitPerSec    float64

	Channels Channels
	Schedule Schedule
}

// Channels holds the Slack channel IDs the workflow moves through.
type Channels struct {
	Request   string // weekly prompt, selection reactions
	Review    string // pending review requests
	Confirmed string
	Declined  string
}

// Schedule is the weekly prompt time. Weekday uses ISO 8601 numbering (1=Monday, 7=Sunday).
type Schedule struct {
	Weekday  int
	Hour     int
	Minute   int
	Location *time.Location
}

// Load reads configuration from environment variables and .env file (if present).
// Every required value must be present and well formed, otherwise the bot must not start.
func Load() (*Config, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &Config{
		SlackAppToken:      os.Getenv("SLACK_APP_TOKEN"),
		SlackSigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		DatabasePath:       getEnv("DATABASE_PATH", ":memory:"),
		Port:               getEnv("PORT", "3000"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Environment:        strings.ToLower(getEnv("ENVIRONMENT", "development")),
	}

	var err error

	if cfg.SlackBotToken, err = requireEnv("SLACK_BOT_TOKEN"); err != nil {
		return nil, err
	}
	if cfg.SlackAppToken == "" && cfg.SlackSigningSecret == "" {
		return nil, errors.New("either SLACK_APP_TOKEN or SLACK_SIGNING_SECRET must be set")
	}

	if cfg.Channels.Request, err = requireEnv("USER_REQUEST_CHANNEL_ID"); err != nil {
		return nil, err
	}
	if cfg.Channels.Review, err = requireEnv("CONFIRM_REQUEST_CHANNEL_ID"); err != nil {
		return nil, err
	}
	if cfg.Channels.Confirmed, err = requireEnv("CONFIRMATION_MESSAGE_CHANNEL_ID"); err != nil {
		return nil, err
	}
	if cfg.Channels.Declined, err = requireEnv("DECLINE_MESSAGE_CHANNEL_ID"); err != nil {
		return nil, err
	}

	if cfg.Schedule.Weekday, err = requireInt("WEEKDAY_INT", 1, 7); err != nil {
		return nil, err
	}
	if cfg.Schedule.Hour, err = requireInt("HOUR", 0, 23); err != nil {
		return nil, err
	}
	if cfg.Schedule.Minute, err = requireInt("MINUTE", 0, 59); err != nil {
		return nil, err
	}

	cfg.Schedule.Location = time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
		cfg.Schedule.Location = loc
	}

	cfg.RateLimitPerSec = 1
	if v := os.Getenv("SLACK_RATE_LIMIT_PER_SEC"); v != "" {
		cfg.RateLimitPerSec, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SLACK_RATE_LIMIT_PER_SEC: %w", err)
		}
		if cfg.RateLimitPerSec <= 0 {
			return nil, fmt.Errorf("invalid SLACK_RATE_LIMIT_PER_SEC: must be positive, got %v", cfg.RateLimitPerSec)
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func requireEnv(key string) (string, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func requireInt(key string, min, max int) (int, error) {
	raw, err := requireEnv(key)
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("invalid %s: %d is outside %d-%d", key, value, min, max)
	}

	return value, nil
}
