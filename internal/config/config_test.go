package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setValidEnv(t *testing.T) {
	t.Helper()

	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_APP_TOKEN", "")
	t.Setenv("SLACK_SIGNING_SECRET", "secret")
	t.Setenv("USER_REQUEST_CHANNEL_ID", "C0REQUEST")
	t.Setenv("CONFIRM_REQUEST_CHANNEL_ID", "C0REVIEW")
	t.Setenv("CONFIRMATION_MESSAGE_CHANNEL_ID", "C0CONFIRMED")
	t.Setenv("DECLINE_MESSAGE_CHANNEL_ID", "C0DECLINED")
	t.Setenv("WEEKDAY_INT", "5")
	t.Setenv("HOUR", "14")
	t.Setenv("MINUTE", "30")
	t.Setenv("TIMEZONE", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("SLACK_RATE_LIMIT_PER_SEC", "")
}

func TestLoad(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "xoxb-test", cfg.SlackBotToken)
	assert.Equal(t, "secret", cfg.SlackSigningSecret)
	assert.Equal(t, Channels{
		Request:   "C0REQUEST",
		Review:    "C0REVIEW",
		Confirmed: "C0CONFIRMED",
		Declined:  "C0DECLINED",
	}, cfg.Channels)
	assert.Equal(t, 5, cfg.Schedule.Weekday)
	assert.Equal(t, 14, cfg.Schedule.Hour)
	assert.Equal(t, 30, cfg.Schedule.Minute)
	assert.Equal(t, time.Local, cfg.Schedule.Location)

	assert.Equal(t, ":memory:", cfg.DatabasePath)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, float64(1), cfg.RateLimitPerSec)
}

func TestLoad_Overrides(t *testing.T) {
	setValidEnv(t)
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("DATABASE_PATH", "/tmp/wfh.db")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SLACK_RATE_LIMIT_PER_SEC", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.UTC, cfg.Schedule.Location)
	assert.Equal(t, "/tmp/wfh.db", cfg.DatabasePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2.5, cfg.RateLimitPerSec)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "Should fail without bot token", key: "SLACK_BOT_TOKEN", value: "", wantErr: "SLACK_BOT_TOKEN is not set"},
		{name: "Should fail without request channel", key: "USER_REQUEST_CHANNEL_ID", value: "", wantErr: "USER_REQUEST_CHANNEL_ID is not set"},
		{name: "Should fail without review channel", key: "CONFIRM_REQUEST_CHANNEL_ID", value: " ", wantErr: "CONFIRM_REQUEST_CHANNEL_ID is not set"},
		{name: "Should fail without confirmed channel", key: "CONFIRMATION_MESSAGE_CHANNEL_ID", value: "", wantErr: "CONFIRMATION_MESSAGE_CHANNEL_ID is not set"},
		{name: "Should fail without declined channel", key: "DECLINE_MESSAGE_CHANNEL_ID", value: "", wantErr: "DECLINE_MESSAGE_CHANNEL_ID is not set"},
		{name: "Should fail without weekday", key: "WEEKDAY_INT", value: "", wantErr: "WEEKDAY_INT is not set"},
		{name: "Should fail with weekday zero", key: "WEEKDAY_INT", value: "0", wantErr: "invalid WEEKDAY_INT"},
		{name: "Should fail with weekday eight", key: "WEEKDAY_INT", value: "8", wantErr: "invalid WEEKDAY_INT"},
		{name: "Should fail with non numeric hour", key: "HOUR", value: "nine", wantErr: "invalid HOUR"},
		{name: "Should fail with hour 24", key: "HOUR", value: "24", wantErr: "invalid HOUR"},
		{name: "Should fail with minute 60", key: "MINUTE", value: "60", wantErr: "invalid MINUTE"},
		{name: "Should fail with unknown timezone", key: "TIMEZONE", value: "Mars/Olympus", wantErr: "invalid TIMEZONE"},
		{name: "Should fail with zero rate limit", key: "SLACK_RATE_LIMIT_PER_SEC", value: "0", wantErr: "invalid SLACK_RATE_LIMIT_PER_SEC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_RequiresATransport(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SLACK_SIGNING_SECRET", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("SLACK_APP_TOKEN", "xapp-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "xapp-test", cfg.SlackAppToken)
}
