package config

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"PORT", "DATABASE_URL", "VERSION", "LOG_LEVEL", "PUBLIC_BASE_URL",
		"AVATAR_DIR", "SENDGRID_API_KEY", "SUPPORT_EMAIL", "SUPPORT_NAME",
		"OPENAI_API_KEY", "OPENAI_TIMEOUT", "TRANSLATE_MODEL", "LISTEN_CHANNEL",
		"DASHBOARD_CACHE_TTL", "ENABLE_REPORTS", "REPORT_TIMEZONE", "WEBHOOK_RELAY_URL",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:8080", cfg.PublicBaseURL)
	assert.Equal(t, "static/avatars", cfg.AvatarDir)
	assert.Equal(t, "support@ticketdesk.app", cfg.SupportEmail)
	assert.Equal(t, "Support Team", cfg.SupportName)
	assert.Equal(t, 30, cfg.OpenAITimeout)
	assert.Equal(t, "gpt-4o-mini", cfg.TranslateModel)
	assert.Equal(t, "ticket_changes", cfg.ListenChannel)
	assert.Equal(t, 30, cfg.DashboardTTL)
	assert.True(t, cfg.EnableReports)
	assert.Equal(t, "UTC", cfg.ReportTimezone)
	assert.Equal(t, "", cfg.WebhookRelayURL)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)

	os.Setenv("PORT", "9090")
	os.Setenv("DATABASE_URL", "postgres://localhost/tickets")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LISTEN_CHANNEL", "changes")
	os.Setenv("DASHBOARD_CACHE_TTL", "120")
	os.Setenv("ENABLE_REPORTS", "false")
	os.Setenv("REPORT_TIMEZONE", "Asia/Tokyo")
	os.Setenv("WEBHOOK_RELAY_URL", "https://relay.example/hook")
	defer clearEnv(t)

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://localhost/tickets", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "changes", cfg.ListenChannel)
	assert.Equal(t, 120, cfg.DashboardTTL)
	assert.False(t, cfg.EnableReports)
	assert.Equal(t, "Asia/Tokyo", cfg.ReportTimezone)
	assert.Equal(t, "https://relay.example/hook", cfg.WebhookRelayURL)
}

func TestLoad_InvalidNumericFallsBack(t *testing.T) {
	clearEnv(t)

	os.Setenv("DASHBOARD_CACHE_TTL", "not-a-number")
	os.Setenv("ENABLE_REPORTS", "maybe")
	defer clearEnv(t)

	cfg := Load()

	assert.Equal(t, 30, cfg.DashboardTTL)
	assert.True(t, cfg.EnableReports)
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		value        string
		defaultValue string
		expected     string
	}{
		{"existing variable", "TEST_VAR", "custom", "default", "custom"},
		{"missing variable", "MISSING_VAR", "", "default", "default"},
		{"empty variable", "EMPTY_VAR", "", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv(tt.key)
			if tt.value != "" {
				os.Setenv(tt.key, tt.value)
				defer os.Unsetenv(tt.key)
			}
			assert.Equal(t, tt.expected, getEnv(tt.key, tt.defaultValue))
		})
	}
}

func TestSetupLogger(t *testing.T) {
	cfg := &Config{Version: "1.2.3", LogLevel: "warn"}
	logger := cfg.SetupLogger()
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	cfg = &Config{Version: "1.2.3", LogLevel: "bogus"}
	logger = cfg.SetupLogger()
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}
