package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	Port            string
	DatabaseURL     string // Postgres (or MySQL) connection URL
	Version         string
	LogLevel        string
	PublicBaseURL   string // Base URL used when building public avatar links
	AvatarDir       string // Local directory where avatar uploads are stored
	SendGridAPIKey  string // SendGrid API key for reply-notification emails
	SupportEmail    string // From-address for outbound reply notifications
	SupportName     string // Display name for outbound reply notifications
	OpenAIKey       string // Optional, enables reply translation
	OpenAITimeout   int    // OpenAI API timeout in seconds
	TranslateModel  string // Model used for reply translation
	ListenChannel   string // Postgres NOTIFY channel carrying ticket changes
	DashboardTTL    int    // Dashboard aggregate cache TTL in seconds
	EnableReports   bool   // Whether the scheduled report worker starts
	ReportTimezone  string // IANA timezone used by the report scheduler
	WebhookRelayURL string // Optional relay endpoint; empty means post directly
}

// Load initializes and returns application configuration
func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Version:         getEnv("VERSION", "1.0.0"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		AvatarDir:       getEnv("AVATAR_DIR", "static/avatars"),
		SendGridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		SupportEmail:    getEnv("SUPPORT_EMAIL", "support@ticketdesk.app"),
		SupportName:     getEnv("SUPPORT_NAME", "Support Team"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAITimeout:   getEnvInt("OPENAI_TIMEOUT", 30),
		TranslateModel:  getEnv("TRANSLATE_MODEL", "gpt-4o-mini"),
		ListenChannel:   getEnv("LISTEN_CHANNEL", "ticket_changes"),
		DashboardTTL:    getEnvInt("DASHBOARD_CACHE_TTL", 30),
		EnableReports:   getEnvBool("ENABLE_REPORTS", true),
		ReportTimezone:  getEnv("REPORT_TIMEZONE", "UTC"),
		WebhookRelayURL: os.Getenv("WEBHOOK_RELAY_URL"),
	}

	return config
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as integer with a default fallback
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as boolean with a default fallback
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// SetupLogger configures zerolog with JSON output and single-line format
func (c *Config) SetupLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "ticketdesk").
		Str("version", c.Version).
		Logger()

	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)

	return logger
}
