package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	// AdminJWTSecret signs dashboard tokens. Empty disables the admin surface.
	AdminJWTSecret string

	CORSAllowedOrigins []string

	// AutomationWebhookURL is the external service that turns a chat message
	// plus business context into a reply or a structured booking instruction.
	AutomationWebhookURL     string
	AutomationWebhookTimeout time.Duration

	// WhatsApp transport
	WhatsAppStorePath string
	WorkerCount       int
	QueueBuffer       int

	// SendGrid owner notifications
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		AutomationWebhookURL:     getEnv("AUTOMATION_WEBHOOK_URL", ""),
		AutomationWebhookTimeout: getEnvAsDuration("AUTOMATION_WEBHOOK_TIMEOUT", 30*time.Second),

		WhatsAppStorePath: getEnv("WHATSAPP_STORE_PATH", "file:whatsapp.db?_foreign_keys=on"),
		WorkerCount:       getEnvAsInt("WORKER_COUNT", 2),
		QueueBuffer:       getEnvAsInt("QUEUE_BUFFER", 128),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Autowhapp"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
