package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment
// variables.
type Config struct {
	HTTPPort string

	// APIKey is the shared secret expected in the x-api-key header.
	APIKey string `validate:"required"`

	// DatabaseURL is optional: when empty the service runs with the
	// in-memory history store and conversations do not survive restarts.
	DatabaseURL string

	OpenAIAPIKey  string `validate:"required"`
	OpenAIModel   string
	OpenAIBaseURL string

	ZokoAPIKey  string `validate:"required"`
	ZokoBaseURL string

	ShopifyAPIKey      string
	ShopifyAPIPassword string
	ShopifyStoreName   string `validate:"required"`

	RateLimit  int
	RatePeriod time.Duration

	// TemplatesPath points at the broadcast templates JSON file.
	TemplatesPath string

	// BroadcastCron optionally schedules the promo broadcast (cron
	// expression, UTC). Empty disables the scheduler; the HTTP trigger
	// always works.
	BroadcastCron string
}

// LoadConfig loads configuration from environment variables. A .env file is
// honored when present (development); missing .env is not an error.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, using environment variables only")
	}

	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		APIKey:             getEnv("API_KEY", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4-turbo"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ZokoAPIKey:         getEnv("ZOKO_API_KEY", ""),
		ZokoBaseURL:        getEnv("ZOKO_BASE_URL", "https://api.zoko.io/v1"),
		ShopifyAPIKey:      getEnv("SHOPIFY_API_KEY", ""),
		ShopifyAPIPassword: getEnv("SHOPIFY_API_PASSWORD", ""),
		ShopifyStoreName:   getEnv("SHOPIFY_STORE_NAME", ""),
		TemplatesPath:      getEnv("TEMPLATES_PATH", "templates.json"),
		BroadcastCron:      getEnv("BROADCAST_CRON", ""),
	}

	cfg.RateLimit = getEnvInt("RATE_LIMIT", 30)
	cfg.RatePeriod = time.Duration(getEnvInt("RATE_PERIOD_SECONDS", 60)) * time.Second

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid integer env value, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return v
}
