package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"expensetracker/internal/auth"
	"expensetracker/internal/database"
)

const devSessionSecret = "fallback-secret-key-for-dev-only"

// Config holds application configuration
type Config struct {
	// Env selects the logger: production, development or test.
	Env string

	// Database
	DB database.Config

	// Auth
	AuthHasher    string
	SessionSecret string
	SessionTTL    time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// A missing .env file is fine; environment variables and defaults apply.
	_ = godotenv.Load()

	db, err := database.NewConfig()
	if err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	config := &Config{
		Env:           getEnv("ENV", "development"),
		DB:            *db,
		AuthHasher:    strings.ToLower(getEnv("AUTH_HASHER", auth.HasherSHA256)),
		SessionSecret: getEnv("SESSION_SECRET", devSessionSecret),
		SessionTTL:    ttl,
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for values the application cannot start with.
func (c *Config) Validate() error {
	if err := c.DB.Validate(); err != nil {
		return err
	}
	if _, err := auth.NewHasher(c.AuthHasher); err != nil {
		return err
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("session secret is required")
	}
	if c.Env == "production" && c.SessionSecret == devSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be set in production")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("session ttl must not be negative, got %s", c.SessionTTL)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
