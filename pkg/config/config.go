package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL      string
	RedisPassword string

	// JWT configuration
	JWTSecret string

	// Single-principal credentials checked at login
	VaultEmail    string
	VaultPassword string

	// Receipt scanning (optional, disabled when empty)
	OpenAIAPIKey string

	// Market stub configuration (0 seeds from the clock)
	MarketSeed int64

	// Quote cache TTL
	QuoteTTL time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		VaultEmail:    getEnv("VAULT_EMAIL", "admin@myvault.local"),
		VaultPassword: getEnv("VAULT_PASSWORD", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		MarketSeed:    int64(getEnvAsInt("MARKET_SEED", 0)),
		QuoteTTL:      time.Duration(getEnvAsInt("QUOTE_TTL_SECONDS", 60)) * time.Second,
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.VaultEmail == "" {
		return fmt.Errorf("VAULT_EMAIL is required")
	}

	if c.VaultPassword == "" {
		return fmt.Errorf("VAULT_PASSWORD is required")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
