package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	SessionTTL   time.Duration
	Env          string
	CORSOrigins  []string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is read first if present; real
// environment variables take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}

	ttlHours, err := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "24"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:   port,
		DatabasePath: getEnv("DATABASE_PATH", "./buglab.db"),
		SessionTTL:   time.Duration(ttlHours) * time.Hour,
		Env:          getEnv("APP_ENV", "development"),
		CORSOrigins:  strings.Split(getEnv("CORS_ORIGINS", "http://localhost:5173"), ","),
	}, nil
}

// IsProduction reports whether the application runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
