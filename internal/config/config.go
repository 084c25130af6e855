package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port            string
	BaseURL         string
	LogLevel        string
	LogFormat       string
	Environment     string
	Version         string
	WheelConfigPath string
	MaxGames        int
	GameTTL         time.Duration
	AllowedOrigins  []string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// A missing .env is fine; real environment variables win anyway.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		BaseURL:         strings.TrimRight(strings.TrimSpace(getEnv("BASE_URL", "")), "/"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		Environment:     getEnv("ENVIRONMENT", "dev"),
		Version:         getEnv("VERSION", "dev"),
		WheelConfigPath: getEnv("WHEEL_CONFIG", "wheel.yaml"),
		AllowedOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
	}

	maxGames, err := strconv.Atoi(getEnv("MAX_GAMES", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_GAMES value: %w", err)
	}
	cfg.MaxGames = maxGames

	ttl, err := time.ParseDuration(getEnv("GAME_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid GAME_TTL value: %w", err)
	}
	cfg.GameTTL = ttl

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
