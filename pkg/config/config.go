package config

import (
	"os"
	"time"
)

// AppConfig general application configuration. All values come from the
// environment with fixed fallbacks; nothing else is read at runtime.
type AppConfig struct {
	Port           string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string
	RedisURL       string
	MetricsPort    string
	OTLPEndpoint   string
	Environment    string

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	CacheEnabled bool
	CacheConfigs map[string]CacheConfig
}

// RateLimitConfig configuration for rate limiting
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// CacheConfig configuration for response caching
type CacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

// Load builds the configuration from the environment.
func Load() *AppConfig {
	cfg := GetDefaultConfig()

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.MigrationsPath = getEnv("MIGRATIONS_PATH", cfg.MigrationsPath)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.MetricsPort = getEnv("METRICS_PORT", cfg.MetricsPort)
	cfg.OTLPEndpoint = getEnv("OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.Environment = getEnv("APP_ENV", cfg.Environment)

	return cfg
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Port:           "8080",
		DatabaseURL:    "",
		DatabasePath:   "tasks.db",
		MigrationsPath: "db/migrations",
		RedisURL:       "",
		MetricsPort:    "9091",
		OTLPEndpoint:   "localhost:4317",
		Environment:    "development",

		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"GET /api/tasks": {
				Requests: 100,
				Window:   time.Minute,
			},
			"POST /api/tasks": {
				Requests: 20,
				Window:   time.Minute,
			},
			"PUT /api/tasks/:id": {
				Requests: 20,
				Window:   time.Minute,
			},
			"DELETE /api/tasks/:id": {
				Requests: 10,
				Window:   time.Minute,
			},
		},

		CacheEnabled: true,
		CacheConfigs: map[string]CacheConfig{
			"/api/tasks": {
				TTL:     3 * time.Second,
				Enabled: true,
			},
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}
