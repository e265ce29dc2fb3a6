package config

import (
	"os"
)

// DefaultJWTSecret is the development fallback signing key. Running with it
// in production is a known hardening gap; server start logs a warning when
// it is in use.
const DefaultJWTSecret = "your-secret-key"

type Config struct {
	// Server
	ServerPort  string
	Environment string // development, staging, production

	// Storage
	DatabasePath  string // SQLite file for users, favorites and route history
	MigrationsDir string
	RedisAddr     string // Redis for list caching
	RedisPassword string

	// Auth
	JWTSecret string

	// External directions provider
	GoogleMapsAPIKey string
}

func Load() *Config {
	return &Config{
		ServerPort:  getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabasePath:  getEnv("DATABASE_PATH", "./route_planner.db"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "./database/migrations"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JWTSecret: getEnv("JWT_SECRET", DefaultJWTSecret),

		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsProduction reports whether the service runs in production; it drives the
// Secure flag on the session cookie.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
