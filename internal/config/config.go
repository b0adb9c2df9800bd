package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all server configuration resolved from the environment.
// Load fails fast on missing required values; everything else has a
// development-friendly default.
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFile     string

	DatabaseURL string

	JWTSecret []byte

	RedisHost     string
	RedisPort     string
	RedisPassword string

	UploadDir   string
	MaxFileSize int64

	CORSOrigin string

	TracingEnabled bool
	OTLPEndpoint   string
}

// Load reads configuration from environment variables.
// JWT_SECRET is required; DATABASE_URL falls back to individual DB_* parts
// inside the database package.
func Load() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	maxFileSize := int64(5 * 1024 * 1024) // 5MB default
	if v := os.Getenv("MAX_FILE_SIZE"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			maxFileSize = parsed
		}
	}

	return &Config{
		Port:          GetEnvOrDefault("PORT", "3001"),
		Environment:   GetEnvOrDefault("ENVIRONMENT", "development"),
		LogLevel:      GetEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:       GetEnvOrDefault("LOG_FILE", "api.log"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     []byte(jwtSecret),
		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     GetEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		UploadDir:     GetEnvOrDefault("UPLOAD_DIR", "uploads"),
		MaxFileSize:   maxFileSize,
		CORSOrigin:    GetEnvOrDefault("CORS_ORIGIN", "*"),

		TracingEnabled: os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint:   GetEnvOrDefault("OTLP_ENDPOINT", "localhost:4318"),
	}, nil
}

// GetEnvOrDefault returns environment variable or default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsProduction reports whether the server runs in a production posture
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
