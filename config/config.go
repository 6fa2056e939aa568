package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the 3D model generator service
type Config struct {
	// Server configuration
	Port           string
	AllowedOrigins string

	// Staging configuration
	TempDir     string
	MaxUploadMB int64

	// Pipeline configuration
	PipelineProvider string
	WorkerURL        string
	ModelID          string

	// Generation configuration
	LoadTimeout              time.Duration
	GenerateTimeout          time.Duration
	MaxConcurrentGenerations int64

	// Rate limiting
	RateLimitPerMinute int

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// Server defaults
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		// Staging defaults
		TempDir:     getEnv("TEMP_DIR", "./temp_3d"),
		MaxUploadMB: getInt64Env("MAX_UPLOAD_MB", 10),

		// Pipeline defaults
		PipelineProvider: getEnv("PIPELINE_PROVIDER", "hunyuan"),
		WorkerURL:        getEnv("WORKER_URL", "http://localhost:8081"),
		ModelID:          getEnv("MODEL_ID", "tencent/Hunyuan3D-2"),

		// Generation defaults. Loading the pipeline pulls multi-GB weights,
		// so the load timeout is deliberately generous.
		LoadTimeout:              getDurationEnv("LOAD_TIMEOUT", 10*time.Minute),
		GenerateTimeout:          getDurationEnv("GENERATE_TIMEOUT", 5*time.Minute),
		MaxConcurrentGenerations: getInt64Env("MAX_CONCURRENT_GENERATIONS", 1),

		// Rate limiting defaults
		RateLimitPerMinute: getIntEnv("RATE_LIMIT_PER_MINUTE", 10),

		// Logging defaults
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// MaxUploadBytes returns the upload size ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable with a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64Env gets an int64 environment variable with a default value
func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable with a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
