package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string
	JWTSecret   string
	CORSOrigins string
	TablePrefix string
	// SeedFile is loaded into the in-memory store at startup
	SeedFile string
	// Content store
	ContentDir         string
	MaxAttachmentBytes int64
	// Logging
	LogDir      string
	LogMaxFiles int
	// DefaultAnnotationWindow is the number of annotations returned when the
	// caller does not pass a window.
	DefaultAnnotationWindow int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Environment:             env,
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		JWKSURL:                 getEnv("JWKS_URL", ""),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		CORSOrigins:             getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:             tablePrefix,
		SeedFile:                getEnv("SEED_FILE", ""),
		ContentDir:              getEnv("CONTENT_DIR", "./data/content"),
		MaxAttachmentBytes:      getEnvInt64("MAX_ATTACHMENT_BYTES", DefaultMaxAttachmentBytes),
		LogDir:                  getEnv("LOG_DIR", ""),
		LogMaxFiles:             int(getEnvInt64("LOG_MAX_FILES", 10)),
		DefaultAnnotationWindow: int(getEnvInt64("DEFAULT_ANNOTATION_WINDOW", DefaultAnnotationWindow)),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
