package config

import (
	"os"
	"strconv"
)

// Config holds all application-level configuration
type Config struct {
	// Database
	DatabaseURL string

	// HTTP server
	ListenAddr string

	// Auth
	JWTSecret   string
	TokenTTLMin int // session token lifetime in minutes

	// Importer
	DataDir string
}

// Load reads configuration from environment variables or falls back to defaults
func Load() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-key"),
		TokenTTLMin: getEnvInt("TOKEN_TTL_MIN", 24*60),
		DataDir:     getEnv("DATA_DIR", "excel_data"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
