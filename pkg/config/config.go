package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	DatabaseURL         string
	JWTSecret           string
	JWTAccessExpiry     time.Duration
	EncryptionMasterKey string
	GoogleClientID      string
	GoogleClientSecret  string
	GeminiAPIKey        string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=mailboard port=5432 sslmode=disable"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:     accessExpiry,
		EncryptionMasterKey: getEnv("ENCRYPTION_MASTER_KEY", ""),
		GoogleClientID:      getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  getEnv("GOOGLE_CLIENT_SECRET", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
