package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	JWTSecret         string
	JWTAccessExpiry   time.Duration
	EncryptionKey     string
	BackendURL        string
	FrontendURL       string
	SchedulerInterval time.Duration

	MicrosoftClientID     string
	MicrosoftClientSecret string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 168 * time.Hour // 7 days
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	schedulerInterval := time.Minute
	if iv := os.Getenv("SCHEDULER_INTERVAL"); iv != "" {
		if parsed, err := time.ParseDuration(iv); err == nil {
			schedulerInterval = parsed
		}
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "host=localhost user=automail password=automail dbname=automail port=5432 sslmode=disable"),
		JWTSecret:         getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:   accessExpiry,
		EncryptionKey:     getEnv("ENCRYPTION_KEY", "change-me-32-byte-encryption-key"),
		BackendURL:        getEnv("BACKEND_URL", "http://localhost:8080"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
		SchedulerInterval: schedulerInterval,

		MicrosoftClientID:     getEnv("MICROSOFT_CLIENT_ID", ""),
		MicrosoftClientSecret: getEnv("MICROSOFT_CLIENT_SECRET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
