package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// AI gateway (OpenAI-compatible chat completions endpoint)
	AIGatewayURL  string
	AIGatewayKey  string
	AIModel       string
	AITurnTimeout time.Duration

	AllowedOrigins []string

	DefaultRecoveryDays int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	turnTimeout := 60 * time.Second
	if t := os.Getenv("AI_TURN_TIMEOUT"); t != "" {
		if parsed, err := time.ParseDuration(t); err == nil {
			turnTimeout = parsed
		}
	}

	recoveryDays := 3
	if d := os.Getenv("DEFAULT_RECOVERY_DAYS"); d != "" {
		if parsed, err := strconv.Atoi(d); err == nil && parsed > 0 {
			recoveryDays = parsed
		}
	}

	origins := []string{"*"}
	if o := os.Getenv("ALLOWED_ORIGINS"); o != "" {
		origins = []string{o}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=wagwell port=5432 sslmode=disable"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		AIGatewayURL:        getEnv("AI_GATEWAY_URL", "https://ai.gateway.lovable.dev/v1/chat/completions"),
		AIGatewayKey:        getEnv("AI_GATEWAY_KEY", ""),
		AIModel:             getEnv("AI_MODEL", "google/gemini-3-flash-preview"),
		AITurnTimeout:       turnTimeout,
		AllowedOrigins:      origins,
		DefaultRecoveryDays: recoveryDays,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
