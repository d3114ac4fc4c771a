package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port       string
	UploadDir  string // root directory for per-user storage folders
	PromptsDir string // prompt template + preset catalog directory

	// Gemini configuration
	GeminiAPIKey string
	GeminiModel  string

	// Session configuration
	SessionTTL time.Duration
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:       getEnv("PORT", "3001"),
		UploadDir:  getEnv("UPLOAD_DIR", "instance/uploads"),
		PromptsDir: getEnv("PROMPTS_DIR", "prompts"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		SessionTTL: time.Duration(getIntEnv("SESSION_TTL_HOURS", 24)) * time.Hour,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
