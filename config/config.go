package config

import (
	"os"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "http://localhost:8000"

type Config struct {
	// BaseURL is the backend root, e.g. http://localhost:8000.
	BaseURL string
	// LogFile enables debug logging to a file; empty disables logging
	// entirely (the TUI owns the terminal, so nothing may log there).
	LogFile string
}

// Load reads settings from the environment, with .env as a convenience
// overlay for local development. A missing .env is not an error.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		BaseURL: getEnv("VIDEXTRACT_API_BASE_URL", defaultBaseURL),
		LogFile: os.Getenv("VIDEXTRACT_LOG"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
