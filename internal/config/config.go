package config

import (
	"fmt"
	"os"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string

	// External RAG delegate (AI plan generation service)
	RagBaseURL      string
	RagServiceKey   string // "id:secret", used to mint short-lived JWTs
	RagSharedSecret string // legacy shared-secret header

	// Gemini (local generation + clipping)
	GeminiAPIKey string

	// Default store tag used by the CLI when none is given.
	DefaultStore string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	dbPath := os.Getenv("MEALGEN_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/mealgen.db"
	}

	defaultStore := os.Getenv("MEALGEN_STORE")
	if defaultStore == "" {
		defaultStore = "TRADER_JOES"
	}

	// RAG delegate config is optional for the deterministic path; the
	// ai-plan command fails at call time when the base URL is missing.
	return &Config{
		DatabasePath:    dbPath,
		RagBaseURL:      os.Getenv("RAG_BASE_URL"),
		RagServiceKey:   os.Getenv("RAG_SERVICE_KEY"),
		RagSharedSecret: os.Getenv("RAG_SHARED_SECRET"),
		GeminiAPIKey:    geminiAPIKey,
		DefaultStore:    defaultStore,
	}, nil
}
