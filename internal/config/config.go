package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hray3182/LedgerLine/internal/models"
)

type Config struct {
	DatabaseURI   string
	TelegramToken string

	// AIProvider selects the model backend: "openai" or "gemini".
	AIProvider   string
	AIAPIKey     string
	AIBaseURL    string
	AIModel      string
	GoogleAPIKey string
	GeminiModel  string
	AITimeout    time.Duration

	HTTPAddr string
	APIToken string

	LogLevel         string
	AllowedUserIDs   []int64
	TransactionTypes []models.TransactionType
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	timeout, err := time.ParseDuration(getEnvOrDefault("AI_TIMEOUT", "20s"))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_TIMEOUT: %w", err)
	}

	allowed, err := parseUserIDs(os.Getenv("ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid ALLOWED_USER_IDS: %w", err)
	}

	types := models.DefaultTransactionTypes
	if v := os.Getenv("TRANSACTION_TYPES"); v != "" {
		types = models.ParseTransactionTypes(v)
	}

	return &Config{
		DatabaseURI:      os.Getenv("DATABASE_URI"),
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		AIProvider:       strings.ToLower(getEnvOrDefault("AI_PROVIDER", "openai")),
		AIAPIKey:         os.Getenv("AI_API_KEY"),
		AIBaseURL:        getEnvOrDefault("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:          getEnvOrDefault("AI_MODEL", "openai/gpt-4o-mini"),
		GoogleAPIKey:     os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:      getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		AITimeout:        timeout,
		HTTPAddr:         getEnvOrDefault("HTTP_ADDR", ":8080"),
		APIToken:         os.Getenv("API_TOKEN"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		AllowedUserIDs:   allowed,
		TransactionTypes: types,
	}, nil
}

// IsUserAllowed reports whether a chat user may use the bot. An empty list
// allows everyone.
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.AllowedUserIDs) == 0 {
		return true
	}
	for _, id := range c.AllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func parseUserIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
