package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath    string
	DefaultServings int

	// LLM keys, needed only for recipe import.
	GeminiAPIKey string
	GroqAPIKey   string

	// Telegram config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64

	// Export API
	ExportJWTSecret string
}

// NewFromEnv creates a new Config object from environment variables.
// Keys for optional surfaces (LLM import, telegram, export) may be
// empty here; the feature entry points validate what they need.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		DatabasePath:       os.Getenv("CONCIERGE_DB_PATH"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
		ExportJWTSecret:    os.Getenv("EXPORT_JWT_SECRET"),
		DefaultServings:    2,
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "data/concierge.db"
	}

	if s := os.Getenv("DEFAULT_SERVINGS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("DEFAULT_SERVINGS must be a positive integer, got %q", s)
		}
		cfg.DefaultServings = n
	}

	if s := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); s != "" {
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS contains invalid id %q", part)
			}
			cfg.TelegramAllowedUserIDs = append(cfg.TelegramAllowedUserIDs, id)
		}
	}

	return cfg, nil
}

// RequireLLM fails when no LLM provider key is configured.
func (c *Config) RequireLLM() error {
	if c.GeminiAPIKey == "" && c.GroqAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY or GROQ_API_KEY environment variable not set")
	}
	return nil
}

// RequireTelegram fails when the bot cannot start.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

// RequireExport fails when the export API cannot authenticate callers.
func (c *Config) RequireExport() error {
	if c.ExportJWTSecret == "" {
		return fmt.Errorf("EXPORT_JWT_SECRET environment variable not set")
	}
	return nil
}
