// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration.
type Config struct {
	SheetURL         string
	TelegramBotToken string
	DatabasePath     string
	ListenAddr       string
	LogLevel         string
	RefreshMinutes   int
	AllowedOrigins   []string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	sheetURL := os.Getenv("SHEET_URL")
	if sheetURL == "" {
		return nil, fmt.Errorf("SHEET_URL is required")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/rooms.db"
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	refresh := 15
	if raw := os.Getenv("REFRESH_MINUTES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1440 {
			return nil, fmt.Errorf("REFRESH_MINUTES must be between 1 and 1440, got %q", raw)
		}
		refresh = n
	}

	origins := []string{"*"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = nil
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				origins = append(origins, s)
			}
		}
		if len(origins) == 0 {
			return nil, fmt.Errorf("ALLOWED_ORIGINS is set but empty")
		}
	}

	return &Config{
		SheetURL:         sheetURL,
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabasePath:     dbPath,
		ListenAddr:       addr,
		LogLevel:         logLevel,
		RefreshMinutes:   refresh,
		AllowedOrigins:   origins,
	}, nil
}

// AlertsEnabled reports whether the Telegram alert bot should run.
func (c *Config) AlertsEnabled() bool {
	return c.TelegramBotToken != ""
}
