// Package config holds environment-backed settings and the fixed tunables
// of the service.
package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// Pagination
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// Uploads
	MaxUploadSize   = 5 << 20 // 5 MB per image
	MaxImagesPerDoc = 5

	// Auth
	TokenTTL       = 72 * time.Hour
	TokenIssuer    = "carwatch-service"
	MinPasswordLen = 6
	BcryptCost     = 10

	// Dashboard
	NewWindow        = 30 * 24 * time.Hour // "new in the last month"
	TopViewedLimit   = 5
	LatestReportsLim = 10
)

// Config is everything read from the environment at startup.
type Config struct {
	ListenAddr    string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	UploadDir     string
	LocalesDir    string
	// TelegramToken and TelegramChatID enable the admin alert bot when both set.
	TelegramToken  string
	TelegramChatID string
}

// Load reads the configuration from environment variables, falling back to
// development defaults where it is safe to do so.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:     getenv("LISTEN_ADDR", ":8080"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		LocalesDir:     getenv("LOCALES_DIR", "locales"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),
	}

	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	if cfg.PostgresDSN == "" {
		cfg.PostgresDSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getenv("DB_HOST", "localhost"),
			getenv("DB_USER", "user"),
			getenv("DB_PASSWORD", "password"),
			getenv("DB_NAME", "carwatchdb"),
			getenv("DB_PORT", "5432"),
		)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
