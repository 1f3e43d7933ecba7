package internal

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds everything the run needs, read from the environment
// (a .env file is loaded by cmd before this runs).
type Config struct {
	ClientKey    string
	ClientSecret string
	AccessToken  string

	BaseURL   string // override for the API root, mainly for testing
	InputFile string

	// Pause between consecutive uploads to stay inside rate limits.
	ChunkDelay time.Duration

	// RunCron, when set, re-runs the whole batch on this cron schedule
	// instead of exiting after one pass.
	RunCron string

	// Optional Telegram run-summary notification.
	TelegramToken string
	SummaryChatID int64
}

func LoadConfig() (Config, error) {
	cfg := Config{
		ClientKey:    os.Getenv("TIKTOK_CLIENT_KEY"),
		ClientSecret: os.Getenv("TIKTOK_CLIENT_SECRET"),
		AccessToken:  os.Getenv("TIKTOK_ACCESS_TOKEN"),
		BaseURL:      os.Getenv("TIKTOK_BASE_URL"),
		InputFile:    os.Getenv("INPUT_FILE"),
		ChunkDelay:   5 * time.Second,
		RunCron:      os.Getenv("RUN_CRON"),

		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.InputFile == "" {
		cfg.InputFile = "videos.csv"
	}

	if v := os.Getenv("CHUNK_DELAY_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ChunkDelay = time.Duration(n) * time.Second
		}
	}

	if v := os.Getenv("SUMMARY_CHAT_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.SummaryChatID = n
		}
	}

	if cfg.AccessToken == "" {
		return cfg, errors.New("TIKTOK_ACCESS_TOKEN is required")
	}
	if cfg.ClientKey == "" || cfg.ClientSecret == "" {
		return cfg, errors.New("TIKTOK_CLIENT_KEY and TIKTOK_CLIENT_SECRET are required")
	}
	return cfg, nil
}
