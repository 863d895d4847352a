package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	HTTPPort    int
	APIKey      string

	NewsAPIKey        string
	NewsUseMock       bool
	NewsDeterministic bool
	NewsPollSecs      int

	OpenAIAPIKey string
	OpenAIModel  string

	TelegramBotToken string

	BrowserPageTimeoutSecs     int
	BrowserSelectorTimeoutSecs int
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           os.Getenv("API_KEY"),
		NewsAPIKey:       os.Getenv("NEWS_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.NewsAPIKey == "" {
		log.Println("Warning: NEWS_API_KEY not set, live news fetch will fall back to synthetic data")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, report generation will be disabled")
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	cfg.NewsUseMock = strings.EqualFold(strings.TrimSpace(os.Getenv("NEWS_USE_MOCK")), "true")
	cfg.NewsDeterministic = strings.EqualFold(strings.TrimSpace(os.Getenv("NEWS_DETERMINISTIC_TIMESTAMPS")), "true")

	cfg.NewsPollSecs = 900
	if v := strings.TrimSpace(os.Getenv("NEWS_POLL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NewsPollSecs = n
		}
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.BrowserPageTimeoutSecs = 30
	if v := strings.TrimSpace(os.Getenv("BROWSER_PAGE_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BrowserPageTimeoutSecs = n
		}
	}

	cfg.BrowserSelectorTimeoutSecs = 5
	if v := strings.TrimSpace(os.Getenv("BROWSER_SELECTOR_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BrowserSelectorTimeoutSecs = n
		}
	}

	return cfg
}
