package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            int
	LogLevel        string
	AnthropicAPIKey string
	AnthropicModel  string
	DatabaseURL     string
	NatsURL         string
	NatsToken       string
	SlackBotToken   string
	SlackChannel    string
	MaxUploadBytes  int64
}

func Load() Config {
	return Config{
		Port:            envInt("CHATLENS_PORT", 8760),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envStr("CHATLENS_MODEL", "claude-sonnet-4-20250514"),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		NatsURL:         envStr("NATS_URL", ""),
		NatsToken:       envStr("NATS_TOKEN", ""),
		SlackBotToken:   envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:    envStr("SLACK_REPORTS_CHANNEL", ""),
		MaxUploadBytes:  int64(envInt("CHATLENS_MAX_UPLOAD_MB", 16)) << 20,
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
