package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	SpreedlyEnvironmentKey string        `validate:"required"`
	SpreedlyAccessSecret   string        `validate:"required"`
	SpreedlyBaseURL        string        `validate:"required,url"`
	RequestTimeout         time.Duration `validate:"gt=0"`
	ListenAddr             string        `validate:"required"`
	CommandSecret          string
	DiscordWebhookURL      string `validate:"omitempty,url"`
	ReportCron             string
	AuditDBPath            string
	LogLevel               string `validate:"oneof=debug info warn warning error"`
	BotName                string `validate:"required"`
}

const (
	defaultBaseURL  = "https://core.spreedly.com"
	defaultTimeout  = 30 * time.Second
	defaultListen   = ":8080"
	defaultCron     = "0 9 * * *" // 09:00 every day
	defaultAuditDB  = "spreedly-bot.db"
	defaultLogLevel = "info"
	defaultBotName  = "Spreedly Bot"
)

var validate = validator.New()

// Load reads an optional .env file and builds a Config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables with sane defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		SpreedlyEnvironmentKey: os.Getenv("SPREEDLY_ENVIRONMENT_KEY"),
		SpreedlyAccessSecret:   os.Getenv("SPREEDLY_ACCESS_SECRET"),
		SpreedlyBaseURL:        getenvDefault("SPREEDLY_BASE_URL", defaultBaseURL),
		RequestTimeout:         parseDurationDefault("REQUEST_TIMEOUT", defaultTimeout),
		ListenAddr:             getenvDefault("LISTEN_ADDR", defaultListen),
		CommandSecret:          os.Getenv("COMMAND_SECRET"),
		DiscordWebhookURL:      os.Getenv("DISCORD_WEBHOOK_URL"),
		ReportCron:             getenvDefault("REPORT_CRON", defaultCron),
		AuditDBPath:            getenvDefault("AUDIT_DB_PATH", defaultAuditDB),
		LogLevel:               strings.ToLower(getenvDefault("LOG_LEVEL", defaultLogLevel)),
		BotName:                getenvDefault("BOT_NAME", defaultBotName),
	}

	// "off" disables the optional components that have non-empty defaults.
	if strings.EqualFold(cfg.ReportCron, "off") {
		cfg.ReportCron = ""
	}
	if strings.EqualFold(cfg.AuditDBPath, "off") {
		cfg.AuditDBPath = ""
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ReportEnabled reports whether the scheduled inventory report should run.
func (c *Config) ReportEnabled() bool {
	return c.ReportCron != "" && c.DiscordWebhookURL != ""
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDurationDefault(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
