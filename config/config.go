package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret           string   `env:"JWT_SECRET,required"            validate:"required,min=32"`
	AllowedEmailDomains []string `env:"ALLOWED_EMAIL_DOMAINS,required" envSeparator:"," validate:"required,min=1"`
	SessionTTLDays      int      `env:"SESSION_TTL_DAYS" envDefault:"7" validate:"min=1,max=365"`
	MagicLinkBase       string   `env:"MAGIC_LINK_BASE_URL" envDefault:"http://localhost:8080" validate:"url"`
	CookieSecure        bool     `env:"COOKIE_SECURE" envDefault:"false"`

	EmailProvider string `env:"EMAIL_PROVIDER" envDefault:"log" validate:"oneof=resend smtp log"`
	ResendAPIKey  string `env:"RESEND_API_KEY" validate:"required_if=EmailProvider resend"`
	ResendFrom    string `env:"RESEND_FROM"    validate:"required_if=EmailProvider resend"`
	SMTPHost      string `env:"SMTP_HOST"      validate:"required_if=EmailProvider smtp"`
	SMTPPort      int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser      string `env:"SMTP_USER"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	SMTPFrom      string `env:"SMTP_FROM" validate:"required_if=EmailProvider smtp"`

	JanitorSpec string `env:"JANITOR_SPEC" envDefault:"@every 1h"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Domain membership checks are case-insensitive; normalize once here.
	for i, d := range cfg.AllowedEmailDomains {
		cfg.AllowedEmailDomains[i] = strings.ToLower(strings.TrimSpace(d))
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
