// Package config loads runtime configuration for the accounts service from
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the accountsd binary needs to start.
type Config struct {
	ListenAddr string `env:"ACCOUNTS_LISTEN_ADDR" envDefault:":8080"`
	DBPath     string `env:"ACCOUNTS_DB_PATH"     envDefault:"accounts.db"`

	JWTSecret  string        `env:"ACCOUNTS_JWT_SECRET"`
	JWTIssuer  string        `env:"ACCOUNTS_JWT_ISSUER" envDefault:"accounts"`
	AccessTTL  time.Duration `env:"ACCOUNTS_ACCESS_TTL" envDefault:"30m"`
	BcryptCost int           `env:"ACCOUNTS_BCRYPT_COST" envDefault:"12"`

	TwoFactorTTL        time.Duration `env:"ACCOUNTS_2FA_CODE_TTL"  envDefault:"10m"`
	TwoFactorCodeLength int           `env:"ACCOUNTS_2FA_CODE_LEN"  envDefault:"6"`
	ConfirmationTTL     time.Duration `env:"ACCOUNTS_CONFIRM_TTL"   envDefault:"24h"`
	ResetTTL            time.Duration `env:"ACCOUNTS_RESET_TTL"     envDefault:"24h"`
	ConfirmBaseURL      string        `env:"ACCOUNTS_CONFIRM_BASE_URL" envDefault:"http://localhost:8080/api/v1/auth/confirm"`
	ResetBaseURL        string        `env:"ACCOUNTS_RESET_BASE_URL"   envDefault:"http://localhost:8080/reset-password"`

	// RedisAddr switches two-factor challenges from the in-process store to
	// Redis when non-empty.
	RedisAddr     string `env:"ACCOUNTS_REDIS_ADDR"`
	RedisPassword string `env:"ACCOUNTS_REDIS_PASSWORD"`
	RedisDB       int    `env:"ACCOUNTS_REDIS_DB" envDefault:"0"`

	// SMTPHost switches outbound mail from console logging to SMTP delivery
	// when non-empty.
	SMTPHost     string `env:"ACCOUNTS_SMTP_HOST"`
	SMTPPort     int    `env:"ACCOUNTS_SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"ACCOUNTS_SMTP_USERNAME"`
	SMTPPassword string `env:"ACCOUNTS_SMTP_PASSWORD"`
	SMTPFrom     string `env:"ACCOUNTS_SMTP_FROM"`
	SMTPStartTLS bool   `env:"ACCOUNTS_SMTP_STARTTLS" envDefault:"true"`
}

// Load parses the environment into a Config and validates the fields the
// service cannot default.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("ACCOUNTS_JWT_SECRET is required")
	}
	if cfg.SMTPHost != "" && cfg.SMTPFrom == "" {
		return nil, fmt.Errorf("ACCOUNTS_SMTP_FROM is required when ACCOUNTS_SMTP_HOST is set")
	}
	return &cfg, nil
}
