package accounts

import (
	"errors"
	"time"
)

// Config carries the process-wide settings of the engine. Zero values are
// filled with defaults by [Builder.Build]; invalid combinations fail Build.
type Config struct {
	JWT       JWTConfig
	Password  PasswordConfig
	TwoFactor TwoFactorConfig
	Lifecycle LifecycleConfig
}

// JWTConfig configures the access-token codec. SigningSecret is required.
type JWTConfig struct {
	SigningSecret []byte
	AccessTTL     time.Duration
	Issuer        string
}

// PasswordConfig configures the bcrypt hasher.
type PasswordConfig struct {
	Cost int
}

// TwoFactorConfig bounds the login challenge protocol.
type TwoFactorConfig struct {
	CodeTTL    time.Duration
	CodeLength int
}

// LifecycleConfig bounds the single-use account tokens.
//
// ConfirmationTTL rejects confirmation tokens older than the window. Reset
// tokens are bounded by ResetTTL the same way.
type LifecycleConfig struct {
	ConfirmationTTL time.Duration
	ResetTTL        time.Duration
	// ConfirmBaseURL and ResetBaseURL are embedded in the emails as links;
	// the raw token is always included as the text body fallback.
	ConfirmBaseURL string
	ResetBaseURL   string
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL: 30 * time.Minute,
		},
		Password: PasswordConfig{
			Cost: 12,
		},
		TwoFactor: TwoFactorConfig{
			CodeTTL:    10 * time.Minute,
			CodeLength: 6,
		},
		Lifecycle: LifecycleConfig{
			ConfirmationTTL: 24 * time.Hour,
			ResetTTL:        24 * time.Hour,
			ConfirmBaseURL:  "http://localhost:8080/api/v1/auth/confirm",
			ResetBaseURL:    "http://localhost:8080/api/v1/auth/reset-password",
		},
	}
}

func fillConfigDefaults(cfg *Config) {
	def := defaultConfig()
	if cfg.JWT.AccessTTL == 0 {
		cfg.JWT.AccessTTL = def.JWT.AccessTTL
	}
	if cfg.Password.Cost == 0 {
		cfg.Password.Cost = def.Password.Cost
	}
	if cfg.TwoFactor.CodeTTL == 0 {
		cfg.TwoFactor.CodeTTL = def.TwoFactor.CodeTTL
	}
	if cfg.TwoFactor.CodeLength == 0 {
		cfg.TwoFactor.CodeLength = def.TwoFactor.CodeLength
	}
	if cfg.Lifecycle.ConfirmationTTL == 0 {
		cfg.Lifecycle.ConfirmationTTL = def.Lifecycle.ConfirmationTTL
	}
	if cfg.Lifecycle.ResetTTL == 0 {
		cfg.Lifecycle.ResetTTL = def.Lifecycle.ResetTTL
	}
	if cfg.Lifecycle.ConfirmBaseURL == "" {
		cfg.Lifecycle.ConfirmBaseURL = def.Lifecycle.ConfirmBaseURL
	}
	if cfg.Lifecycle.ResetBaseURL == "" {
		cfg.Lifecycle.ResetBaseURL = def.Lifecycle.ResetBaseURL
	}
}

func validateConfig(cfg Config) error {
	if len(cfg.JWT.SigningSecret) == 0 {
		return errors.New("jwt signing secret is required")
	}
	if cfg.JWT.AccessTTL <= 0 {
		return errors.New("jwt access ttl must be positive")
	}
	if cfg.TwoFactor.CodeTTL <= 0 {
		return errors.New("two-factor code ttl must be positive")
	}
	if cfg.TwoFactor.CodeLength < 4 || cfg.TwoFactor.CodeLength > 10 {
		return errors.New("two-factor code length must be between 4 and 10")
	}
	if cfg.Lifecycle.ConfirmationTTL <= 0 {
		return errors.New("confirmation token ttl must be positive")
	}
	if cfg.Lifecycle.ResetTTL <= 0 {
		return errors.New("reset token ttl must be positive")
	}
	return nil
}
