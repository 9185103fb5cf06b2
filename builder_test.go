package accounts

import (
	"testing"
	"time"
)

func TestBuildRequiresStoreAndMailer(t *testing.T) {
	if _, err := New().WithConfig(testConfig()).WithMailer(newCaptureMailer()).Build(); err == nil {
		t.Fatal("expected error without a store")
	}
	if _, err := New().WithConfig(testConfig()).WithStore(newMemStore()).Build(); err == nil {
		t.Fatal("expected error without a mailer")
	}
}

func TestBuildRequiresSigningSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.SigningSecret = nil

	_, err := New().
		WithConfig(cfg).
		WithStore(newMemStore()).
		WithMailer(newCaptureMailer()).
		Build()
	if err == nil {
		t.Fatal("expected error without a signing secret")
	}
}

func TestBuildFillsDefaults(t *testing.T) {
	cfg := Config{}
	cfg.JWT.SigningSecret = []byte("0123456789abcdef0123456789abcdef")

	b := New().
		WithConfig(cfg).
		WithStore(newMemStore()).
		WithMailer(newCaptureMailer())
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if engine.config.JWT.AccessTTL != 30*time.Minute {
		t.Fatalf("access ttl = %v, want 30m", engine.config.JWT.AccessTTL)
	}
	if engine.config.TwoFactor.CodeTTL != 10*time.Minute {
		t.Fatalf("2fa ttl = %v, want 10m", engine.config.TwoFactor.CodeTTL)
	}
	if engine.config.TwoFactor.CodeLength != 6 {
		t.Fatalf("code length = %d, want 6", engine.config.TwoFactor.CodeLength)
	}
	if engine.config.Lifecycle.ConfirmationTTL != 24*time.Hour {
		t.Fatalf("confirmation ttl = %v, want 24h", engine.config.Lifecycle.ConfirmationTTL)
	}
}

func TestBuilderBuildsOnlyOnce(t *testing.T) {
	b := New().
		WithConfig(testConfig()).
		WithStore(newMemStore()).
		WithMailer(newCaptureMailer())

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative access ttl", func(c *Config) { c.JWT.AccessTTL = -time.Minute }},
		{"negative 2fa ttl", func(c *Config) { c.TwoFactor.CodeTTL = -time.Second }},
		{"code too short", func(c *Config) { c.TwoFactor.CodeLength = 2 }},
		{"code too long", func(c *Config) { c.TwoFactor.CodeLength = 20 }},
		{"negative confirmation ttl", func(c *Config) { c.Lifecycle.ConfirmationTTL = -time.Hour }},
		{"negative reset ttl", func(c *Config) { c.Lifecycle.ResetTTL = -time.Hour }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			if err := validateConfig(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
