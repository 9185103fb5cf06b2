// Command accountsd serves the user-account API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vigidengue/accounts"
	"github.com/vigidengue/accounts/internal/config"
	"github.com/vigidengue/accounts/internal/logging"
	"github.com/vigidengue/accounts/internal/server"
	"github.com/vigidengue/accounts/mail"
	"github.com/vigidengue/accounts/store/sqlite"
	"github.com/vigidengue/accounts/twofactor"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logging.NewSlog(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	if err := run(log); err != nil {
		log.Error(context.Background(), "accountsd exited", "error", err)
		os.Exit(1)
	}
}

func run(log logging.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var mailer accounts.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			StartTLS: cfg.SMTPStartTLS,
		})
	} else {
		mailer = mail.NewConsoleMailer(log)
	}

	builder := accounts.New().
		WithConfig(accounts.Config{
			JWT: accounts.JWTConfig{
				SigningSecret: []byte(cfg.JWTSecret),
				AccessTTL:     cfg.AccessTTL,
				Issuer:        cfg.JWTIssuer,
			},
			Password: accounts.PasswordConfig{Cost: cfg.BcryptCost},
			TwoFactor: accounts.TwoFactorConfig{
				CodeTTL:    cfg.TwoFactorTTL,
				CodeLength: cfg.TwoFactorCodeLength,
			},
			Lifecycle: accounts.LifecycleConfig{
				ConfirmationTTL: cfg.ConfirmationTTL,
				ResetTTL:        cfg.ResetTTL,
				ConfirmBaseURL:  cfg.ConfirmBaseURL,
				ResetBaseURL:    cfg.ResetBaseURL,
			},
		}).
		WithStore(store).
		WithMailer(mailer).
		WithLogger(log)

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		builder = builder.WithChallengeStore(twofactor.NewRedisStore(
			client, "", cfg.TwoFactorTTL, cfg.TwoFactorCodeLength))
	}

	engine, err := builder.Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(engine, store, log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.ListenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
