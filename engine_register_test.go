package accounts

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRegisterConfirmLogin(t *testing.T) {
	engine, _, mailer := newTestEngine(t)
	ctx := context.Background()

	if err := engine.Register(ctx, "a@x.com", "Passw0rd!", RoleUsuario); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	sm := mailer.wait(t)
	if sm.to != "a@x.com" {
		t.Fatalf("confirmation sent to %q", sm.to)
	}
	if sm.subject != "Confirme sua conta" {
		t.Fatalf("unexpected subject %q", sm.subject)
	}

	token := tokenFrom(t, sm)
	if err := engine.ConfirmAccount(ctx, token); err != nil {
		t.Fatalf("ConfirmAccount failed: %v", err)
	}

	result, err := engine.Login(ctx, "a@x.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.AccessToken == "" || result.TokenType != "bearer" {
		t.Fatalf("expected bearer token, got %+v", result)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	engine, _, mailer := newTestEngine(t)
	ctx := context.Background()

	if err := engine.Register(ctx, "a@x.com", "Passw0rd!", RoleUsuario); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	mailer.wait(t)

	err := engine.Register(ctx, "a@x.com", "Other-Password1", RoleUsuario)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterNormalizesUnknownRole(t *testing.T) {
	engine, store, mailer := newTestEngine(t)
	ctx := context.Background()

	if err := engine.Register(ctx, "a@x.com", "Passw0rd!", Role("root")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	mailer.wait(t)

	user, err := store.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if user.Role != RoleUsuario {
		t.Fatalf("role = %q, want usuario", user.Role)
	}
	if user.Active {
		t.Fatal("account must start inactive")
	}
	if user.ConfirmationToken == "" {
		t.Fatal("account must carry a confirmation token")
	}
}

func TestRegisterKeepsGestorRole(t *testing.T) {
	engine, store, mailer := newTestEngine(t)
	ctx := context.Background()

	if err := engine.Register(ctx, "g@x.com", "Passw0rd!", RoleGestor); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	mailer.wait(t)

	user, err := store.FindByEmail(ctx, "g@x.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if user.Role != RoleGestor {
		t.Fatalf("role = %q, want gestor", user.Role)
	}
}

func TestLoginBeforeConfirmationIsRejected(t *testing.T) {
	engine, _, mailer := newTestEngine(t)
	ctx := context.Background()

	if err := engine.Register(ctx, "a@x.com", "Passw0rd!", RoleUsuario); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	mailer.wait(t)

	if _, err := engine.Login(ctx, "a@x.com", "Passw0rd!"); !errors.Is(err, ErrAccountNotActive) {
		t.Fatalf("expected ErrAccountNotActive, got %v", err)
	}
}

func TestConfirmAccountUnknownToken(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	if err := engine.ConfirmAccount(context.Background(), "no-such-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if err := engine.ConfirmAccount(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestConfirmAccountIsSingleUse(t *testing.T) {
	engine, _, mailer := newTestEngine(t)
	ctx := context.Background()

	if err := engine.Register(ctx, "a@x.com", "Passw0rd!", RoleUsuario); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	token := tokenFrom(t, mailer.wait(t))

	if err := engine.ConfirmAccount(ctx, token); err != nil {
		t.Fatalf("ConfirmAccount failed: %v", err)
	}
	if err := engine.ConfirmAccount(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on reuse, got %v", err)
	}
}

func TestConfirmAccountExpiredToken(t *testing.T) {
	engine, store, mailer := newTestEngine(t)
	ctx := context.Background()

	if err := engine.Register(ctx, "a@x.com", "Passw0rd!", RoleUsuario); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	token := tokenFrom(t, mailer.wait(t))

	// Age the token past the 24h window.
	user, err := store.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	user.ConfirmationSentAt = time.Now().Add(-25 * time.Hour)
	if err := store.Update(ctx, user); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := engine.ConfirmAccount(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
