package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vigidengue/accounts/internal/secrets"
)

// RequestPasswordReset starts a password reset for email. The response is
// identical whether or not an account exists; side effects happen only when
// it does. A new request overwrites any earlier reset token, and the token is
// persisted before the email is dispatched.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if email == "" {
		return nil
	}

	user, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := secrets.NewOpaqueToken()
	if err != nil {
		return err
	}
	user.ResetToken = token
	user.ResetRequestedAt = time.Now()
	if err := e.store.Update(ctx, user); err != nil {
		return err
	}

	e.dispatchEmail(
		user.Email,
		"Redefinição de Senha",
		fmt.Sprintf(`<p>Redefina sua senha: <a href="%s?token=%s">Redefinir</a></p>`, e.config.Lifecycle.ResetBaseURL, token),
		fmt.Sprintf("Token de redefinição: %s", token),
	)
	return nil
}

// ConfirmPasswordReset consumes a reset token and replaces the stored
// password hash. Unknown, already-consumed, or expired tokens all yield
// [ErrInvalidToken]; a consumed token cannot be replayed.
func (e *Engine) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if e == nil || e.store == nil || e.hasher == nil {
		return ErrEngineNotReady
	}
	if token == "" {
		return ErrInvalidToken
	}

	user, err := e.store.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if time.Since(user.ResetRequestedAt) > e.config.Lifecycle.ResetTTL {
		return ErrInvalidToken
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ResetToken = ""
	user.ResetRequestedAt = time.Time{}
	return e.store.Update(ctx, user)
}
