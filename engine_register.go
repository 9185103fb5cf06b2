package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vigidengue/accounts/internal/secrets"
)

// Register creates an inactive account and emails its confirmation token.
// A taken email yields [ErrEmailTaken]; a role outside the permitted set is
// normalized to [RoleUsuario]. Registration reports success regardless of
// whether the confirmation email could be delivered.
func (e *Engine) Register(ctx context.Context, email, plainPassword string, role Role) error {
	if e == nil || e.store == nil || e.hasher == nil {
		return ErrEngineNotReady
	}
	if email == "" {
		return errors.New("email is required")
	}

	if _, err := e.store.FindByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	hash, err := e.hasher.Hash(plainPassword)
	if err != nil {
		return err
	}
	token, err := secrets.NewOpaqueToken()
	if err != nil {
		return err
	}

	now := time.Now()
	user := &User{
		ID:                 uuid.NewString(),
		Email:              email,
		PasswordHash:       hash,
		Role:               NormalizeRole(role),
		Active:             false,
		TwoFactorEnabled:   false,
		ConfirmationToken:  token,
		ConfirmationSentAt: now,
		CreatedAt:          now,
	}
	if err := e.store.Create(ctx, user); err != nil {
		// A concurrent registration may win the uniqueness race after the
		// lookup above; the store maps that to ErrEmailTaken.
		return err
	}

	e.dispatchEmail(
		email,
		"Confirme sua conta",
		fmt.Sprintf(`<p>Confirme sua conta: <a href="%s?token=%s">Confirmar</a></p>`, e.config.Lifecycle.ConfirmBaseURL, token),
		fmt.Sprintf("Token de confirmação: %s", token),
	)
	return nil
}

// ConfirmAccount consumes a confirmation token: the account becomes active
// and the token is cleared. Unknown, already-consumed, or expired tokens all
// yield [ErrInvalidToken].
func (e *Engine) ConfirmAccount(ctx context.Context, token string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if token == "" {
		return ErrInvalidToken
	}

	user, err := e.store.FindByConfirmationToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if time.Since(user.ConfirmationSentAt) > e.config.Lifecycle.ConfirmationTTL {
		return ErrInvalidToken
	}

	user.Active = true
	user.ConfirmationToken = ""
	user.ConfirmationSentAt = time.Time{}
	return e.store.Update(ctx, user)
}
