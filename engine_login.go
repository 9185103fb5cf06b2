package accounts

import (
	"context"
	"errors"
	"fmt"
)

// Login verifies the credentials for email and either issues an access token
// or, for two-factor accounts, starts a challenge and emails the code.
//
// Unknown email and wrong password both return [ErrInvalidCredentials]; an
// unconfirmed account returns [ErrAccountNotActive]. When the result has
// TwoFactorPending set, no token is issued until [Engine.VerifyTwoFactor]
// completes the challenge.
func (e *Engine) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	if e == nil || e.store == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}
	if email == "" || plainPassword == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Burn the same hashing cost as the found path so response
			// timing does not betray which emails exist.
			e.hasher.Verify(plainPassword, e.dummyDigest)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !e.hasher.Verify(plainPassword, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrAccountNotActive
	}

	if user.TwoFactorEnabled {
		// The challenge must be fully persisted before its code leaves the
		// process.
		code, err := e.challenges.Start(ctx, user.Email)
		if err != nil {
			return nil, fmt.Errorf("start two-factor challenge: %w", err)
		}
		e.dispatchEmail(
			user.Email,
			"Código 2FA",
			fmt.Sprintf("<p>Seu código 2FA: <b>%s</b></p>", code),
			fmt.Sprintf("Código 2FA: %s", code),
		)
		return &LoginResult{TokenType: "2fa_pending", TwoFactorPending: true}, nil
	}

	return e.issueToken(user)
}

// VerifyTwoFactor completes a pending login challenge. A wrong, expired, or
// absent code yields [ErrCodeInvalid]; the code is consumed on the first
// success and a failed attempt leaves the challenge available for retry.
func (e *Engine) VerifyTwoFactor(ctx context.Context, email, code string) (*LoginResult, error) {
	if e == nil || e.store == nil || e.challenges == nil {
		return nil, ErrEngineNotReady
	}
	if email == "" || code == "" {
		return nil, ErrCodeInvalid
	}

	ok, err := e.challenges.Verify(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCodeInvalid
	}

	user, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return e.issueToken(user)
}
