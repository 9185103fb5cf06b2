package accounts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vigidengue/accounts/internal/logging"
	"github.com/vigidengue/accounts/jwt"
	"github.com/vigidengue/accounts/password"
	"github.com/vigidengue/accounts/twofactor"
)

// Each email send gets its own bounded context, detached from the request
// that triggered it.
const mailDispatchTimeout = 30 * time.Second

// Engine is the authentication core. Build one through [Builder.Build]; all
// methods are then safe for concurrent use.
type Engine struct {
	config      Config
	store       Store
	mailer      Mailer
	challenges  twofactor.Store
	hasher      *password.Hasher
	dummyDigest string
	jwtManager  *jwt.Manager
	log         logging.Logger

	mailWG sync.WaitGroup
}

// Close waits for in-flight email dispatches to finish.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.mailWG.Wait()
}

// Authenticate parses a bearer token and resolves its subject against the
// store. The returned [Identity] is what a role gate needs; an invalid token
// or a subject with no account yields [ErrInvalidToken].
func (e *Engine) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if e == nil || e.jwtManager == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.jwtManager.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := e.store.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return &Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func (e *Engine) issueToken(user *User) (*LoginResult, error) {
	token, err := e.jwtManager.Issue(user.Email, string(user.Role), 0)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, TokenType: "bearer"}, nil
}

// dispatchEmail sends in the background. Delivery failure never reaches the
// operation that triggered the send; it is logged and dropped.
func (e *Engine) dispatchEmail(to, subject, htmlBody, textBody string) {
	e.mailWG.Add(1)
	go func() {
		defer e.mailWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), mailDispatchTimeout)
		defer cancel()

		if err := e.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
			e.log.Warn(ctx, "email send failed", "to", to, "subject", subject, "err", err)
		}
	}()
}
