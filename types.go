package accounts

import (
	"context"
	"time"
)

// Role is the closed set of account roles. Unknown values are normalized to
// [RoleUsuario] at registration and rejected on admin role updates.
type Role string

const (
	// RoleUsuario is the default role assigned at registration.
	RoleUsuario Role = "usuario"
	// RoleGestor grants access to the administrative endpoints.
	RoleGestor Role = "gestor"
)

// Valid reports whether r is one of the permitted roles.
func (r Role) Valid() bool {
	return r == RoleUsuario || r == RoleGestor
}

// NormalizeRole maps empty or unknown role values to [RoleUsuario].
func NormalizeRole(r Role) Role {
	if !r.Valid() {
		return RoleUsuario
	}
	return r
}

// User is the account record exchanged with the [Store]. The engine reads and
// mutates specific fields; the store owns persistence and uniqueness of Email.
//
// ConfirmationToken is non-empty only between registration and a successful
// confirmation; ResetToken only between a reset request and a successful
// reset. The timestamps bound token validity.
type User struct {
	ID                 string
	Email              string
	PasswordHash       string
	Role               Role
	Active             bool
	TwoFactorEnabled   bool
	ConfirmationToken  string
	ConfirmationSentAt time.Time
	ResetToken         string
	ResetRequestedAt   time.Time
	CreatedAt          time.Time
}

// Store is the persistent user store collaborator. Implementations must
// return [ErrUserNotFound] when no record matches a lookup and [ErrEmailTaken]
// when Create or Update would violate email uniqueness. Each operation is
// assumed durable and transactional on its own.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByConfirmationToken(ctx context.Context, token string) (*User, error)
	FindByResetToken(ctx context.Context, token string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*User, error)
}

// Mailer is the email transport collaborator. Delivery is best-effort; the
// engine dispatches sends asynchronously and never propagates Send errors to
// the operation that triggered them.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// LoginResult is returned by [Engine.Login] and [Engine.VerifyTwoFactor].
// Either AccessToken is set, or TwoFactorPending is true and the caller must
// complete the challenge via [Engine.VerifyTwoFactor].
type LoginResult struct {
	AccessToken      string
	TokenType        string
	TwoFactorPending bool
}

// Identity is the validated subject of a parsed access token, resolved
// against the store. It carries what a role gate needs.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}
