package accounts

import "errors"

var (
	// ErrInvalidCredentials is returned by Login for both unknown emails and
	// wrong passwords. The two cases must stay indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotActive is returned by Login when the account has not
	// confirmed its email yet.
	ErrAccountNotActive = errors.New("account not activated")
	// ErrEmailTaken is returned by Register when the email already has an
	// account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidToken covers expired, consumed, malformed, or unknown
	// confirmation, reset, and access tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrCodeInvalid is returned by VerifyTwoFactor for a wrong or expired
	// two-factor code.
	ErrCodeInvalid = errors.New("invalid or expired code")
	// ErrUserNotFound is returned by Store implementations when no record
	// matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRole rejects role values outside the permitted set on admin
	// role updates.
	ErrInvalidRole = errors.New("invalid role")
	// ErrEngineNotReady is returned when an Engine method is called before
	// the engine was built with its required dependencies.
	ErrEngineNotReady = errors.New("engine not initialized")
)
