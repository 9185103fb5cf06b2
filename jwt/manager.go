// Package jwt signs and verifies the stateless access tokens issued after a
// successful login. Verification is purely local: signature, expiry, and
// subject checks, no server-side session table.
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid covers every verification failure: bad signature, malformed
// token, wrong algorithm, expired, or missing subject. Callers get no finer
// distinction.
var ErrTokenInvalid = errors.New("invalid token")

// Config configures a [Manager]. Secret is the symmetric HS256 signing key
// and is required. AccessTTL is the default token lifetime when a call does
// not override it.
type Config struct {
	Secret    []byte
	AccessTTL time.Duration
	Issuer    string
}

// Claims is the payload carried by an access token. Subject is the account
// email and is mandatory; Role is informational and set at issuance time.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and parses HS256-signed access tokens. A Manager is
// immutable after construction and safe for concurrent use.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a ready Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("hs256 requires a signing secret")
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	return &Manager{config: cfg}, nil
}

// Issue signs a token for subject with the given role. A non-positive ttl
// falls back to the configured AccessTTL.
func (m *Manager) Issue(subject, role string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}
	if ttl <= 0 {
		ttl = m.config.AccessTTL
	}

	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.config.Secret)
}

// Parse verifies a token string and returns its claims, or [ErrTokenInvalid].
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
