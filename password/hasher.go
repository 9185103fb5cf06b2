// Package password hashes and verifies account passwords with bcrypt.
//
// Inputs are pre-hashed with SHA-256 before bcrypt so that passwords longer
// than bcrypt's 72-byte limit stay fully significant instead of being
// silently truncated. The digest prefix identifies the scheme so it can be
// told apart from plain bcrypt output.
package password

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	schemePrefix = "$bcrypt-sha256$"

	minCost = 10
	maxCost = 15
)

// Config carries the bcrypt work factor.
type Config struct {
	Cost int
}

// Hasher is a one-way password hasher. It is stateless and safe for
// concurrent use.
type Hasher struct {
	cost int
}

// NewHasher validates cfg and returns a Hasher.
func NewHasher(cfg Config) (*Hasher, error) {
	if cfg.Cost < minCost {
		return nil, errors.New("password cost must be >= 10")
	}
	if cfg.Cost > maxCost {
		return nil, errors.New("password cost must be <= 15")
	}
	return &Hasher{cost: cfg.Cost}, nil
}

// Hash derives a digest from plaintext. The plaintext never appears in the
// output or in any error.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("password must not be empty")
	}

	digest, err := bcrypt.GenerateFromPassword(prehash(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return schemePrefix + string(digest), nil
}

// Verify reports whether plaintext matches encoded. Any internal failure,
// including a malformed digest, is reported as a mismatch: callers never
// branch on hashing errors.
func (h *Hasher) Verify(plaintext, encoded string) bool {
	raw, ok := strings.CutPrefix(encoded, schemePrefix)
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(raw), prehash(plaintext)) == nil
}

// prehash collapses arbitrary-length input to a fixed 44-byte base64 string,
// keeping it inside bcrypt's 72-byte limit without NUL bytes.
func prehash(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
