// Package secrets generates the opaque single-use tokens and short
// human-enterable codes used by the account lifecycle and two-factor flows.
// All randomness comes from crypto/rand.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"math/big"
	"strings"
)

const opaqueTokenBytes = 32

// Alphanumeric without lookalikes would shrink the space for no gain here;
// codes are bound to one account and a short expiry.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewOpaqueToken returns a URL-safe token with 256 bits of entropy, suitable
// for confirmation and password-reset links.
func NewOpaqueToken() (string, error) {
	raw := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// NewShortCode returns an alphanumeric code of the given length for
// two-factor challenges.
func NewShortCode(length int) (string, error) {
	if length < 4 || length > 10 {
		return "", errors.New("invalid code length")
	}

	var b strings.Builder
	b.Grow(length)

	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
