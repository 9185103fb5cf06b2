// Package twofactor holds the transient login challenges: at most one pending
// code per account email, valid for a short window, consumed on the first
// successful verification.
//
// Two implementations are provided. MemoryStore keeps challenges in-process
// and is the default for single-instance deployments; RedisStore gives the
// same semantics across replicas with the expiry enforced by Redis TTLs.
package twofactor

import (
	"context"
	"errors"
)

// ErrBackend wraps infrastructure failures of a challenge store. A missing or
// mismatched code is not an error; Verify reports it as false.
var ErrBackend = errors.New("challenge backend unavailable")

// Store is the two-factor challenge store contract.
//
// Start generates a fresh code for email, records it with the configured
// expiry, replaces any prior challenge for the same email, and returns the
// code for dispatch. Verify reports whether a live challenge for email holds
// exactly the submitted code; on success the challenge is consumed, on
// mismatch it is left in place so the user may retry within the window.
// Implementations must be safe for concurrent use.
type Store interface {
	Start(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) (bool, error)
}
