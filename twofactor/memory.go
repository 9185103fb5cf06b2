package twofactor

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/vigidengue/accounts/internal/secrets"
)

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore keeps pending challenges in a mutex-guarded map. Expired
// entries behave as absent and are removed lazily on the next touch.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	ttl        time.Duration
	codeLength int
	now        func() time.Time
}

// NewMemoryStore returns a MemoryStore issuing codes of codeLength valid
// for ttl.
func NewMemoryStore(ttl time.Duration, codeLength int) *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		codeLength: codeLength,
		now:        time.Now,
	}
}

// Start generates and records a challenge for email, replacing any prior one.
func (s *MemoryStore) Start(_ context.Context, email string) (string, error) {
	code, err := secrets.NewShortCode(s.codeLength)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.entries[email] = memoryEntry{
		code:      code,
		expiresAt: s.now().Add(s.ttl),
	}
	s.mu.Unlock()

	return code, nil
}

// Verify checks the submitted code against the pending challenge for email.
func (s *MemoryStore) Verify(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[email]
	if !ok {
		return false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, email)
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(entry.code), []byte(code)) != 1 {
		// Wrong code: keep the challenge so the user can retry until expiry.
		return false, nil
	}

	delete(s.entries, email)
	return true, nil
}
