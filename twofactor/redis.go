package twofactor

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vigidengue/accounts/internal/secrets"
)

// RedisStore keeps pending challenges in Redis with native TTLs, one key per
// account email. It carries the same single-challenge-per-email semantics as
// MemoryStore across service replicas.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string

	ttl        time.Duration
	codeLength int
}

// NewRedisStore returns a RedisStore using the given client. An empty prefix
// defaults to "a2f".
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration, codeLength int) *RedisStore {
	if prefix == "" {
		prefix = "a2f"
	}
	return &RedisStore{
		redis:      client,
		prefix:     prefix,
		ttl:        ttl,
		codeLength: codeLength,
	}
}

func (s *RedisStore) key(email string) string {
	return s.prefix + ":" + email
}

// Start generates and records a challenge for email, replacing any prior one.
// The Redis TTL enforces expiry without a sweeper.
func (s *RedisStore) Start(ctx context.Context, email string) (string, error) {
	code, err := secrets.NewShortCode(s.codeLength)
	if err != nil {
		return "", err
	}
	if err := s.redis.Set(ctx, s.key(email), code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return code, nil
}

// Verify checks the submitted code against the pending challenge for email.
func (s *RedisStore) Verify(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.redis.Get(ctx, s.key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}

	if err := s.redis.Del(ctx, s.key(email)).Err(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return true, nil
}
