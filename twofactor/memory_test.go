package twofactor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestMemoryStore() *MemoryStore {
	return NewMemoryStore(10*time.Minute, 6)
}

func TestMemoryStartAndVerify(t *testing.T) {
	s := newTestMemoryStore()
	ctx := context.Background()

	code, err := s.Start(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("code length = %d, want 6", len(code))
	}

	ok, err := s.Verify(ctx, "a@x.com", code)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Fatal("expected correct code to verify")
	}
}

func TestMemoryCodeIsSingleUse(t *testing.T) {
	s := newTestMemoryStore()
	ctx := context.Background()

	code, err := s.Start(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if ok, _ := s.Verify(ctx, "a@x.com", code); !ok {
		t.Fatal("first verify should succeed")
	}
	if ok, _ := s.Verify(ctx, "a@x.com", code); ok {
		t.Fatal("reused code must not verify")
	}
}

func TestMemoryWrongCodeKeepsChallenge(t *testing.T) {
	s := newTestMemoryStore()
	ctx := context.Background()

	code, err := s.Start(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if ok, _ := s.Verify(ctx, "a@x.com", "zzzzzz"); ok {
		t.Fatal("wrong code must not verify")
	}
	// The challenge survives the failed attempt.
	if ok, _ := s.Verify(ctx, "a@x.com", code); !ok {
		t.Fatal("correct code should still verify after a failed attempt")
	}
}

func TestMemoryUnknownEmailFails(t *testing.T) {
	s := newTestMemoryStore()

	ok, err := s.Verify(context.Background(), "nobody@x.com", "abc123")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Fatal("expected no challenge for unknown email")
	}
}

func TestMemoryStartReplacesPriorChallenge(t *testing.T) {
	s := newTestMemoryStore()
	ctx := context.Background()

	first, err := s.Start(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	second, err := s.Start(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if first != second {
		if ok, _ := s.Verify(ctx, "a@x.com", first); ok {
			t.Fatal("replaced code must not verify")
		}
	}
	if ok, _ := s.Verify(ctx, "a@x.com", second); !ok {
		t.Fatal("latest code should verify")
	}
}

func TestMemoryExpiredCodeFails(t *testing.T) {
	s := newTestMemoryStore()
	ctx := context.Background()

	code, err := s.Start(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	base := time.Now()
	s.now = func() time.Time { return base.Add(10*time.Minute + time.Second) }

	if ok, _ := s.Verify(ctx, "a@x.com", code); ok {
		t.Fatal("expired code must not verify even when correct")
	}
}

func TestMemoryConcurrentIdentitiesDoNotInterfere(t *testing.T) {
	s := newTestMemoryStore()
	ctx := context.Background()

	const n = 32
	codes := make([]string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, err := s.Start(ctx, fmt.Sprintf("user%d@x.com", i))
			if err != nil {
				t.Errorf("Start failed: %v", err)
				return
			}
			codes[i] = code
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		ok, err := s.Verify(ctx, fmt.Sprintf("user%d@x.com", i), codes[i])
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if !ok {
			t.Fatalf("challenge for user%d lost or cross-wired", i)
		}
	}
}
