package secrets

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestNewOpaqueTokenLengthAndCharset(t *testing.T) {
	token, err := NewOpaqueToken()
	if err != nil {
		t.Fatalf("NewOpaqueToken failed: %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("token is not base64url: %v", err)
	}
	if len(raw) != 32 {
		t.Fatalf("token carries %d bytes, want 32", len(raw))
	}
	if strings.ContainsAny(token, "+/=") {
		t.Fatalf("token is not URL-safe: %q", token)
	}
}

func TestNewOpaqueTokenIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewOpaqueToken()
		if err != nil {
			t.Fatalf("NewOpaqueToken failed: %v", err)
		}
		if seen[token] {
			t.Fatal("duplicate opaque token")
		}
		seen[token] = true
	}
}

func TestNewShortCode(t *testing.T) {
	code, err := NewShortCode(6)
	if err != nil {
		t.Fatalf("NewShortCode failed: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("code length = %d, want 6", len(code))
	}
	for _, c := range code {
		if !strings.ContainsRune(codeAlphabet, c) {
			t.Fatalf("code %q contains byte outside alphabet", code)
		}
	}
}

func TestNewShortCodeRejectsBadLength(t *testing.T) {
	for _, length := range []int{0, 3, 11, -1} {
		if _, err := NewShortCode(length); err == nil {
			t.Fatalf("expected error for length %d", length)
		}
	}
}
