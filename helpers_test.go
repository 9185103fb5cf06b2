package accounts

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// memStore is an in-memory Store used by the engine tests. It mirrors the
// contract of store/sqlite: ErrUserNotFound on misses, ErrEmailTaken on
// duplicate emails.
type memStore struct {
	mu    sync.Mutex
	users map[string]*User // keyed by ID
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*User)}
}

func (s *memStore) findBy(match func(*User) bool) (*User, error) {
	for _, u := range s.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *memStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findBy(func(u *User) bool { return u.Email == email })
}

func (s *memStore) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findBy(func(u *User) bool { return u.ID == id })
}

func (s *memStore) FindByConfirmationToken(_ context.Context, token string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findBy(func(u *User) bool { return u.ConfirmationToken != "" && u.ConfirmationToken == token })
}

func (s *memStore) FindByResetToken(_ context.Context, token string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findBy(func(u *User) bool { return u.ResetToken != "" && u.ResetToken == token })
}

func (s *memStore) Create(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memStore) Update(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *memStore) List(_ context.Context) ([]*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*User, 0, len(s.users))
	for _, u := range s.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

type sentMail struct {
	to, subject, html, text string
}

// captureMailer records sends on a buffered channel so tests can wait for
// the asynchronous dispatch.
type captureMailer struct {
	sent chan sentMail
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{sent: make(chan sentMail, 16)}
}

func (m *captureMailer) Send(_ context.Context, to, subject, htmlBody, textBody string) error {
	m.sent <- sentMail{to: to, subject: subject, html: htmlBody, text: textBody}
	return nil
}

func (m *captureMailer) wait(t *testing.T) sentMail {
	t.Helper()
	select {
	case sm := <-m.sent:
		return sm
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for email dispatch")
		return sentMail{}
	}
}

// tokenFrom pulls the opaque token out of a text body like
// "Token de confirmação: <token>".
func tokenFrom(t *testing.T, sm sentMail) string {
	t.Helper()
	idx := strings.LastIndex(sm.text, ": ")
	if idx < 0 {
		t.Fatalf("no token in text body %q", sm.text)
	}
	return sm.text[idx+2:]
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.SigningSecret = []byte("0123456789abcdef0123456789abcdef")
	cfg.JWT.Issuer = "accounts-test"
	cfg.Password.Cost = 10
	return cfg
}

func newTestEngine(t *testing.T) (*Engine, *memStore, *captureMailer) {
	t.Helper()

	store := newMemStore()
	mailer := newCaptureMailer()

	engine, err := New().
		WithConfig(testConfig()).
		WithStore(store).
		WithMailer(mailer).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, store, mailer
}

// registerConfirmed registers and confirms an account in one step.
func registerConfirmed(t *testing.T, engine *Engine, mailer *captureMailer, email, pass string) {
	t.Helper()

	if err := engine.Register(context.Background(), email, pass, RoleUsuario); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	token := tokenFrom(t, mailer.wait(t))
	if err := engine.ConfirmAccount(context.Background(), token); err != nil {
		t.Fatalf("ConfirmAccount failed: %v", err)
	}
}
