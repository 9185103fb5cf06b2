// Package logging defines the minimal structured-logging interface used
// across the service, with a slog-backed implementation and a no-op default.
package logging

import (
	"context"
	"log/slog"
)

// Logger is a context-aware, structured logger. The variadic args are
// key-value pairs, e.g. log.Warn(ctx, "email send failed", "to", addr).
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// Slog wraps a *slog.Logger.
type Slog struct {
	l *slog.Logger
}

// NewSlog returns a Logger backed by l.
func NewSlog(l *slog.Logger) *Slog {
	return &Slog{l: l}
}

func (s *Slog) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *Slog) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *Slog) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *Slog) With(args ...any) Logger {
	return &Slog{l: s.l.With(args...)}
}

// Nop discards everything. It is the engine default when no logger is wired.
type Nop struct{}

func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }
