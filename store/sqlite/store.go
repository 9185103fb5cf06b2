// Package sqlite persists user accounts in SQLite. It implements the
// accounts.Store contract: ErrUserNotFound on misses, ErrEmailTaken on email
// uniqueness violations, one transactional statement per operation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/vigidengue/accounts"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id                   TEXT PRIMARY KEY,
	email                TEXT NOT NULL UNIQUE,
	password_hash        TEXT NOT NULL,
	role                 TEXT NOT NULL DEFAULT 'usuario',
	active               INTEGER NOT NULL DEFAULT 0,
	two_factor_enabled   INTEGER NOT NULL DEFAULT 0,
	confirmation_token   TEXT,
	confirmation_sent_at INTEGER,
	reset_token          TEXT,
	reset_requested_at   INTEGER,
	created_at           INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_users_confirmation_token ON users (confirmation_token);
CREATE INDEX IF NOT EXISTS idx_users_reset_token ON users (reset_token);
`

const userColumns = `id, email, password_hash, role, active, two_factor_enabled,
	confirmation_token, confirmation_sent_at, reset_token, reset_requested_at, created_at`

// Store is a SQLite-backed accounts.Store.
type Store struct {
	sqlDB *sql.DB
}

var _ accounts.Store = (*Store)(nil)

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func toMillis(value time.Time) sql.NullInt64 {
	if value.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: value.UTC().UnixMilli(), Valid: true}
}

func fromMillis(value sql.NullInt64) time.Time {
	if !value.Valid {
		return time.Time{}
	}
	return time.UnixMilli(value.Int64).UTC()
}

func nullable(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

func scanUser(row interface{ Scan(...any) error }) (*accounts.User, error) {
	var (
		user               accounts.User
		role               string
		confirmationToken  sql.NullString
		confirmationSentAt sql.NullInt64
		resetToken         sql.NullString
		resetRequestedAt   sql.NullInt64
		createdAt          int64
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.Active,
		&user.TwoFactorEnabled,
		&confirmationToken,
		&confirmationSentAt,
		&resetToken,
		&resetRequestedAt,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accounts.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	user.Role = accounts.Role(role)
	user.ConfirmationToken = confirmationToken.String
	user.ConfirmationSentAt = fromMillis(confirmationSentAt)
	user.ResetToken = resetToken.String
	user.ResetRequestedAt = fromMillis(resetRequestedAt)
	user.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &user, nil
}

func (s *Store) findOne(ctx context.Context, where string, arg any) (*accounts.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE " + where
	return scanUser(s.sqlDB.QueryRowContext(ctx, query, arg))
}

// FindByEmail returns the user with the given email.
func (s *Store) FindByEmail(ctx context.Context, email string) (*accounts.User, error) {
	return s.findOne(ctx, "email = ?", email)
}

// FindByID returns the user with the given id.
func (s *Store) FindByID(ctx context.Context, id string) (*accounts.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

// FindByConfirmationToken returns the user holding the given confirmation
// token. Cleared tokens (NULL) never match.
func (s *Store) FindByConfirmationToken(ctx context.Context, token string) (*accounts.User, error) {
	if token == "" {
		return nil, accounts.ErrUserNotFound
	}
	return s.findOne(ctx, "confirmation_token = ?", token)
}

// FindByResetToken returns the user holding the given reset token.
func (s *Store) FindByResetToken(ctx context.Context, token string) (*accounts.User, error) {
	if token == "" {
		return nil, accounts.ErrUserNotFound
	}
	return s.findOne(ctx, "reset_token = ?", token)
}

// Create inserts one user record.
func (s *Store) Create(ctx context.Context, user *accounts.User) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.Active,
		user.TwoFactorEnabled,
		nullable(user.ConfirmationToken),
		toMillis(user.ConfirmationSentAt),
		nullable(user.ResetToken),
		toMillis(user.ResetRequestedAt),
		user.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return accounts.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update rewrites the full record identified by user.ID.
func (s *Store) Update(ctx context.Context, user *accounts.User) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE users SET email = ?, password_hash = ?, role = ?, active = ?,
			two_factor_enabled = ?, confirmation_token = ?, confirmation_sent_at = ?,
			reset_token = ?, reset_requested_at = ? WHERE id = ?`,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.Active,
		user.TwoFactorEnabled,
		nullable(user.ConfirmationToken),
		toMillis(user.ConfirmationSentAt),
		nullable(user.ResetToken),
		toMillis(user.ResetRequestedAt),
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return accounts.ErrEmailTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return accounts.ErrUserNotFound
	}
	return nil
}

// Delete removes the user with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return accounts.ErrUserNotFound
	}
	return nil
}

// List returns all users ordered by creation time.
func (s *Store) List(ctx context.Context) ([]*accounts.User, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*accounts.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}
