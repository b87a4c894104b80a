// Package sqlite persists terminal client state in a per-profile SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/chat.space/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/chat.space/internal/services/chatlogin/storage/sqlite/migrations"
	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
)

var errStoreNotConfigured = errors.New("storage is not configured")

// Store keeps key/value client state. It implements authflow.TokenStore
// under authflow.TokenKey.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens the profile database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := path + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite store: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := s.ready(); err != nil {
		return "", false, err
	}
	var value string
	err := s.sqlDB.QueryRowContext(ctx, "SELECT value FROM client_state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Put writes value under key, replacing any earlier value.
func (s *Store) Put(ctx context.Context, key, value string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM client_state WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// SaveToken stores the session token.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	return s.Put(ctx, authflow.TokenKey, token)
}

// LoadToken returns the stored session token.
func (s *Store) LoadToken(ctx context.Context) (string, bool, error) {
	return s.Get(ctx, authflow.TokenKey)
}

// ClearToken forgets the session token.
func (s *Store) ClearToken(ctx context.Context) error {
	return s.Delete(ctx, authflow.TokenKey)
}

func (s *Store) ready() error {
	if s == nil || s.sqlDB == nil {
		return errStoreNotConfigured
	}
	return nil
}

var _ authflow.TokenStore = (*Store)(nil)
