package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/okian/elevatos/pkg/logger"
	"github.com/okian/elevatos/pkg/metrics"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const (
	sqliteBackend = "sqlite"
	defaultTable  = "kv"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteStore keeps entries in a single SQLite table so the dashboard state
// survives restarts.
type SQLiteStore struct {
	db     *sql.DB
	table  string
	logger logger.Logger
}

// NewSQLiteStore opens (creating if needed) the database at dsn and ensures
// the entry table exists. Use ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, dsn string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{table: defaultTable}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("repository")
	}
	if !tableName.MatchString(s.table) {
		return nil, fmt.Errorf("invalid table name %q", s.table)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`, s.table)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	s.db = db
	s.logger.Info(ctx, "sqlite repository ready", logger.String("dsn", dsn), logger.String("table", s.table))
	return s, nil
}

// Get returns the value under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	defer observe(sqliteBackend, "get", start)

	var value []byte
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT value FROM %s WHERE key = ?`, s.table), key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	case err != nil:
		metrics.RecordRepositoryError(sqliteBackend, "get")
		return nil, s.wrap("get", err)
	}
	return value, nil
}

// Put upserts the value under key.
func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	defer observe(sqliteBackend, "put", start)

	if !validKey(key) {
		metrics.RecordRepositoryError(sqliteBackend, "put")
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if value == nil {
		value = []byte{}
	}

	query := fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, s.table)
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		metrics.RecordRepositoryError(sqliteBackend, "put")
		return s.wrap("put", err)
	}
	return nil
}

// Keys lists the stored keys in ascending order.
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT key FROM %s ORDER BY key`, s.table))
	if err != nil {
		metrics.RecordRepositoryError(sqliteBackend, "keys")
		return nil, s.wrap("keys", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("keys", err)
	}
	return keys, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) wrap(op string, err error) error {
	// database/sql reports use after Close with this message only
	if err != nil && err.Error() == "sql: database is closed" {
		return ErrClosed
	}
	return fmt.Errorf("sqlite %s: %w", op, err)
}
