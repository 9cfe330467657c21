package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"StudentShowcase/internal/ports"
)

const sqliteBlobSchema = `
CREATE TABLE IF NOT EXISTS blobs (
    blob_key TEXT PRIMARY KEY,
    payload BLOB NOT NULL,
    updated_at INTEGER NOT NULL
);`

// SQLiteBlobStore keeps fallback blobs in a single SQLite file.
type SQLiteBlobStore struct {
	sqlDB *sql.DB
}

var _ ports.BlobStore = (*SQLiteBlobStore)(nil)

// OpenSQLiteBlobStore opens (creating if needed) the SQLite file at path.
func OpenSQLiteBlobStore(path string) (*SQLiteBlobStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(sqliteBlobSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure blob table: %w", err)
	}

	return &SQLiteBlobStore{sqlDB: sqlDB}, nil
}

// Load returns the payload stored under key.
func (s *SQLiteBlobStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.sqlDB == nil {
		return nil, false, fmt.Errorf("storage is not configured")
	}

	var payload []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT payload FROM blobs WHERE blob_key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get blob: %w", err)
	}
	return payload, true, nil
}

// Save upserts the payload under key.
func (s *SQLiteBlobStore) Save(ctx context.Context, key string, payload []byte) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO blobs (blob_key, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(blob_key) DO UPDATE SET
		    payload = excluded.payload,
		    updated_at = excluded.updated_at`,
		key, payload, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put blob: %w", err)
	}
	return nil
}

// Close releases the underlying SQLite connection.
func (s *SQLiteBlobStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
