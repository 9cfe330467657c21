package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"StudentShowcase/internal/ports"
)

// PostgresStore persists records into PostgreSQL tables named after collections.
type PostgresStore struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

var _ ports.RecordStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// OpenPostgres opens a lazily connecting pool for dsn.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return NewPostgresStore(db), nil
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("postgres store is not configured")
	}
	return s.db.PingContext(ctx)
}

// Migrate creates missing tables and indexes.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("postgres store is not configured")
	}
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Insert adds a row.
func (s *PostgresStore) Insert(ctx context.Context, collection string, rec ports.Record) error {
	query, args, err := s.buildInsert(collection, rec, nil)
	if err != nil {
		return err
	}
	if _, err := s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

// InsertIfAbsent relies on a unique constraint over keys.
func (s *PostgresStore) InsertIfAbsent(ctx context.Context, collection string, rec ports.Record, keys ...string) (bool, error) {
	if len(keys) == 0 {
		return false, fmt.Errorf("insert into %s: conflict keys are required", collection)
	}
	query, args, err := s.buildInsert(collection, rec, keys)
	if err != nil {
		return false, err
	}
	affected, err := s.exec(ctx, query, args)
	if err != nil {
		return false, fmt.Errorf("insert into %s: %w", collection, err)
	}
	return affected == 1, nil
}

// Select returns matching rows with timestamps rendered as RFC 3339 strings.
func (s *PostgresStore) Select(ctx context.Context, collection string, q ports.Query) ([]ports.Record, error) {
	query, args, err := s.buildSelect(collection, q)
	if err != nil {
		return nil, err
	}
	if s.db == nil {
		return nil, fmt.Errorf("postgres store is not configured")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("columns %s: %w", collection, err)
	}

	var result []ports.Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		rec := make(ports.Record, len(cols))
		for i, col := range cols {
			rec[col] = normalizeValue(values[i])
		}
		result = append(result, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// Update patches matching rows and reports how many changed.
func (s *PostgresStore) Update(ctx context.Context, collection string, where ports.Eq, patch ports.Record) (int64, error) {
	query, args, err := s.buildUpdate(collection, where, patch)
	if err != nil {
		return 0, err
	}
	affected, err := s.exec(ctx, query, args)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", collection, err)
	}
	return affected, nil
}

// Delete removes matching rows and reports how many were removed.
func (s *PostgresStore) Delete(ctx context.Context, collection string, where ports.Eq) (int64, error) {
	query, args, err := s.buildDelete(collection, where)
	if err != nil {
		return 0, err
	}
	affected, err := s.exec(ctx, query, args)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", collection, err)
	}
	return affected, nil
}

func (s *PostgresStore) exec(ctx context.Context, query string, args []any) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("postgres store is not configured")
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PostgresStore) buildInsert(collection string, rec ports.Record, conflictKeys []string) (string, []any, error) {
	if len(rec) == 0 {
		return "", nil, fmt.Errorf("insert into %s: empty record", collection)
	}
	cols := sortedKeys(rec)
	if err := checkColumns(collection, cols); err != nil {
		return "", nil, err
	}
	if err := checkColumns(collection, conflictKeys); err != nil {
		return "", nil, err
	}

	values := make([]any, len(cols))
	for i, col := range cols {
		values[i] = rec[col]
	}

	builder := s.sb.Insert(collection).Columns(cols...).Values(values...)
	if len(conflictKeys) > 0 {
		builder = builder.Suffix(fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", strings.Join(conflictKeys, ", ")))
	}
	return builder.ToSql()
}

func (s *PostgresStore) buildSelect(collection string, q ports.Query) (string, []any, error) {
	cols := q.Columns
	if len(cols) == 0 {
		var err error
		if cols, err = columnsOf(collection); err != nil {
			return "", nil, err
		}
	}
	if err := checkColumns(collection, cols); err != nil {
		return "", nil, err
	}
	if err := checkColumns(collection, sortedKeys(q.Where)); err != nil {
		return "", nil, err
	}

	builder := s.sb.Select(cols...).From(collection)
	if len(q.Where) > 0 {
		builder = builder.Where(squirrel.Eq(q.Where))
	}
	if q.OrderBy != "" {
		if err := checkColumns(collection, []string{q.OrderBy}); err != nil {
			return "", nil, err
		}
		direction := "ASC"
		if q.Descending {
			direction = "DESC"
		}
		builder = builder.OrderBy(q.OrderBy + " " + direction)
	}
	if q.Limit > 0 {
		builder = builder.Limit(uint64(q.Limit))
	}
	return builder.ToSql()
}

func (s *PostgresStore) buildUpdate(collection string, where ports.Eq, patch ports.Record) (string, []any, error) {
	if len(where) == 0 {
		return "", nil, fmt.Errorf("update %s: a filter is required", collection)
	}
	if len(patch) == 0 {
		return "", nil, fmt.Errorf("update %s: empty patch", collection)
	}
	if err := checkColumns(collection, sortedKeys(patch)); err != nil {
		return "", nil, err
	}
	if err := checkColumns(collection, sortedKeys(where)); err != nil {
		return "", nil, err
	}
	return s.sb.Update(collection).
		SetMap(map[string]any(patch)).
		Where(squirrel.Eq(where)).
		ToSql()
}

func (s *PostgresStore) buildDelete(collection string, where ports.Eq) (string, []any, error) {
	if len(where) == 0 {
		return "", nil, fmt.Errorf("delete from %s: a filter is required", collection)
	}
	if err := checkColumns(collection, sortedKeys(where)); err != nil {
		return "", nil, err
	}
	return s.sb.Delete(collection).Where(squirrel.Eq(where)).ToSql()
}

// normalizeValue maps driver values onto the JSON-shaped record value set.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return ports.FormatTime(val)
	default:
		return val
	}
}
