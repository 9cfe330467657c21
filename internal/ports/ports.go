package ports

import (
	"context"
	"time"
)

// Collection names understood by every RecordStore.
const (
	CollectionStories          = "stories"
	CollectionComments         = "comments"
	CollectionStoryViews       = "story_views"
	CollectionModerationEvents = "moderation_events"
)

// Record is a JSON-shaped row: values are string, bool, float64/int64 or nil.
// Timestamps travel as RFC 3339 strings.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FormatTime renders t the way records carry timestamps. Precision is capped at
// microseconds so values survive a round trip through PostgreSQL unchanged.
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(time.Microsecond).Format(time.RFC3339Nano)
}

// ParseTime reads a record timestamp.
func ParseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

// Eq is a set of equality filters joined with AND.
type Eq map[string]any

// Query narrows a Select call.
type Query struct {
	Where      Eq
	Columns    []string
	OrderBy    string
	Descending bool
	Limit      int
}

// RecordStore is the persistence port shared by the remote and fallback backends.
type RecordStore interface {
	Insert(ctx context.Context, collection string, rec Record) error
	// InsertIfAbsent inserts rec unless a record with equal values for keys exists.
	InsertIfAbsent(ctx context.Context, collection string, rec Record, keys ...string) (bool, error)
	Select(ctx context.Context, collection string, q Query) ([]Record, error)
	Update(ctx context.Context, collection string, where Eq, patch Record) (int64, error)
	Delete(ctx context.Context, collection string, where Eq) (int64, error)
	Close() error
}

// BlobStore persists opaque payloads by key for the local fallback.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, payload []byte) error
	Close() error
}

// Handles pairs a read-scoped store with an elevated one used for admin writes.
// In fallback mode both point at the same store.
type Handles struct {
	Public RecordStore
	Admin  RecordStore
	Remote bool
}

// Close releases both handles once.
func (h Handles) Close() error {
	var firstErr error
	if h.Public != nil {
		firstErr = h.Public.Close()
	}
	if h.Admin != nil && h.Admin != h.Public {
		if err := h.Admin.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
