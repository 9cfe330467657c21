package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"StudentShowcase/internal/logging"
	"StudentShowcase/internal/ports"
)

func newTestLocalStore(t *testing.T, blobs ports.BlobStore) *LocalStore {
	t.Helper()
	if blobs == nil {
		blobs = NewMemoryBlobStore()
	}
	store := NewLocalStore(blobs, DefaultDataset(), logging.Discard())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLocalStoreSeedsEmptyCollections(t *testing.T) {
	t.Parallel()

	store := newTestLocalStore(t, nil)
	ctx := context.Background()

	stories, err := store.Select(ctx, ports.CollectionStories, ports.Query{
		OrderBy:    "created_at",
		Descending: true,
	})
	require.NoError(t, err)
	require.Len(t, stories, 3)
	require.Equal(t, "story-3", stories[0]["id"])
	require.Equal(t, "story-1", stories[2]["id"])

	views, err := store.Select(ctx, ports.CollectionStoryViews, ports.Query{})
	require.NoError(t, err)
	require.Empty(t, views)
}

func TestLocalStoreRejectsUnknownCollection(t *testing.T) {
	t.Parallel()

	store := newTestLocalStore(t, nil)
	_, err := store.Select(context.Background(), "users", ports.Query{})
	require.Error(t, err)
}

func TestLocalStoreInsertSelectFilterLimit(t *testing.T) {
	t.Parallel()

	store := newTestLocalStore(t, nil)
	ctx := context.Background()

	err := store.Insert(ctx, ports.CollectionComments, ports.Record{
		"id":          "c-new",
		"story_id":    "story-2",
		"author_name": nil,
		"content":     "pending",
		"is_approved": false,
		"created_at":  "2024-02-01T00:00:00Z",
		"updated_at":  "2024-02-01T00:00:00Z",
	})
	require.NoError(t, err)

	err = store.Insert(ctx, ports.CollectionComments, ports.Record{"id": "c-new"})
	require.Error(t, err, "duplicate ids are rejected")

	approved, err := store.Select(ctx, ports.CollectionComments, ports.Query{
		Where:   ports.Eq{"story_id": "story-2", "is_approved": true},
		OrderBy: "created_at",
	})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	require.Equal(t, "3", approved[0]["id"])

	latest, err := store.Select(ctx, ports.CollectionComments, ports.Query{
		Columns:    []string{"id"},
		OrderBy:    "created_at",
		Descending: true,
		Limit:      1,
	})
	require.NoError(t, err)
	require.Equal(t, []ports.Record{{"id": "c-new"}}, latest)
}

func TestLocalStoreInsertIfAbsent(t *testing.T) {
	t.Parallel()

	store := newTestLocalStore(t, nil)
	ctx := context.Background()

	view := ports.Record{"id": "v1", "story_id": "story-1", "session_id": "s1"}
	inserted, err := store.InsertIfAbsent(ctx, ports.CollectionStoryViews, view, "story_id", "session_id")
	require.NoError(t, err)
	require.True(t, inserted)

	view = ports.Record{"id": "v2", "story_id": "story-1", "session_id": "s1"}
	inserted, err = store.InsertIfAbsent(ctx, ports.CollectionStoryViews, view, "story_id", "session_id")
	require.NoError(t, err)
	require.False(t, inserted)

	_, err = store.InsertIfAbsent(ctx, ports.CollectionStoryViews, view)
	require.Error(t, err)
}

func TestLocalStoreInsertIfAbsentConcurrent(t *testing.T) {
	t.Parallel()

	store := newTestLocalStore(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = store.InsertIfAbsent(ctx, ports.CollectionStoryViews, ports.Record{
				"id":         string(rune('a' + i)),
				"story_id":   "story-1",
				"session_id": "same",
			}, "story_id", "session_id")
		}(i)
	}
	wg.Wait()

	views, err := store.Select(ctx, ports.CollectionStoryViews, ports.Query{})
	require.NoError(t, err)
	require.Len(t, views, 1)
}

func TestLocalStoreUpdateAndDelete(t *testing.T) {
	t.Parallel()

	store := newTestLocalStore(t, nil)
	ctx := context.Background()

	n, err := store.Update(ctx, ports.CollectionStories, ports.Eq{"id": "story-2"}, ports.Record{"is_visible": false})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = store.Update(ctx, ports.CollectionStories, ports.Eq{"id": "missing"}, ports.Record{"is_visible": false})
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	_, err = store.Update(ctx, ports.CollectionStories, nil, ports.Record{"is_visible": false})
	require.Error(t, err)

	visible, err := store.Select(ctx, ports.CollectionStories, ports.Query{Where: ports.Eq{"is_visible": true}})
	require.NoError(t, err)
	require.Len(t, visible, 2)

	n, err = store.Delete(ctx, ports.CollectionStories, ports.Eq{"id": "story-1"})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = store.Delete(ctx, ports.CollectionStories, ports.Eq{"id": "story-1"})
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	all, err := store.Select(ctx, ports.CollectionStories, ports.Query{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestLocalStorePersistsThroughBlobStore(t *testing.T) {
	t.Parallel()

	blobs := NewMemoryBlobStore()
	ctx := context.Background()

	first := NewLocalStore(blobs, DefaultDataset(), logging.Discard())
	_, err := first.Delete(ctx, ports.CollectionStories, ports.Eq{"id": "story-3"})
	require.NoError(t, err)

	second := NewLocalStore(blobs, DefaultDataset(), logging.Discard())
	stories, err := second.Select(ctx, ports.CollectionStories, ports.Query{})
	require.NoError(t, err)
	require.Len(t, stories, 2)
}

func TestCompareValues(t *testing.T) {
	t.Parallel()

	require.Equal(t, -1, compareValues(nil, "a"))
	require.Equal(t, 1, compareValues("b", "a"))
	require.Equal(t, -1, compareValues("2024-01-10T10:00:00Z", "2024-01-10T10:00:00.5Z"))
	require.Equal(t, 0, compareValues(int64(3), float64(3)))
	require.Equal(t, -1, compareValues(false, true))
}

func TestSeedStoriesIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewLocalStore(NewMemoryBlobStore(), nil, logging.Discard())
	ctx := context.Background()

	added, err := SeedStories(ctx, store, logging.Discard())
	require.NoError(t, err)
	require.Equal(t, 3, added)

	added, err = SeedStories(ctx, store, logging.Discard())
	require.NoError(t, err)
	require.Zero(t, added)
}
