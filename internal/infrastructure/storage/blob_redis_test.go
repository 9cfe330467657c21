package storage

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"StudentShowcase/internal/logging"
	"StudentShowcase/internal/ports"
)

// openTestRedis connects to SHOWCASE_TEST_REDIS_URL (default localhost) and
// skips the test when nothing answers.
func openTestRedis(t *testing.T) *RedisBlobStore {
	t.Helper()

	url := os.Getenv("SHOWCASE_TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	store, err := OpenRedisBlobStore(context.Background(), url)
	if err != nil {
		t.Skipf("redis not reachable at %s: %v", url, err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRedisBlobStoreRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := OpenRedisBlobStore(context.Background(), "http://not-redis")
	require.Error(t, err)
}

func TestRedisBlobKeysAreNamespaced(t *testing.T) {
	t.Parallel()

	require.Equal(t, "showcase:blob:stories", blobKey("stories"))
}

func TestRedisBlobStoreRoundTrip(t *testing.T) {
	store := openTestRedis(t)
	ctx := context.Background()
	key := "test-" + uuid.NewString()
	t.Cleanup(func() { _ = store.client.Del(context.Background(), blobKey(key)).Err() })

	_, found, err := store.Load(ctx, key)
	require.NoError(t, err)
	require.False(t, found, "missing keys read as not found")

	require.NoError(t, store.Save(ctx, key, []byte(`[{"id":"a"}]`)))
	require.NoError(t, store.Save(ctx, key, []byte(`[{"id":"b"}]`)))

	payload, found, err := store.Load(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, `[{"id":"b"}]`, string(payload))
}

func TestLocalStoreOverRedis(t *testing.T) {
	blobs := openTestRedis(t)
	ctx := context.Background()
	wipe := func() {
		for collection := range tableColumns {
			_ = blobs.client.Del(context.Background(), blobKey(collection)).Err()
		}
	}
	wipe()
	t.Cleanup(wipe)

	store := NewLocalStore(blobs, DefaultDataset(), logging.Discard())
	n, err := store.Delete(ctx, ports.CollectionStories, ports.Eq{"id": "story-1"})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	reopened := NewLocalStore(blobs, DefaultDataset(), logging.Discard())
	stories, err := reopened.Select(ctx, ports.CollectionStories, ports.Query{})
	require.NoError(t, err)
	require.Len(t, stories, 2)
}
