package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"StudentShowcase/internal/config"
	"StudentShowcase/internal/logging"
	"StudentShowcase/internal/ports"
)

func TestOpenUsesFallbackWithoutRemote(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		Remote:   config.RemoteConfig{URL: "your_supabase_url_here", ReadKey: "dummy-key"},
		Fallback: config.FallbackConfig{Driver: "memory"},
	}

	handles, err := Open(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = handles.Close() })

	require.False(t, handles.Remote)
	require.Same(t, handles.Public, handles.Admin)

	stories, err := handles.Public.Select(context.Background(), ports.CollectionStories, ports.Query{})
	require.NoError(t, err)
	require.Len(t, stories, len(SampleStories()))
}

func TestOpenRejectsUnknownFallbackDriver(t *testing.T) {
	t.Parallel()

	cfg := config.Config{Fallback: config.FallbackConfig{Driver: "bolt"}}
	_, err := Open(context.Background(), cfg, logging.Discard())
	require.Error(t, err)
}
