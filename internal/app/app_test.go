package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"StudentShowcase/internal/config"
	"StudentShowcase/internal/logging"
)

func TestNewServesFallbackStore(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		Server:   config.ServerConfig{Addr: "127.0.0.1:0"},
		Fallback: config.FallbackConfig{Driver: "memory"},
		Admin:    config.AdminConfig{Password: "pw"},
	}

	application, err := New(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.stores.Close() })

	require.False(t, application.stores.Remote)

	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stories", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "story-1")
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		Server:   config.ServerConfig{Addr: "127.0.0.1:0"},
		Fallback: config.FallbackConfig{Driver: "memory"},
	}
	application, err := New(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()
	cancel()

	require.NoError(t, <-done)
}

func TestNewSessionStoreGeneratesKey(t *testing.T) {
	t.Parallel()

	store := newSessionStore("", logging.Discard())
	require.NotNil(t, store)
	require.NotEmpty(t, store.Codecs)
}
