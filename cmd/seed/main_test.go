package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"StudentShowcase/internal/config"
	"StudentShowcase/internal/logging"
)

func TestRunSkipsWithoutRemote(t *testing.T) {
	t.Parallel()

	cfg := config.Config{Fallback: config.FallbackConfig{Driver: "memory"}}
	require.NoError(t, run(cfg, logging.Discard()))
}
