package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"StudentShowcase/internal/config"
	"StudentShowcase/internal/ports"
)

// Open selects the persistence backend once, from configuration validity alone:
// PostgreSQL when the remote settings are usable, the local fallback otherwise.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (ports.Handles, error) {
	if !cfg.Remote.Valid() {
		log.Info("remote store not configured, using local fallback", "driver", cfg.Fallback.Driver)
		blobs, err := OpenBlobStore(ctx, cfg.Fallback)
		if err != nil {
			return ports.Handles{}, fmt.Errorf("open fallback store: %w", err)
		}
		local := NewLocalStore(blobs, DefaultDataset(), log.With("component", "storage.local"))
		return ports.Handles{Public: local, Admin: local}, nil
	}

	remote := cfg.Remote
	public, err := OpenPostgres(remote.DSN(remote.ReadUser, remote.ReadKey))
	if err != nil {
		return ports.Handles{}, err
	}
	checkConnectivity(ctx, public, log, "public")

	admin := public
	if remote.HasServiceKey() {
		admin, err = OpenPostgres(remote.DSN(remote.ServiceUser, remote.ServiceKey))
		if err != nil {
			_ = public.Close()
			return ports.Handles{}, err
		}
		checkConnectivity(ctx, admin, log, "admin")
	} else {
		log.Warn("no service key configured, admin writes use the read-scoped connection")
	}

	if remote.Migrate {
		if err := admin.Migrate(ctx); err != nil {
			_ = ports.Handles{Public: public, Admin: admin}.Close()
			return ports.Handles{}, fmt.Errorf("migrate remote store: %w", err)
		}
		log.Info("remote schema applied")
	}

	log.Info("using remote store")
	return ports.Handles{Public: public, Admin: admin, Remote: true}, nil
}

// checkConnectivity only logs: an unreachable store degrades to empty results
// per call rather than switching backends.
func checkConnectivity(ctx context.Context, store *PostgresStore, log *slog.Logger, role string) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		log.Warn("remote store unreachable", "role", role, "error", err)
	}
}

// OpenBlobStore creates the blob backend named by cfg.Driver.
func OpenBlobStore(ctx context.Context, cfg config.FallbackConfig) (ports.BlobStore, error) {
	switch strings.TrimSpace(strings.ToLower(cfg.Driver)) {
	case "", "sqlite":
		return OpenSQLiteBlobStore(cfg.Path)
	case "redis":
		return OpenRedisBlobStore(ctx, cfg.RedisURL)
	case "memory":
		return NewMemoryBlobStore(), nil
	default:
		return nil, fmt.Errorf("unsupported fallback driver %q", cfg.Driver)
	}
}
