package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"StudentShowcase/internal/config"
	"StudentShowcase/internal/infrastructure/httpapi"
	"StudentShowcase/internal/infrastructure/storage"
	"StudentShowcase/internal/logging"
	"StudentShowcase/internal/ports"
	"StudentShowcase/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and the HTTP server lifecycle.
type Application struct {
	cfg    config.Config
	stores ports.Handles
	server *http.Server
	logger *slog.Logger
}

// New opens storage and builds the HTTP surface.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	stores, err := storage.Open(ctx, cfg, baseLogger.With("component", "storage"))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	deps := usecase.Deps{Stores: stores, Logger: baseLogger}
	handler := httpapi.NewHandler(httpapi.Deps{
		Stories:  usecase.NewStoryRepository(deps),
		Comments: usecase.NewCommentRepository(deps),
		Views:    usecase.NewAnalytics(deps),
		Sessions: newSessionStore(cfg.Admin.SessionKey, baseLogger),
		Config:   cfg,
		Logger:   baseLogger,
	})

	if cfg.Admin.Password == "" {
		baseLogger.Warn("ADMIN_PASSWORD is not set, admin routes will reject every request")
	}

	return &Application{
		cfg:    cfg,
		stores: stores,
		logger: baseLogger,
		server: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           httpapi.NewRouter(handler),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler exposes the router, mainly for tests.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		if err := a.stores.Close(); err != nil {
			a.logger.Warn("close storage", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("http server listening", "addr", a.server.Addr, "remote", a.stores.Remote)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down http server")
		return a.server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newSessionStore signs cookies with key; without one it generates an
// ephemeral key, so sessions do not survive a restart.
func newSessionStore(key string, log *slog.Logger) *sessions.CookieStore {
	secret := []byte(key)
	if len(secret) == 0 {
		log.Warn("SHOWCASE_SESSION_KEY is not set, using an ephemeral session key")
		secret = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(secret)
	store.MaxAge(httpapi.AdminSessionMaxAge)
	return store
}
