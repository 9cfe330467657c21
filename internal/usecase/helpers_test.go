package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"StudentShowcase/internal/infrastructure/storage"
	"StudentShowcase/internal/logging"
	"StudentShowcase/internal/ports"
)

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

// newTestDeps builds repositories over an empty in-memory fallback store.
func newTestDeps(t *testing.T) Deps {
	t.Helper()
	store := storage.NewLocalStore(storage.NewMemoryBlobStore(), nil, logging.Discard())
	t.Cleanup(func() { _ = store.Close() })

	clock := &stepClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	ids := &seqIDs{}
	return Deps{
		Stores: ports.Handles{Public: store, Admin: store},
		Logger: logging.Discard(),
		Now:    clock.Now,
		NewID:  ids.Next,
	}
}

var errStoreDown = errors.New("store down")

// failingStore rejects every call.
type failingStore struct{}

func (failingStore) Insert(context.Context, string, ports.Record) error { return errStoreDown }
func (failingStore) InsertIfAbsent(context.Context, string, ports.Record, ...string) (bool, error) {
	return false, errStoreDown
}
func (failingStore) Select(context.Context, string, ports.Query) ([]ports.Record, error) {
	return nil, errStoreDown
}
func (failingStore) Update(context.Context, string, ports.Eq, ports.Record) (int64, error) {
	return 0, errStoreDown
}
func (failingStore) Delete(context.Context, string, ports.Eq) (int64, error) {
	return 0, errStoreDown
}
func (failingStore) Close() error { return nil }

func failingDeps() Deps {
	return Deps{
		Stores: ports.Handles{Public: failingStore{}, Admin: failingStore{}},
		Logger: logging.Discard(),
	}
}
