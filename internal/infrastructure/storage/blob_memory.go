package storage

import (
	"context"
	"sync"

	"StudentShowcase/internal/ports"
)

// MemoryBlobStore keeps blobs in process memory; nothing survives a restart.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ ports.BlobStore = (*MemoryBlobStore)(nil)

// NewMemoryBlobStore builds an empty store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: map[string][]byte{}}
}

// Load returns a copy of the payload stored under key.
func (m *MemoryBlobStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

// Save stores a copy of payload under key.
func (m *MemoryBlobStore) Save(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), payload...)
	return nil
}

// Close is a no-op.
func (m *MemoryBlobStore) Close() error { return nil }
