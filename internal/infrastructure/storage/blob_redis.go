package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"StudentShowcase/internal/ports"
)

const redisBlobPrefix = "showcase:blob:"

// RedisBlobStore keeps fallback blobs as plain Redis strings without expiry.
type RedisBlobStore struct {
	client *redis.Client
}

var _ ports.BlobStore = (*RedisBlobStore)(nil)

// OpenRedisBlobStore connects to redisURL and verifies the connection.
func OpenRedisBlobStore(ctx context.Context, redisURL string) (*RedisBlobStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisBlobStore{client: client}, nil
}

func blobKey(key string) string {
	return redisBlobPrefix + key
}

// Load returns the payload stored under key.
func (s *RedisBlobStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := s.client.Get(ctx, blobKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get blob: %w", err)
	}
	return payload, true, nil
}

// Save overwrites the payload under key.
func (s *RedisBlobStore) Save(ctx context.Context, key string, payload []byte) error {
	if err := s.client.Set(ctx, blobKey(key), payload, 0).Err(); err != nil {
		return fmt.Errorf("set blob: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisBlobStore) Close() error {
	return s.client.Close()
}
