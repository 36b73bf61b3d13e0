package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Veraticus/klaro/internal/common"
	"github.com/Veraticus/klaro/internal/service"
)

// DefaultRedisKey is the key the snapshot is stored under when none is configured.
const DefaultRedisKey = "klaro-state"

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	Key      string
	DB       int
}

// RedisStore is a service.SnapshotStore that keeps the snapshot in one Redis key.
// Transient failures are retried with exponential backoff.
type RedisStore struct {
	client *redis.Client
	key    string
	retry  service.RetryOptions
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(opts.Addr, "addr"); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	return NewRedisStoreFromClient(client, opts.Key), nil
}

// NewRedisStoreFromClient wraps an existing client. The store owns the client
// and closes it on Close.
func NewRedisStoreFromClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{
		client: client,
		key:    key,
		retry:  service.DefaultRetryOptions(),
	}
}

// Load returns the stored snapshot, or common.ErrNotFound if the key is missing.
func (r *RedisStore) Load(ctx context.Context) ([]byte, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var data []byte
	err := common.WithRetry(ctx, func() error {
		b, err := r.client.Get(ctx, r.key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("redis key %q: %w", r.key, common.ErrNotFound)
		}
		if err != nil {
			return err
		}
		data = b
		return nil
	}, r.retry)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return data, nil
}

// Save replaces the stored snapshot.
func (r *RedisStore) Save(ctx context.Context, data []byte) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSnapshot(data); err != nil {
		return err
	}

	err := common.WithRetry(ctx, func() error {
		return r.client.Set(ctx, r.key, data, 0).Err()
	}, r.retry)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
