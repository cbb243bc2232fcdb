// Package redis provides the key-value store backend on Redis, for
// deployments where list state should survive app-instance restarts
// without a local database file.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/pantrychef/v2/internal/infrastructure/config"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// keyPrefix namespaces all core keys in a shared Redis instance.
const keyPrefix = "pantrychef:"

// KeyValueStore implements the key-value store on Redis
type KeyValueStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewKeyValueStore connects to Redis and verifies the connection
func NewKeyValueStore(ctx context.Context, cfg *config.RedisConfig, addr string, logger *zap.Logger) (*KeyValueStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.Database,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logger.Info("Connected to Redis storage", zap.String("addr", addr))
	return &KeyValueStore{client: client, logger: logger.Named("redis-store")}, nil
}

var _ outbound.KeyValueStore = (*KeyValueStore)(nil)

// Get retrieves a value; absent keys yield (nil, nil)
func (s *KeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read key %q: %w", key, err)
	}
	return data, nil
}

// Set stores a value under key with no expiry
func (s *KeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}
	return nil
}

// Delete removes a key
func (s *KeyValueStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool
func (s *KeyValueStore) Close() error {
	return s.client.Close()
}
