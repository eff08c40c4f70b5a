package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Redis stores JSON-encoded entries under prefix+namespace+key and lets Redis
// expire them natively. Several Redis stores may share one client.
type Redis[V any] struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a store in the given key namespace. The client is owned by the caller.
func NewRedis[V any](client *redis.Client, prefix, namespace string) *Redis[V] {
	return &Redis[V]{client: client, prefix: prefix + namespace + ":"}
}

func (r *Redis[V]) Load(ctx context.Context, key string) (*Entry[V], error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry[V]
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, nil
}

func (r *Redis[V]) Save(ctx context.Context, key string, entry *Entry[V], ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Sweep is a no-op: Redis expires keys itself.
func (r *Redis[V]) Sweep(context.Context, time.Time, time.Duration) (int, error) {
	return 0, nil
}

// Close is a no-op; the shared client is closed by its owner.
func (r *Redis[V]) Close() error { return nil }
