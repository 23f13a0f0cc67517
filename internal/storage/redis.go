package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/mdhdoan/VIVI/pkg"
)

const DefaultRedisKey = "vivi:memory"

// RedisMemoryStore keeps the memory log as one JSON array under a single key.
// The key never expires; the log is the only durable copy.
type RedisMemoryStore struct {
	client *redis.Client
	key    string
}

// NewRedisMemoryStore connects to redisURL and verifies the connection
func NewRedisMemoryStore(ctx context.Context, redisURL, key string) (*RedisMemoryStore, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required for the redis memory backend")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisMemoryStore(client, key), nil
}

func newRedisMemoryStore(client *redis.Client, key string) *RedisMemoryStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisMemoryStore{client: client, key: key}
}

func (r *RedisMemoryStore) Load(ctx context.Context) ([]pkg.MemoryTurn, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: key %s", ErrMemoryNotFound, r.key)
		}
		return nil, fmt.Errorf("failed to get memory: %w", err)
	}

	var turns []pkg.MemoryTurn
	if err := sonic.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("%w: key %s: %v", ErrMemoryCorrupt, r.key, err)
	}
	if turns == nil {
		turns = []pkg.MemoryTurn{}
	}

	return turns, nil
}

func (r *RedisMemoryStore) Save(ctx context.Context, turns []pkg.MemoryTurn) error {
	if turns == nil {
		turns = []pkg.MemoryTurn{}
	}

	data, err := sonic.ConfigDefault.MarshalIndent(turns, "", memoryIndent)
	if err != nil {
		return fmt.Errorf("failed to marshal memory: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set memory: %w", err)
	}

	return nil
}

// Close closes the Redis connection
func (r *RedisMemoryStore) Close() error {
	return r.client.Close()
}
