package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// redisAPI is the part of the go-redis client the store uses.
type redisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisStore keeps the snapshot under a single Redis key with no expiry.
type RedisStore struct {
	client redisAPI
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// OpenRedis dials addr and pings it before returning.
func OpenRedis(ctx context.Context, addr, key string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisStore(client, key), nil
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persist.RedisStore.Load: %w", err)
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("persist.RedisStore.Save: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
