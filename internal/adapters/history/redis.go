package history

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "email-guard:sender:"

// RedisStore is a shared sender history with optional expiry, suited to
// fleets where SQL is not available.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore connects to Redis at addr. A zero ttl keeps sender
// records forever.
func NewRedisStore(addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl, logger: logger}, nil
}

func (s *RedisStore) Seen(ctx context.Context, sender string) (bool, error) {
	n, err := s.client.Exists(ctx, redisKeyPrefix+sender).Result()
	if err != nil {
		return false, fmt.Errorf("failed to query sender history: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) MarkSeen(ctx context.Context, sender string, at time.Time) error {
	key := redisKeyPrefix + sender
	pipe := s.client.Pipeline()
	pipe.HSetNX(ctx, key, "first_seen", at.Format(time.RFC3339))
	pipe.HIncrBy(ctx, key, "message_count", 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record sender: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
