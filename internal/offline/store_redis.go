package offline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisOrderKey = "offline:queue:order"
	redisOpsKey   = "offline:queue:ops"
)

// RedisStore persists the queue in Redis so deferred writes survive a
// process restart. A list keeps enqueue order, a hash keeps the bodies.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Enqueue(ctx context.Context, op *Operation) error {
	payload, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to marshal operation: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, redisOpsKey, op.ID.String(), payload)
	pipe.RPush(ctx, redisOrderKey, op.ID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to enqueue operation: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]*Operation, error) {
	ids, err := s.client.LRange(ctx, redisOrderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read queue order: %w", err)
	}
	ops := make([]*Operation, 0, len(ids))
	for _, id := range ids {
		raw, err := s.client.HGet(ctx, redisOpsKey, id).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read operation %s: %w", id, err)
		}
		var op Operation
		if err := json.Unmarshal([]byte(raw), &op); err != nil {
			return nil, fmt.Errorf("failed to unmarshal operation %s: %w", id, err)
		}
		ops = append(ops, &op)
	}
	return ops, nil
}

func (s *RedisStore) Remove(ctx context.Context, id uuid.UUID) error {
	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, redisOrderKey, 1, id.String())
	pipe.HDel(ctx, redisOpsKey, id.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove operation: %w", err)
	}
	return nil
}

func (s *RedisStore) SetRetryCount(ctx context.Context, id uuid.UUID, count int) error {
	raw, err := s.client.HGet(ctx, redisOpsKey, id.String()).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read operation: %w", err)
	}

	var op Operation
	if err := json.Unmarshal([]byte(raw), &op); err != nil {
		return fmt.Errorf("failed to unmarshal operation: %w", err)
	}
	op.RetryCount = count

	payload, err := json.Marshal(&op)
	if err != nil {
		return fmt.Errorf("failed to marshal operation: %w", err)
	}
	if err := s.client.HSet(ctx, redisOpsKey, id.String(), payload).Err(); err != nil {
		return fmt.Errorf("failed to update retry count: %w", err)
	}
	return nil
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.client.LLen(ctx, redisOrderKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue length: %w", err)
	}
	return int(n), nil
}
