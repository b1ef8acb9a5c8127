package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "po:cart:"

type redisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage stores snapshots under po:cart:<session>. A positive ttl
// expires snapshots together with their session token.
func NewRedisStorage(client *redis.Client, ttl time.Duration) Storage {
	return &redisStorage{client: client, ttl: ttl}
}

func (r *redisStorage) Load(ctx context.Context, sessionID string) ([]byte, error) {
	payload, err := r.client.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	return payload, nil
}

func (r *redisStorage) Save(ctx context.Context, sessionID string, payload []byte) error {
	if err := r.client.Set(ctx, redisKeyPrefix+sessionID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}
