package repository

import (
	"context"
	"encoding/json"
	"time"

	"quiz_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

const progressKeyPrefix = "quiz:attempt:progress:"

// ProgressCache keeps autosave snapshots in redis with a TTL instead of on the
// attempt row. Lifecycle checks stay with the attempt record.
type ProgressCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewProgressCache(rdb *redis.Client, ttl time.Duration) *ProgressCache {
	return &ProgressCache{Redis: rdb, TTL: ttl}
}

func (c *ProgressCache) SaveProgress(ctx context.Context, attemptID string, progress model.AttemptProgress) (bool, error) {
	data, err := json.Marshal(progress)
	if err != nil {
		return false, err
	}
	if err := c.Redis.Set(ctx, progressKeyPrefix+attemptID, data, c.TTL).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (c *ProgressCache) LoadProgress(ctx context.Context, attemptID string) (*model.AttemptProgress, error) {
	val, err := c.Redis.Get(ctx, progressKeyPrefix+attemptID).Bytes()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var progress model.AttemptProgress
	if err := json.Unmarshal(val, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

func (c *ProgressCache) ClearProgress(ctx context.Context, attemptID string) error {
	return c.Redis.Del(ctx, progressKeyPrefix+attemptID).Err()
}
