package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brainbytes-go/internal/model"

	"github.com/go-redis/redis/v8"
)

const statsCacheKey = "brainbytes:stats:learning"

// StatsCache 缓存 /api/users/stats 的计算结果，消息写入或删除后失效。
type StatsCache interface {
	// Get 返回缓存的统计数据，未命中时第二个返回值为 false。
	Get(ctx context.Context) (*model.LearningStats, bool, error)
	Set(ctx context.Context, stats *model.LearningStats, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type redisStatsCache struct {
	redisClient *redis.Client
}

// NewStatsCache 创建一个基于 Redis 的 StatsCache。
func NewStatsCache(redisClient *redis.Client) StatsCache {
	return &redisStatsCache{redisClient: redisClient}
}

func (c *redisStatsCache) Get(ctx context.Context) (*model.LearningStats, bool, error) {
	jsonData, err := c.redisClient.Get(ctx, statsCacheKey).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached stats: %w", err)
	}
	var stats model.LearningStats
	if err := json.Unmarshal([]byte(jsonData), &stats); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached stats: %w", err)
	}
	return &stats, true, nil
}

func (c *redisStatsCache) Set(ctx context.Context, stats *model.LearningStats, ttl time.Duration) error {
	jsonData, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	if err := c.redisClient.Set(ctx, statsCacheKey, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cached stats: %w", err)
	}
	return nil
}

func (c *redisStatsCache) Invalidate(ctx context.Context) error {
	if err := c.redisClient.Del(ctx, statsCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached stats: %w", err)
	}
	return nil
}

// noopStatsCache 在未启用 Redis 时使用，始终未命中。
type noopStatsCache struct{}

// NewNoopStatsCache 返回一个不做任何缓存的 StatsCache。
func NewNoopStatsCache() StatsCache { return noopStatsCache{} }

func (noopStatsCache) Get(context.Context) (*model.LearningStats, bool, error) {
	return nil, false, nil
}
func (noopStatsCache) Set(context.Context, *model.LearningStats, time.Duration) error { return nil }
func (noopStatsCache) Invalidate(context.Context) error                               { return nil }
