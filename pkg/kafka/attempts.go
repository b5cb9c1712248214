package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// AttemptTracker 记录每个事件的处理失败次数。
type AttemptTracker interface {
	Incr(ctx context.Context, eventID string) (int64, error)
	Reset(ctx context.Context, eventID string)
}

type redisAttempts struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisAttemptTracker 使用 Redis 计数，多个消费者实例共享。
func NewRedisAttemptTracker(rdb *redis.Client) AttemptTracker {
	return &redisAttempts{rdb: rdb, ttl: 24 * time.Hour}
}

func attemptsKey(eventID string) string {
	return fmt.Sprintf("kafka:attempts:%s", eventID)
}

func (a *redisAttempts) Incr(ctx context.Context, eventID string) (int64, error) {
	key := attemptsKey(eventID)
	n, err := a.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	_ = a.rdb.Expire(ctx, key, a.ttl).Err()
	return n, nil
}

func (a *redisAttempts) Reset(ctx context.Context, eventID string) {
	_ = a.rdb.Del(ctx, attemptsKey(eventID)).Err()
}

type memoryAttempts struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewMemoryAttemptTracker 在进程内计数，未启用 Redis 时使用。
func NewMemoryAttemptTracker() AttemptTracker {
	return &memoryAttempts{counts: make(map[string]int64)}
}

func (a *memoryAttempts) Incr(_ context.Context, eventID string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counts[eventID]++
	return a.counts[eventID], nil
}

func (a *memoryAttempts) Reset(_ context.Context, eventID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.counts, eventID)
}
