package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"brainbytes-go/internal/model"
	"brainbytes-go/pkg/events"
	"brainbytes-go/pkg/llm"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.Message{}, &model.UserProfile{}, &model.LearningMaterial{}))
	return db
}

// stubGenerator 记录调用并返回固定结果。
type stubGenerator struct {
	mu       sync.Mutex
	result   llm.Result
	subjects []string
}

func (g *stubGenerator) Generate(_ context.Context, _ string, sub string) llm.Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subjects = append(g.subjects, sub)
	return g.result
}

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subjects)
}

// blockingGateway 永不返回，直到 ctx 结束。
type blockingGateway struct{}

func (blockingGateway) Generate(ctx context.Context, _, _ string) (llm.Result, error) {
	<-ctx.Done()
	return llm.Result{}, ctx.Err()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type memoryStatsCache struct {
	stats       *model.LearningStats
	sets        int
	invalidates int
}

func (c *memoryStatsCache) Get(context.Context) (*model.LearningStats, bool, error) {
	if c.stats == nil {
		return nil, false, nil
	}
	return c.stats, true, nil
}

func (c *memoryStatsCache) Set(_ context.Context, s *model.LearningStats, _ time.Duration) error {
	c.sets++
	c.stats = s
	return nil
}

func (c *memoryStatsCache) Invalidate(context.Context) error {
	c.invalidates++
	c.stats = nil
	return nil
}

// failingMessageRepo 在写入时失败。
type failingMessageRepo struct{}

var errStoreDown = errors.New("store down")

func (failingMessageRepo) Create(context.Context, *model.Message) error { return errStoreDown }
func (failingMessageRepo) FindAll(context.Context) ([]model.Message, error) {
	return nil, errStoreDown
}
func (failingMessageRepo) DeleteBySubject(context.Context, string) (int64, error) {
	return 0, errStoreDown
}
func (failingMessageRepo) CountUserMessagesBySubject(context.Context) (map[string]int64, error) {
	return nil, errStoreDown
}
func (failingMessageRepo) LatestUserMessage(context.Context) (*model.Message, error) {
	return nil, errStoreDown
}
