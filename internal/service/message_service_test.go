package service

import (
	"context"
	"testing"
	"time"

	"brainbytes-go/internal/model"
	"brainbytes-go/internal/repository"
	"brainbytes-go/pkg/events"
	"brainbytes-go/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageFixture(t *testing.T, gen ReplyGenerator) (MessageService, repository.MessageRepository, *recordingPublisher, *memoryStatsCache) {
	t.Helper()
	repo := repository.NewMessageRepository(newTestDB(t))
	pub := &recordingPublisher{}
	cache := &memoryStatsCache{}
	return NewMessageService(repo, gen, pub, cache), repo, pub, cache
}

func TestMessageService_Post(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit subject is shared by both records", func(t *testing.T) {
		gen := &stubGenerator{result: llm.Result{Category: llm.CategoryOpenEnded, Response: "4"}}
		svc, repo, pub, cache := newMessageFixture(t, gen)

		res, err := svc.Post(ctx, "2+2", "Math", "")
		require.NoError(t, err)
		assert.Equal(t, "Math", res.UserMessage.Subject)
		assert.Equal(t, "Math", res.AIMessage.Subject)
		assert.Equal(t, "open-ended", res.Category)
		assert.True(t, res.UserMessage.IsUser)
		assert.False(t, res.AIMessage.IsUser)
		assert.Equal(t, "4", res.AIMessage.Text)
		assert.Equal(t, []string{"Math"}, gen.subjects)

		stored, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, res.UserMessage.ID, stored[0].ID)
		assert.Equal(t, res.AIMessage.ID, stored[1].ID)

		assert.Equal(t, []string{events.TypeMessageCreated, events.TypeMessageCreated}, pub.types())
		assert.Equal(t, 1, cache.invalidates)
	})

	t.Run("explicit subject beats the classifier", func(t *testing.T) {
		gen := &stubGenerator{result: llm.Result{Category: "open-ended", Response: "ok"}}
		svc, _, _, _ := newMessageFixture(t, gen)

		res, err := svc.Post(ctx, "what caused the war", "Science", "Math")
		require.NoError(t, err)
		assert.Equal(t, "Science", res.UserMessage.Subject)
		assert.Equal(t, "Science", res.AIMessage.Subject)
	})

	t.Run("filter is used when no explicit subject", func(t *testing.T) {
		gen := &stubGenerator{result: llm.Result{Category: "open-ended", Response: "ok"}}
		svc, _, _, _ := newMessageFixture(t, gen)

		res, err := svc.Post(ctx, "solve this equation", "", "History")
		require.NoError(t, err)
		assert.Equal(t, "History", res.UserMessage.Subject)
	})

	t.Run("classifier is the fallback", func(t *testing.T) {
		gen := &stubGenerator{result: llm.Result{Category: "open-ended", Response: "ok"}}
		svc, _, _, _ := newMessageFixture(t, gen)

		res, err := svc.Post(ctx, "tell me about atoms", "", "")
		require.NoError(t, err)
		assert.Equal(t, "Science", res.UserMessage.Subject)
		assert.Equal(t, "Science", res.AIMessage.Subject)
	})

	t.Run("lowercase explicit subject is stored verbatim and read normalized", func(t *testing.T) {
		gen := &stubGenerator{result: llm.Result{Category: "open-ended", Response: "ok"}}
		svc, repo, _, _ := newMessageFixture(t, gen)

		res, err := svc.Post(ctx, "hello", "math", "")
		require.NoError(t, err)
		assert.Equal(t, "Math", res.UserMessage.Subject)

		raw, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, "math", raw[0].Subject)
	})

	t.Run("blank text is rejected before anything is stored", func(t *testing.T) {
		gen := &stubGenerator{}
		svc, repo, _, _ := newMessageFixture(t, gen)

		_, err := svc.Post(ctx, "   ", "Math", "")
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Zero(t, gen.calls())

		stored, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("gateway that never answers yields the fallback reply", func(t *testing.T) {
		guard := llm.NewGuard(blockingGateway{}, 50*time.Millisecond)
		svc, repo, _, _ := newMessageFixture(t, guard)

		start := time.Now()
		res, err := svc.Post(ctx, "what is algebra", "", "")
		require.NoError(t, err)
		assert.Less(t, time.Since(start), 2*time.Second)
		assert.Equal(t, llm.FallbackResponse, res.AIMessage.Text)
		assert.Equal(t, llm.CategoryError, res.Category)
		assert.Equal(t, "Math", res.AIMessage.Subject)

		stored, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, "what is algebra", stored[0].Text)
	})

	t.Run("persistence failure surfaces and skips the gateway", func(t *testing.T) {
		gen := &stubGenerator{}
		svc := NewMessageService(failingMessageRepo{}, gen, &recordingPublisher{}, &memoryStatsCache{})

		_, err := svc.Post(ctx, "hi", "", "")
		require.ErrorIs(t, err, errStoreDown)
		assert.Zero(t, gen.calls())
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		gen := &stubGenerator{result: llm.Result{Category: "open-ended", Response: "ok"}}
		repo := repository.NewMessageRepository(newTestDB(t))
		pub := &recordingPublisher{err: assert.AnError}
		svc := NewMessageService(repo, gen, pub, &memoryStatsCache{})

		_, err := svc.Post(ctx, "hi", "", "")
		assert.NoError(t, err)
	})
}

func TestMessageService_ListNormalizes(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newMessageFixture(t, &stubGenerator{})

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, sub := range []string{"Unknown", "science", ""} {
		require.NoError(t, repo.Create(ctx, &model.Message{ID: uuid.NewString(), Text: sub, IsUser: true, Subject: sub, CreatedAt: base.Add(time.Duration(i) * time.Second)}))
	}

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "General", got[0].Subject)
	assert.Equal(t, "Science", got[1].Subject)
	assert.Equal(t, "General", got[2].Subject)
}

func TestMessageService_DeleteBySubject(t *testing.T) {
	ctx := context.Background()
	svc, repo, pub, cache := newMessageFixture(t, &stubGenerator{})

	now := time.Now().UTC()
	for _, sub := range []string{"General", "Unknown", "", "Math"} {
		require.NoError(t, repo.Create(ctx, &model.Message{ID: uuid.NewString(), Text: "t", IsUser: true, Subject: sub, CreatedAt: now}))
	}

	n, err := svc.DeleteBySubject(ctx, "General")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	left, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "Math", left[0].Subject)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeMessagesDeleted, pub.events[0].Type)
	assert.EqualValues(t, 3, pub.events[0].Deleted)
	assert.Equal(t, 1, cache.invalidates)

	_, err = svc.DeleteBySubject(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMessageService_DeleteUnknownSubject(t *testing.T) {
	ctx := context.Background()
	svc, repo, pub, cache := newMessageFixture(t, &stubGenerator{})

	now := time.Now().UTC()
	for _, sub := range []string{"General", "Unknown"} {
		require.NoError(t, repo.Create(ctx, &model.Message{ID: uuid.NewString(), Text: "t", IsUser: true, Subject: sub, CreatedAt: now}))
	}

	t.Run("nothing matched publishes nothing", func(t *testing.T) {
		n, err := svc.DeleteBySubject(ctx, "Mathh")
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, pub.types())
		assert.Zero(t, cache.invalidates)
	})

	t.Run("event carries the requested name", func(t *testing.T) {
		n, err := svc.DeleteBySubject(ctx, "unknown")
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		require.Len(t, pub.events, 1)
		assert.Equal(t, "unknown", pub.events[0].Subject)

		left, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, left, 1)
		assert.Equal(t, "General", left[0].Subject)
	})
}
