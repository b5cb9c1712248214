package repository

import (
	"context"
	"testing"
	"time"

	"brainbytes-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.FindFirst(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	alice := &model.UserProfile{Name: "Alice", Email: "alice@example.com", PreferredSubjects: []string{"Math"}, JoinDate: time.Now().UTC()}
	bob := &model.UserProfile{Name: "Bob", Email: "bob@example.com", JoinDate: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, bob))
	assert.NotZero(t, alice.ID)

	first, err := repo.FindFirst(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", first.Name)
	assert.Equal(t, []string{"Math"}, first.PreferredSubjects)

	byEmail, err := repo.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, byEmail.ID)

	byEmail.Name = "Robert"
	require.NoError(t, repo.Update(ctx, byEmail))
	reloaded, err := repo.FindByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Robert", reloaded.Name)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.Delete(ctx, bob.ID))
	assert.ErrorIs(t, repo.Delete(ctx, bob.ID), ErrNotFound)
	_, err = repo.FindByID(ctx, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_DuplicateEmailRejected(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))
	require.NoError(t, repo.Create(ctx, &model.UserProfile{Name: "A", Email: "same@example.com"}))
	assert.Error(t, repo.Create(ctx, &model.UserProfile{Name: "B", Email: "same@example.com"}))
}

func TestMaterialRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMaterialRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &model.LearningMaterial{Subject: "Math", Topic: "Fractions", Content: "1/2"}))
	require.NoError(t, repo.Create(ctx, &model.LearningMaterial{Subject: "History", Topic: "Rome", Content: "SPQR"}))

	all, err := repo.FindAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	math, err := repo.FindAll(ctx, "math")
	require.NoError(t, err)
	require.Len(t, math, 1)
	assert.Equal(t, "Fractions", math[0].Topic)

	m, err := repo.FindByID(ctx, math[0].ID)
	require.NoError(t, err)
	m.AttachmentObject = "materials/1/notes.pdf"
	require.NoError(t, repo.Update(ctx, m))

	reloaded, err := repo.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "materials/1/notes.pdf", reloaded.AttachmentObject)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoopStatsCache(t *testing.T) {
	c := NewNoopStatsCache()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, &model.LearningStats{TotalQuestions: 3}, time.Minute))
	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.NoError(t, c.Invalidate(ctx))
}
