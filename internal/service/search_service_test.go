package service

import (
	"context"
	"testing"

	"brainbytes-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	q       string
	subject string
	size    int
}

func (f *fakeSearcher) Search(_ context.Context, q, sub string, size int) ([]model.SearchHit, error) {
	f.q, f.subject, f.size = q, sub, size
	return []model.SearchHit{{MessageID: "m-1", Text: q}}, nil
}

func TestSearchService(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		_, err := NewSearchService(nil).Search(ctx, "atoms", "", 0)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("blank query", func(t *testing.T) {
		_, err := NewSearchService(&fakeSearcher{}).Search(ctx, " ?! ", "", 0)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown subject", func(t *testing.T) {
		_, err := NewSearchService(&fakeSearcher{}).Search(ctx, "atoms", "Art", 0)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("normalizes inputs", func(t *testing.T) {
		f := &fakeSearcher{}
		hits, err := NewSearchService(f).Search(ctx, "  What is   2+2? ", "math", 500)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "what is 2+2", f.q)
		assert.Equal(t, "Math", f.subject)
		assert.Equal(t, maxSearchSize, f.size)
	})

	t.Run("default size", func(t *testing.T) {
		f := &fakeSearcher{}
		_, err := NewSearchService(f).Search(ctx, "atoms", "", 0)
		require.NoError(t, err)
		assert.Equal(t, defaultSearchSize, f.size)
		assert.Empty(t, f.subject)
	})
}
