package subject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartition(t *testing.T) {
	t.Run("explicit subject beats filter", func(t *testing.T) {
		assert.Equal(t, "Science", Partition("solve this equation", "Science", "Math"))
	})

	t.Run("filter beats classifier", func(t *testing.T) {
		assert.Equal(t, "History", Partition("solve this equation", "", "History"))
	})

	t.Run("classifier used when nothing else is set", func(t *testing.T) {
		assert.Equal(t, "Science", Partition("tell me about atoms", "", ""))
		assert.Equal(t, "General", Partition("hello there", "", ""))
	})

	t.Run("explicit subject is used verbatim", func(t *testing.T) {
		assert.Equal(t, "math", Partition("anything", "math", ""))
	})

	t.Run("blank explicit subject falls through", func(t *testing.T) {
		assert.Equal(t, "Language", Partition("fix my grammar", "   ", ""))
	})
}
