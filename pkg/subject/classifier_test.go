package subject

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Run("each subject matches its own keywords", func(t *testing.T) {
		for _, s := range []Subject{Math, Science, History, Language, Technology} {
			for _, kw := range Keywords(s) {
				if kw == "software" {
					continue // contains "war"
				}
				assert.Equal(t, s, Classify("tell me about "+kw), "keyword %q", kw)
			}
		}
	})

	t.Run("empty text is General", func(t *testing.T) {
		assert.Equal(t, General, Classify(""))
	})

	t.Run("no keyword is General", func(t *testing.T) {
		assert.Equal(t, General, Classify("what should I eat for lunch?"))
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, Science, Classify("What is an ATOM?"))
		assert.Equal(t, History, Classify("The Ancient Romans"))
	})

	t.Run("substring containment rather than whole words", func(t *testing.T) {
		// "software" contains "war", so History wins over Technology.
		assert.Equal(t, History, Classify("software"))
		assert.Equal(t, Math, Classify("numbers are fun"))
		assert.Equal(t, Science, Classify("atomic structure"))
	})

	t.Run("priority order resolves multiple matches", func(t *testing.T) {
		assert.Equal(t, Math, Classify("the physics equation for energy"))
		assert.Equal(t, Science, Classify("chemistry in the ancient world"))
		assert.Equal(t, History, Classify("the language of the civil war"))
		assert.Equal(t, Language, Classify("a word about the internet"))
	})

	t.Run("very long text", func(t *testing.T) {
		text := strings.Repeat("lorem ipsum ", 10000) + "internet"
		assert.Equal(t, Technology, Classify(text))
	})

	t.Run("tell me about atoms", func(t *testing.T) {
		assert.Equal(t, Science, Classify("tell me about atoms"))
	})
}

func TestKeywordsReturnsCopy(t *testing.T) {
	kws := Keywords(Math)
	kws[0] = "changed"
	assert.Equal(t, "math", Keywords(Math)[0])
	assert.Nil(t, Keywords(General))
}
