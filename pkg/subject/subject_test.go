package subject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, Math, Normalize("Math"))
	assert.Equal(t, Math, Normalize("math"))
	assert.Equal(t, Technology, Normalize(" technology "))
	assert.Equal(t, General, Normalize(""))
	assert.Equal(t, General, Normalize("Unknown"))
	assert.Equal(t, General, Normalize("General"))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("History"))
	assert.False(t, IsValid("history"))
	assert.False(t, IsValid(""))
}

func TestIsGeneral(t *testing.T) {
	assert.True(t, IsGeneral("General"))
	assert.True(t, IsGeneral("general"))
	assert.False(t, IsGeneral("Math"))
}

func TestAllOrder(t *testing.T) {
	assert.Equal(t, []string{"Math", "Science", "History", "Language", "Technology", "General"}, Values())
}
