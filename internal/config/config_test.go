package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: \"8080\"\n")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "mysql", cfg.Database.Driver)
		assert.Equal(t, 15000, cfg.LLM.TimeoutMS)
		assert.Equal(t, "openai", cfg.LLM.Provider)
		assert.Equal(t, 5, cfg.Stats.PlaceholderStreak)
	})

	t.Run("environment overrides file values", func(t *testing.T) {
		path := writeConfig(t, "llm:\n  model: \"from-file\"\n")
		t.Setenv("BRAINBYTES_LLM_MODEL", "from-env")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.LLM.Model)
	})

	t.Run("falls back to HUGGINGFACE_TOKEN", func(t *testing.T) {
		path := writeConfig(t, "llm:\n  provider: openai\n")
		t.Setenv("HUGGINGFACE_TOKEN", "hf_test")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "hf_test", cfg.LLM.APIKey)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
