package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysOntoDefaults(t *testing.T) {
	path := writeConfig(t, `
[chunking]
size = 500
overlap = 50

[gemini]
model = "gemini-2.5-pro"
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Chunking.Size)
	assert.Equal(t, 50, cfg.Chunking.Overlap)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Chat, cfg.Chat)
	assert.Equal(t, Default().Retrieval, cfg.Retrieval)
}

func TestLoad_RejectsOverlapNotSmallerThanSize(t *testing.T) {
	path := writeConfig(t, `
[chunking]
size = 200
overlap = 200
`)

	_, err := Load(path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoad_RejectsMalformedTOML(t *testing.T) {
	path := writeConfig(t, "[chunking\nsize = 500")

	_, err := Load(path)

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults are valid", func(*Config) {}, true},
		{"zero chunk size", func(c *Config) { c.Chunking.Size = 0 }, false},
		{"negative overlap", func(c *Config) { c.Chunking.Overlap = -1 }, false},
		{"overlap equals size", func(c *Config) { c.Chunking.Overlap = c.Chunking.Size }, false},
		{"zero top_k", func(c *Config) { c.Retrieval.TopK = 0 }, false},
		{"zero history window is valid", func(c *Config) { c.Chat.HistoryWindow = 0 }, true},
		{"negative history window", func(c *Config) { c.Chat.HistoryWindow = -1 }, false},
		{"zero max tokens", func(c *Config) { c.Chat.MaxOutputTokens = 0 }, false},
		{"temperature above range", func(c *Config) { c.Chat.Temperature = 2.5 }, false},
		{"whole-document identity is valid", func(c *Config) { c.Identity.PrefixLength = 0 }, true},
		{"negative identity prefix", func(c *Config) { c.Identity.PrefixLength = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			}
		})
	}
}

func TestGeminiAPIKey_ReadsConfiguredEnvVar(t *testing.T) {
	cfg := Default()
	cfg.Gemini.APIKeyEnv = "AIDBOT_TEST_KEY"
	t.Setenv("AIDBOT_TEST_KEY", "secret")

	assert.Equal(t, "secret", cfg.GeminiAPIKey())
}
