// Package config loads the aidbot configuration from a TOML file and
// applies defaults for everything left unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/aidbot-ai/aidbot/internal/chunker"
	"github.com/aidbot-ai/aidbot/internal/core/domain"
	"github.com/aidbot-ai/aidbot/internal/core/services"
)

// Config is the full application configuration.
type Config struct {
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Chat      ChatConfig      `toml:"chat"`
	Index     IndexConfig     `toml:"index"`
	Gemini    GeminiConfig    `toml:"gemini"`
	Storage   StorageConfig   `toml:"storage"`
	Identity  IdentityConfig  `toml:"identity"`
}

// ChunkingConfig controls how extracted text is split.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalConfig controls context retrieval for chat turns.
type RetrievalConfig struct {
	TopK int `toml:"top_k"`
}

// ChatConfig controls conversation orchestration.
type ChatConfig struct {
	SystemPrompt    string  `toml:"system_prompt"`
	HistoryWindow   int     `toml:"history_window"`
	MaxOutputTokens int     `toml:"max_output_tokens"`
	Temperature     float64 `toml:"temperature"`
}

// IndexConfig points at the remote vector index. An empty URL selects the
// in-process index.
type IndexConfig struct {
	URL         string `toml:"url"`
	Collection  string `toml:"collection"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// GeminiConfig controls the completion engine. The API key is never stored
// in the file; APIKeyEnv names the environment variable holding it.
type GeminiConfig struct {
	Model             string `toml:"model"`
	APIKeyEnv         string `toml:"api_key_env"`
	TimeoutSecs       int    `toml:"timeout_secs"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

// StorageConfig controls local persistence.
type StorageConfig struct {
	DataDir string `toml:"data_dir"`
}

// IdentityConfig controls document identity hashing.
// PrefixLength 0 hashes the whole document text.
type IdentityConfig struct {
	PrefixLength int `toml:"prefix_length"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Chunking:  ChunkingConfig{Size: chunker.DefaultChunkSize, Overlap: chunker.DefaultChunkOverlap},
		Retrieval: RetrievalConfig{TopK: services.DefaultContextPassages},
		Chat: ChatConfig{
			SystemPrompt:    services.DefaultSystemPrompt,
			HistoryWindow:   services.DefaultHistoryWindow,
			MaxOutputTokens: services.DefaultMaxTokens,
			Temperature:     services.DefaultTemperature,
		},
		Index: IndexConfig{
			Collection:  "documents",
			TimeoutSecs: 30,
		},
		Gemini: GeminiConfig{
			Model:             "gemini-2.5-flash",
			APIKeyEnv:         "GEMINI_API_KEY",
			TimeoutSecs:       60,
			RequestsPerMinute: 60,
		},
		Identity: IdentityConfig{PrefixLength: domain.DefaultIdentityPrefix},
	}
}

// DefaultPath returns ~/.aidbot/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".aidbot", "config.toml"), nil
}

// Load reads the configuration file at path, overlaying it onto the
// defaults. A missing file yields the defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the configuration from the default path.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Validate rejects configurations that would misbehave at runtime rather
// than letting them fail mid-pipeline.
func (c *Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunking.size must be positive", domain.ErrInvalidInput)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("%w: chunking.overlap must not be negative", domain.ErrInvalidInput)
	}
	if c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("%w: chunking.overlap must be smaller than chunking.size", domain.ErrInvalidInput)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval.top_k must be positive", domain.ErrInvalidInput)
	}
	if c.Chat.HistoryWindow < 0 {
		return fmt.Errorf("%w: chat.history_window must not be negative", domain.ErrInvalidInput)
	}
	if c.Chat.MaxOutputTokens <= 0 {
		return fmt.Errorf("%w: chat.max_output_tokens must be positive", domain.ErrInvalidInput)
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		return fmt.Errorf("%w: chat.temperature must be between 0 and 2", domain.ErrInvalidInput)
	}
	if c.Identity.PrefixLength < 0 {
		return fmt.Errorf("%w: identity.prefix_length must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

// GeminiAPIKey reads the API key from the configured environment variable.
func (c *Config) GeminiAPIKey() string {
	return os.Getenv(c.Gemini.APIKeyEnv)
}
