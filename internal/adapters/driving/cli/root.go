// Package cli implements the aidbot command-line interface.
package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidbot-ai/aidbot/internal/adapters/driven/index/chroma"
	"github.com/aidbot-ai/aidbot/internal/adapters/driven/index/memory"
	"github.com/aidbot-ai/aidbot/internal/adapters/driven/llm/gemini"
	"github.com/aidbot-ai/aidbot/internal/adapters/driven/storage/sqlite"
	"github.com/aidbot-ai/aidbot/internal/chunker"
	"github.com/aidbot-ai/aidbot/internal/config"
	"github.com/aidbot-ai/aidbot/internal/core/ports/driven"
	"github.com/aidbot-ai/aidbot/internal/core/ports/driving"
	"github.com/aidbot-ai/aidbot/internal/core/services"
	"github.com/aidbot-ai/aidbot/internal/extractors"
	"github.com/aidbot-ai/aidbot/internal/extractors/docx"
	"github.com/aidbot-ai/aidbot/internal/extractors/pdf"
	"github.com/aidbot-ai/aidbot/internal/extractors/plaintext"
	"github.com/aidbot-ai/aidbot/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by the commands. Tests inject doubles here; production
// wiring happens in initServices.
var (
	cfg               *config.Config
	extractorRegistry driven.ExtractorRegistry
	documentService   driving.DocumentService
	chatService       driving.ChatService
	sessionStore      driven.SessionStore
)

// Persistent flags.
var (
	flagVerbose bool
	flagConfig  string
	flagTenant  string
)

var rootCmd = &cobra.Command{
	Use:   "aidbot",
	Short: "Chat with your documents",
	Long: `Aidbot indexes your documents and answers questions about them.

Upload pdf, docx or txt files, then ask questions in plain language;
answers are grounded in the most relevant passages of what you uploaded.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default ~/.aidbot/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&flagTenant, "tenant", "t", "default", "tenant whose documents to operate on")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices builds the production service graph. It is a no-op when a
// document service is already present, which lets tests wire their own.
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if documentService != nil {
		return nil
	}

	var err error
	if flagConfig != "" {
		cfg, err = config.Load(flagConfig)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	extractorRegistry = buildExtractors()

	ch, err := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return err
	}

	index := buildIndex()
	documentService = services.NewDocumentService(extractorRegistry, ch, index, cfg.Identity.PrefixLength)

	sessionStore, err = sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}

	apiKey := cfg.GeminiAPIKey()
	if apiKey == "" {
		// Document commands work without an engine; chat commands check.
		return nil
	}

	engine, err := gemini.NewEngine(gemini.Config{
		APIKey:            apiKey,
		Model:             cfg.Gemini.Model,
		Timeout:           time.Duration(cfg.Gemini.TimeoutSecs) * time.Second,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
	})
	if err != nil {
		return err
	}

	assembler := services.NewContextAssembler(index, cfg.Retrieval.TopK)
	chatService = services.NewChatService(engine, assembler, sessionStore,
		services.WithSystemPrompt(cfg.Chat.SystemPrompt),
		services.WithHistoryWindow(cfg.Chat.HistoryWindow),
		services.WithGeneration(cfg.Chat.MaxOutputTokens, cfg.Chat.Temperature),
	)
	return nil
}

func buildExtractors() driven.ExtractorRegistry {
	registry := extractors.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(docx.New())
	registry.Register(pdf.New())
	return registry
}

// buildIndex connects to the configured Chroma server, or falls back to
// the in-process index when no URL is configured.
func buildIndex() driven.VectorIndex {
	if cfg.Index.URL == "" {
		logger.Debug("No index URL configured, using in-process index")
		return memory.New()
	}
	return chroma.New(chroma.Config{
		BaseURL:    cfg.Index.URL,
		Collection: cfg.Index.Collection,
		Timeout:    time.Duration(cfg.Index.TimeoutSecs) * time.Second,
	})
}

// displayName shortens a path for human-facing output.
func displayName(path string) string {
	return filepath.Base(path)
}
