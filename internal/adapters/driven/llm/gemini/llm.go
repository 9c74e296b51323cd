// Package gemini provides a CompletionEngine adapter using the Google
// Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
	"github.com/aidbot-ai/aidbot/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.CompletionEngine = (*Engine)(nil)

// Default configuration values.
const (
	DefaultBaseURL           = "https://generativelanguage.googleapis.com"
	DefaultModel             = "gemini-2.5-flash"
	DefaultTimeout           = 120 * time.Second
	DefaultRequestsPerMinute = 60
)

// Config holds configuration for the Gemini engine.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://generativelanguage.googleapis.com).
	BaseURL string

	// Model is the generation model (default: gemini-2.5-flash).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerMinute caps the request rate (default: 60).
	RequestsPerMinute int
}

// Engine generates completions via the Gemini REST API.
type Engine struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *rate.Limiter
}

// NewEngine creates a new Gemini completion engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}

	return &Engine{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
	}, nil
}

// generateRequest is the generateContent request format.
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature"`
}

// generateResponse is the generateContent response format.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Generate produces a completion for the prompt.
func (e *Engine) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			MaxOutputTokens: opts.MaxTokens,
			Temperature:     opts.Temperature,
		},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", domain.ErrCompletionFailed, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", e.baseURL, e.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", domain.ErrCompletionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", domain.ErrCompletionFailed, err)
	}

	var out generateResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", domain.ErrCompletionFailed, err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("%w: %s (%s)", domain.ErrCompletionFailed, out.Error.Message, out.Error.Status)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %s", domain.ErrCompletionFailed, resp.Status)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", domain.ErrCompletionFailed)
	}

	var text string
	for _, p := range out.Candidates[0].Content.Parts {
		text += p.Text
	}
	return text, nil
}

// ModelName returns the configured model name.
func (e *Engine) ModelName() string {
	return e.model
}

// Ping validates the engine is reachable by fetching model metadata.
func (e *Engine) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1beta/models/%s", e.baseURL, e.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s", domain.ErrCompletionFailed, resp.Status)
	}
	return nil
}

// Close releases resources.
func (e *Engine) Close() error {
	e.client.CloseIdleConnections()
	return nil
}
