// Package llm provides LLM provider interfaces and implementations.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/news-impact-tracker/pkg/config"
)

// ErrNotConfigured is returned when the selected provider lacks a
// credential.
var ErrNotConfigured = errors.New("llm provider not configured")

// Request is a single-turn prompt.
type Request struct {
	System string `json:"system"`
	Prompt string `json:"prompt"`
}

// Options tunes generation for every provider.
type Options struct {
	Temperature float32
	MaxTokens   int

	// BaseURL overrides the provider endpoint. Empty uses the default.
	BaseURL string
}

// Provider defines the interface for LLM providers.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Generate returns the model's text completion for req.
	Generate(ctx context.Context, req Request) (string, error)

	// IsAvailable checks if the provider is available.
	IsAvailable(ctx context.Context) bool
}

// NewProvider creates a new LLM provider based on configuration. It returns
// ErrNotConfigured when the provider's credential is missing.
func NewProvider(cfg *config.LLMConfig) (Provider, error) {
	if cfg == nil {
		return nil, ErrNotConfigured
	}

	opts := Options{
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2000
	}

	switch cfg.Provider {
	case "ollama", "openai", "gemini", "claude":
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
	if !cfg.HasCredential() {
		return nil, fmt.Errorf("%w: %s credential is missing", ErrNotConfigured, cfg.Provider)
	}

	switch cfg.Provider {
	case "ollama":
		opts.BaseURL = cfg.Ollama.URL
		return NewOllamaProvider(cfg.Ollama.Model, opts), nil
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, opts), nil
	case "gemini":
		return NewGeminiProvider(cfg.Gemini.APIKey, cfg.Gemini.Model, opts), nil
	default:
		return NewClaudeProvider(cfg.Claude.APIKey, cfg.Claude.Model, opts), nil
	}
}
