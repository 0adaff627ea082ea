package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements the Provider interface for Google Gemini.
type GeminiProvider struct {
	apiKey string
	model  string
	opts   Options
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(apiKey, model string, opts Options) *GeminiProvider {
	return &GeminiProvider{
		apiKey: apiKey,
		model:  model,
		opts:   opts,
	}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) clientOptions() []option.ClientOption {
	opts := []option.ClientOption{option.WithAPIKey(p.apiKey)}
	if p.opts.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(p.opts.BaseURL))
	}
	return opts
}

// IsAvailable checks if a Gemini client can be created.
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	client, err := genai.NewClient(ctx, p.clientOptions()...)
	if err != nil {
		return false
	}
	defer client.Close()
	return true
}

// Generate sends req to Gemini and returns the concatenated text parts.
func (p *GeminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	client, err := genai.NewClient(ctx, p.clientOptions()...)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.SetTemperature(p.opts.Temperature)
	model.SetMaxOutputTokens(int32(p.opts.MaxTokens))

	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result += string(text)
		}
	}

	return result, nil
}
