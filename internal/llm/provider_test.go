package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/news-impact-tracker/pkg/config"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.LLMConfig
		wantName string
		wantErr  error
	}{
		{"nil config", nil, "", ErrNotConfigured},
		{"openai", &config.LLMConfig{Provider: "openai", OpenAI: config.OpenAIConfig{APIKey: "k", Model: "m"}}, "openai", nil},
		{"gemini", &config.LLMConfig{Provider: "gemini", Gemini: config.GeminiConfig{APIKey: "k"}}, "gemini", nil},
		{"claude", &config.LLMConfig{Provider: "claude", Claude: config.ClaudeConfig{APIKey: "k"}}, "claude", nil},
		{"ollama", &config.LLMConfig{Provider: "ollama", Ollama: config.OllamaConfig{URL: "http://localhost:11434"}}, "ollama", nil},
		{"missing key", &config.LLMConfig{Provider: "openai"}, "", ErrNotConfigured},
		{"missing ollama url", &config.LLMConfig{Provider: "ollama"}, "", ErrNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(&config.LLMConfig{Provider: "mystery"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}

func TestOllamaProvider_Generate(t *testing.T) {
	var got OllamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(OllamaResponse{Model: got.Model, Response: `{"ok": true}`, Done: true})
	}))
	defer srv.Close()

	p := NewOllamaProvider("llama3", Options{BaseURL: srv.URL + "/", Temperature: 0.2, MaxTokens: 100})
	text, err := p.Generate(context.Background(), Request{System: "sys", Prompt: "hello"})
	require.NoError(t, err)

	assert.Equal(t, `{"ok": true}`, text)
	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, "sys", got.System)
	assert.Equal(t, "hello", got.Prompt)
	assert.False(t, got.Stream)
	assert.Equal(t, "json", got.Format)
	assert.Equal(t, 100, got.Options.NumPredict)
}

func TestOllamaProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider("missing", Options{BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), Request{Prompt: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.True(t, NewOllamaProvider("m", Options{BaseURL: srv.URL}).IsAvailable(context.Background()))

	srv.Close()
	assert.False(t, NewOllamaProvider("m", Options{BaseURL: srv.URL}).IsAvailable(context.Background()))
}
