// Package config provides configuration management for the news impact tracker.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	News     NewsConfig     `mapstructure:"news"`
	Tracker  TrackerConfig  `mapstructure:"tracker"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // openai, gemini, claude, ollama
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Ollama      OllamaConfig  `mapstructure:"ollama"`
	OpenAI      OpenAIConfig  `mapstructure:"openai"`
	Gemini      GeminiConfig  `mapstructure:"gemini"`
	Claude      ClaudeConfig  `mapstructure:"claude"`
}

// OllamaConfig holds Ollama-specific configuration.
type OllamaConfig struct {
	URL   string `mapstructure:"url"`
	Model string `mapstructure:"model"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// ClaudeConfig holds Anthropic-specific configuration.
type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// HasCredential reports whether the selected provider has what it needs to
// make a call: an API key for hosted providers, a URL for Ollama.
func (l *LLMConfig) HasCredential() bool {
	switch l.Provider {
	case "openai":
		return l.OpenAI.APIKey != ""
	case "gemini":
		return l.Gemini.APIKey != ""
	case "claude":
		return l.Claude.APIKey != ""
	case "ollama":
		return l.Ollama.URL != ""
	default:
		return false
	}
}

// AnalysisConfig holds analysis configuration.
type AnalysisConfig struct {
	UseLLM            bool `mapstructure:"use_llm"`
	MaxPromptArticles int  `mapstructure:"max_prompt_articles"`
}

// NewsConfig holds news search and scraping configuration.
type NewsConfig struct {
	AllowedDomains    []string      `mapstructure:"allowed_domains"`
	Backends          []string      `mapstructure:"backends"`
	Feeds             []string      `mapstructure:"feeds"`
	Region            string        `mapstructure:"region"`
	UserAgent         string        `mapstructure:"user_agent"`
	RequestDelay      time.Duration `mapstructure:"request_delay"`
	ScrapeDelay       time.Duration `mapstructure:"scrape_delay"`
	MaxRetries        int           `mapstructure:"max_retries"`
	BackoffMultiplier float64       `mapstructure:"backoff_multiplier"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
}

// TrackerConfig holds portfolio analysis limits.
type TrackerConfig struct {
	MaxAssets           int `mapstructure:"max_assets"`
	MaxArticlesPerAsset int `mapstructure:"max_articles_per_asset"`
	MinDays             int `mapstructure:"min_days"`
	MaxDays             int `mapstructure:"max_days"`
}

// DefaultAllowedDomains are the trusted financial news sources.
var DefaultAllowedDomains = []string{
	"bloomberg.com",
	"cnbc.com",
	"reuters.com",
	"marketwatch.com",
	"finance.yahoo.com",
	"wsj.com",
	"ft.com",
	"barrons.com",
	"investing.com",
	"seekingalpha.com",
}

// DefaultUserAgent mimics a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists (don't error if not found)
	envFiles := []string{".env", ".env.local"}
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", envFile, err)
			}
		}
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		// A missing default config file is fine; defaults and env still apply.
		_ = v.ReadInConfig()
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration with only defaults applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults are statically typed; Unmarshal cannot fail on them.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")

	// LLM defaults
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 2000)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.ollama.model", "llama3")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.gemini.model", "gemini-1.5-flash")
	v.SetDefault("llm.claude.model", "claude-3-5-haiku-latest")

	// Analysis defaults
	v.SetDefault("analysis.use_llm", true)
	v.SetDefault("analysis.max_prompt_articles", 15)

	// News defaults
	v.SetDefault("news.allowed_domains", DefaultAllowedDomains)
	v.SetDefault("news.backends", []string{"duckduckgo", "feeds"})
	v.SetDefault("news.feeds", []string{
		"https://feeds.finance.yahoo.com/rss/2.0/headline?s={symbol}&region=US&lang=en-US",
		"https://www.cnbc.com/id/100003114/device/rss/rss.html",
		"https://feeds.content.dowjones.io/public/rss/mw_topstories",
	})
	v.SetDefault("news.region", "us-en")
	v.SetDefault("news.user_agent", DefaultUserAgent)
	v.SetDefault("news.request_delay", "1s")
	v.SetDefault("news.scrape_delay", "500ms")
	v.SetDefault("news.max_retries", 3)
	v.SetDefault("news.backoff_multiplier", 2)
	v.SetDefault("news.request_timeout", "8s")

	// Tracker defaults
	v.SetDefault("tracker.max_assets", 10)
	v.SetDefault("tracker.max_articles_per_asset", 5)
	v.SetDefault("tracker.min_days", 1)
	v.SetDefault("tracker.max_days", 7)
}

// bindEnvVars binds environment variables to config keys.
func bindEnvVars(v *viper.Viper) {
	// App
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.log_level", "LOG_LEVEL")

	// Server
	_ = v.BindEnv("server.port", "SERVER_PORT")

	// LLM
	_ = v.BindEnv("llm.provider", "LLM_PROVIDER")
	_ = v.BindEnv("llm.ollama.url", "OLLAMA_URL")
	_ = v.BindEnv("llm.ollama.model", "OLLAMA_MODEL")
	_ = v.BindEnv("llm.openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.openai.model", "OPENAI_MODEL")
	_ = v.BindEnv("llm.gemini.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("llm.gemini.model", "GEMINI_MODEL")
	_ = v.BindEnv("llm.claude.api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("llm.claude.model", "CLAUDE_MODEL")

	// Analysis
	_ = v.BindEnv("analysis.use_llm", "USE_LLM")
}

// Validate returns human-readable configuration issues. None of them are
// fatal; callers log them.
func (c *Config) Validate() []string {
	var issues []string

	if c.Analysis.UseLLM && !c.LLM.HasCredential() {
		issues = append(issues, fmt.Sprintf("no credential configured for LLM provider %q; keyword analysis will be used", c.LLM.Provider))
	}
	if c.Tracker.MaxAssets < 1 {
		issues = append(issues, "tracker.max_assets must be at least 1")
	}
	if c.Tracker.MaxArticlesPerAsset < 1 {
		issues = append(issues, "tracker.max_articles_per_asset must be at least 1")
	}
	if c.Tracker.MinDays > c.Tracker.MaxDays {
		issues = append(issues, "tracker.min_days must not exceed tracker.max_days")
	}
	if len(c.News.AllowedDomains) == 0 {
		issues = append(issues, "news.allowed_domains is empty; every article will be filtered out")
	}

	return issues
}

// IsDevelopment returns true if the app is in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if the app is in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
