package tracker

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/user/news-impact-tracker/internal/analyzer"
	"github.com/user/news-impact-tracker/internal/llm"
	"github.com/user/news-impact-tracker/internal/news"
	"github.com/user/news-impact-tracker/internal/ratelimit"
	"github.com/user/news-impact-tracker/internal/scraper"
	"github.com/user/news-impact-tracker/pkg/config"
)

// New wires a Tracker from configuration. Configuration issues are logged,
// and a missing or unusable LLM credential silently selects keyword
// analysis.
func New(cfg *config.Config, logger zerolog.Logger) (*Tracker, error) {
	for _, issue := range cfg.Validate() {
		logger.Warn().Msg(issue)
	}

	httpClient := &http.Client{Timeout: cfg.News.RequestTimeout}

	backend, err := news.NewBackend(cfg.News.Backends, httpClient, cfg.News.UserAgent, cfg.News.Feeds)
	if err != nil {
		return nil, fmt.Errorf("failed to create search backend: %w", err)
	}

	metadata := scraper.NewMetadataFetcher(httpClient, ratelimit.New(cfg.News.ScrapeDelay), cfg.News.UserAgent, logger)

	policy := news.DefaultRetryPolicy()
	if cfg.News.MaxRetries > 0 {
		policy.MaxAttempts = cfg.News.MaxRetries
	}
	if cfg.News.RequestDelay > 0 {
		policy.BaseDelay = cfg.News.RequestDelay
	}
	if cfg.News.BackoffMultiplier > 0 {
		policy.Multiplier = cfg.News.BackoffMultiplier
	}

	client := news.NewClient(
		backend,
		scraper.NewDomainFilter(cfg.News.AllowedDomains),
		metadata,
		ratelimit.New(cfg.News.RequestDelay),
		logger,
		news.WithRetryPolicy(policy),
		news.WithRegion(cfg.News.Region),
	)
	collector := news.NewCollector(client, ratelimit.New(cfg.News.RequestDelay), cfg.Tracker.MaxAssets, logger)

	var primary analyzer.Strategy
	if cfg.Analysis.UseLLM {
		provider, err := llm.NewProvider(&cfg.LLM)
		if err != nil {
			logger.Warn().Err(err).Msg("LLM provider unavailable, using keyword analysis")
		} else {
			logger.Info().Str("provider", provider.Name()).Msg("LLM provider initialized")
			primary = analyzer.NewLLMStrategy(provider, cfg.Analysis.MaxPromptArticles, cfg.LLM.Timeout, logger)
		}
	}
	engine := analyzer.NewEngine(primary, analyzer.NewKeywordStrategy(cfg.Analysis.MaxPromptArticles, logger), logger)

	return NewTracker(collector, client, engine, cfg.Tracker, logger), nil
}
