// Package tracker orchestrates a portfolio news analysis: collection,
// analysis and per-asset aggregation.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/user/news-impact-tracker/internal/models"
	"github.com/user/news-impact-tracker/internal/news"
	"github.com/user/news-impact-tracker/pkg/config"
)

var (
	// ErrInvalidInput is returned for an empty or entirely invalid asset list.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAnalysisFailed wraps any failure of the analysis pipeline.
	ErrAnalysisFailed = errors.New("portfolio analysis failed")
)

// Connectivity status keys.
const (
	StatusNewsScraping = "news_scraping"
	StatusAIAnalysis   = "ai_analysis"
	StatusAIReachable  = "ai_reachable"
)

// PortfolioSearcher collects raw articles for a list of assets.
type PortfolioSearcher interface {
	SearchPortfolio(ctx context.Context, assets []string, maxArticlesPerAsset, timeFilterDays int) ([]news.RawArticle, error)
}

// Analyzer judges raw articles.
type Analyzer interface {
	Analyze(ctx context.Context, articles []news.RawArticle, assets []string) ([]models.NewsEntry, models.PortfolioAnalysis, error)
	LLMEnabled() bool
	LLMReachable(ctx context.Context) bool
}

// Tracker runs portfolio analyses.
type Tracker struct {
	collector PortfolioSearcher
	searcher  news.Searcher
	analyzer  Analyzer
	limits    config.TrackerConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTracker creates a tracker from its collaborators. searcher is used only
// by TestConnectivity.
func NewTracker(collector PortfolioSearcher, searcher news.Searcher, analyzer Analyzer, limits config.TrackerConfig, logger zerolog.Logger) *Tracker {
	if limits.MaxAssets <= 0 {
		limits.MaxAssets = news.DefaultMaxAssets
	}
	if limits.MaxArticlesPerAsset <= 0 {
		limits.MaxArticlesPerAsset = 5
	}
	if limits.MinDays <= 0 {
		limits.MinDays = 1
	}
	if limits.MaxDays < limits.MinDays {
		limits.MaxDays = max(7, limits.MinDays)
	}
	return &Tracker{
		collector: collector,
		searcher:  searcher,
		analyzer:  analyzer,
		limits:    limits,
		logger:    logger.With().Str("component", "tracker").Logger(),
		now:       time.Now,
	}
}

// AnalyzePortfolio collects, analyzes and aggregates news for assets. It
// either returns a complete result or a single error: ErrInvalidInput for a
// bad asset list, ErrAnalysisFailed for anything that went wrong later.
func (t *Tracker) AnalyzePortfolio(ctx context.Context, assets []string, maxArticlesPerAsset, timeFilterDays int) (*models.AnalysisResult, error) {
	if len(assets) == 0 {
		return nil, fmt.Errorf("%w: no assets provided", ErrInvalidInput)
	}
	symbols := NormalizeSymbols(assets)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no valid asset symbols provided", ErrInvalidInput)
	}

	if len(symbols) > t.limits.MaxAssets {
		t.logger.Warn().Int("requested", len(symbols)).Int("max", t.limits.MaxAssets).Msg("too many assets, truncating")
		symbols = symbols[:t.limits.MaxAssets]
	}

	days, clamped := ClampDays(timeFilterDays, t.limits.MinDays, t.limits.MaxDays)
	if clamped {
		t.logger.Warn().Int("requested", timeFilterDays).Int("used", days).Msg("time filter out of range, clamping")
	}
	if maxArticlesPerAsset <= 0 {
		maxArticlesPerAsset = t.limits.MaxArticlesPerAsset
	}

	t.logger.Info().Strs("assets", symbols).Int("max_articles", maxArticlesPerAsset).Int("days", days).Msg("starting portfolio analysis")

	result, err := t.run(ctx, symbols, maxArticlesPerAsset, days)
	if err != nil {
		t.logger.Error().Err(err).Msg("portfolio analysis failed")
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	t.logger.Info().Int("entries", len(result.NewsEntries)).Str("sentiment", string(result.PortfolioAnalysis.OverallSentiment)).Msg("portfolio analysis completed")
	return result, nil
}

// QuickAnalysis analyzes a single asset with three articles from the last
// day.
func (t *Tracker) QuickAnalysis(ctx context.Context, asset string) (*models.AnalysisResult, error) {
	return t.AnalyzePortfolio(ctx, []string{asset}, 3, 1)
}

// run executes the pipeline stages in sequence. A panic in any stage is
// turned into an error.
func (t *Tracker) run(ctx context.Context, symbols []string, maxArticles, days int) (result *models.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic during analysis: %v", r)
		}
	}()

	articles, err := t.collector.SearchPortfolio(ctx, symbols, maxArticles, days)
	if err != nil {
		return nil, fmt.Errorf("failed to collect news: %w", err)
	}
	t.logger.Info().Int("articles", len(articles)).Msg("news collected")

	entries, analysis, err := t.analyzer.Analyze(ctx, articles, symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze news: %w", err)
	}

	return &models.AnalysisResult{
		Timestamp:         t.now().UTC().Format(time.RFC3339),
		AssetsAnalyzed:    symbols,
		NewsEntries:       entries,
		PortfolioAnalysis: analysis,
		AssetMetrics:      Aggregate(entries, symbols),
	}, nil
}

// TestConnectivity reports, independently, whether a one-article search
// returns anything, whether an analysis credential is configured and whether
// the configured model backend answers. It never panics.
func (t *Tracker) TestConnectivity(ctx context.Context) map[string]bool {
	configured := t.checkAnalysis()
	return map[string]bool{
		StatusNewsScraping: t.checkSearch(ctx),
		StatusAIAnalysis:   configured,
		StatusAIReachable:  configured && t.checkReachable(ctx),
	}
}

func (t *Tracker) checkSearch(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error().Interface("panic", r).Msg("news connectivity check panicked")
			ok = false
		}
	}()
	if t.searcher == nil {
		return false
	}

	articles, err := t.searcher.Search(ctx, "AAPL financial news", 1, 1)
	if err != nil {
		t.logger.Warn().Err(err).Msg("news connectivity check failed")
		return false
	}
	return len(articles) > 0
}

func (t *Tracker) checkAnalysis() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error().Interface("panic", r).Msg("analysis connectivity check panicked")
			ok = false
		}
	}()
	return t.analyzer != nil && t.analyzer.LLMEnabled()
}

func (t *Tracker) checkReachable(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error().Interface("panic", r).Msg("model reachability check panicked")
			ok = false
		}
	}()
	return t.analyzer.LLMReachable(ctx)
}
