// Package analyzer turns raw articles into validated news judgments and a
// portfolio roll-up, using an LLM when one is configured and keyword rules
// otherwise.
package analyzer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/user/news-impact-tracker/internal/models"
	"github.com/user/news-impact-tracker/internal/news"
)

// DefaultMaxArticles bounds how many articles a strategy looks at.
const DefaultMaxArticles = 15

// Strategy produces entries and a portfolio analysis from raw articles.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Analyze judges articles for the given assets.
	Analyze(ctx context.Context, articles []news.RawArticle, assets []string) ([]models.NewsEntry, models.PortfolioAnalysis, error)
}

// Engine runs the primary strategy and falls back to the secondary one on
// any primary failure.
type Engine struct {
	primary  Strategy
	fallback Strategy
	logger   zerolog.Logger
}

// NewEngine creates an engine. primary may be nil, in which case only the
// fallback strategy is used.
func NewEngine(primary, fallback Strategy, logger zerolog.Logger) *Engine {
	return &Engine{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With().Str("component", "analysis_engine").Logger(),
	}
}

// LLMEnabled reports whether a primary strategy is configured.
func (e *Engine) LLMEnabled() bool {
	return e.primary != nil
}

// LLMReachable reports whether the primary strategy is configured and its
// backend currently answers. Strategies without a reachability check count
// as unreachable.
func (e *Engine) LLMReachable(ctx context.Context) bool {
	r, ok := e.primary.(interface {
		Reachable(ctx context.Context) bool
	})
	return ok && r.Reachable(ctx)
}

// Analyze judges articles. With no articles it returns EmptyAnalysis without
// calling either strategy. A primary failure, timeout or cancellation is
// logged and never returned; only a fallback failure is.
func (e *Engine) Analyze(ctx context.Context, articles []news.RawArticle, assets []string) ([]models.NewsEntry, models.PortfolioAnalysis, error) {
	if len(articles) == 0 {
		e.logger.Info().Msg("no articles to analyze")
		return []models.NewsEntry{}, EmptyAnalysis(), nil
	}

	if e.primary != nil {
		entries, analysis, err := e.primary.Analyze(ctx, articles, assets)
		if err == nil {
			e.logger.Info().Str("strategy", e.primary.Name()).Int("entries", len(entries)).Msg("analysis completed")
			return entries, analysis, nil
		}
		if IsTimeout(err) {
			e.logger.Warn().Str("strategy", e.primary.Name()).Msg("analysis timed out, falling back to keyword analysis")
		} else {
			e.logger.Warn().Err(err).Str("strategy", e.primary.Name()).Msg("analysis failed, falling back to keyword analysis")
		}
	}

	entries, analysis, err := e.fallback.Analyze(ctx, articles, assets)
	if err != nil {
		return nil, models.PortfolioAnalysis{}, fmt.Errorf("%s analysis failed: %w", e.fallback.Name(), err)
	}
	e.logger.Info().Str("strategy", e.fallback.Name()).Int("entries", len(entries)).Msg("analysis completed")
	return entries, analysis, nil
}

// EmptyAnalysis is the portfolio analysis reported when no news was found.
func EmptyAnalysis() models.PortfolioAnalysis {
	return models.PortfolioAnalysis{
		TotalArticles:    0,
		HighImpactCount:  0,
		OverallSentiment: models.OutlookNeutral,
		RiskLevel:        models.MagnitudeLow,
		KeyConcerns:      []string{"No recent news data available"},
		Opportunities:    []string{"Consider monitoring news sources"},
		Recommendations:  []string{"Check news sources and try again"},
	}
}

// limitArticles returns at most n leading articles.
func limitArticles(articles []news.RawArticle, n int) []news.RawArticle {
	if n <= 0 {
		n = DefaultMaxArticles
	}
	if len(articles) > n {
		return articles[:n]
	}
	return articles
}

// truncateRunes clips s to at most n runes.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
