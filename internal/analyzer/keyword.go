package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/user/news-impact-tracker/internal/models"
	"github.com/user/news-impact-tracker/internal/news"
	"github.com/user/news-impact-tracker/internal/sentiment"
)

// keywordConfidence is the fixed confidence of rule-based judgments.
const keywordConfidence = 0.6

// keywordTitleLength clips titles of rule-based entries.
const keywordTitleLength = 200

// KeywordStrategy classifies articles with fixed keyword dictionaries.
type KeywordStrategy struct {
	analyzer    *sentiment.Analyzer
	maxArticles int
	logger      zerolog.Logger
	now         func() time.Time
}

// NewKeywordStrategy creates a keyword strategy looking at up to
// maxArticles articles (DefaultMaxArticles when <= 0).
func NewKeywordStrategy(maxArticles int, logger zerolog.Logger) *KeywordStrategy {
	return &KeywordStrategy{
		analyzer:    sentiment.NewAnalyzer(),
		maxArticles: maxArticles,
		logger:      logger.With().Str("component", "keyword_strategy").Logger(),
		now:         time.Now,
	}
}

// Name returns the strategy name.
func (s *KeywordStrategy) Name() string {
	return "keyword"
}

// Analyze builds one Medium-Term entry per article and a templated
// portfolio roll-up. Articles that cannot form a valid entry are skipped.
func (s *KeywordStrategy) Analyze(ctx context.Context, articles []news.RawArticle, assets []string) ([]models.NewsEntry, models.PortfolioAnalysis, error) {
	if len(articles) == 0 {
		return []models.NewsEntry{}, EmptyAnalysis(), nil
	}

	entries := make([]models.NewsEntry, 0, len(articles))
	for _, article := range limitArticles(articles, s.maxArticles) {
		entry, err := s.judge(article)
		if err != nil {
			s.logger.Warn().Err(err).Str("url", article.URL).Msg("failed to create news entry")
			continue
		}
		entries = append(entries, entry)
	}

	analysis, err := models.NewPortfolioAnalysis(keywordRollup(entries))
	if err != nil {
		return nil, models.PortfolioAnalysis{}, err
	}
	return entries, analysis, nil
}

func (s *KeywordStrategy) judge(article news.RawArticle) (models.NewsEntry, error) {
	result := s.analyzer.Analyze(article.Title + " " + article.Description)

	asset := orDefault(article.Asset, "MARKET")
	summaryAsset := article.Asset
	if summaryAsset == "" {
		summaryAsset = "market"
	}

	return models.NewNewsEntry(models.NewsEntry{
		Asset:           asset,
		Title:           truncateRunes(orDefault(article.Title, "Market Update"), keywordTitleLength),
		Summary:         fmt.Sprintf("News impact analysis for %s based on recent developments.", summaryAsset),
		Source:          orDefault(article.Source, "financial-news.com"),
		URL:             orDefault(article.URL, "https://example.com"),
		PublishedAt:     orDefault(article.PublishedAt, s.now().UTC().Format(time.RFC3339)),
		Sentiment:       result.Sentiment,
		ImpactTimeframe: models.TimeframeMedium,
		ImpactMagnitude: result.Magnitude,
		ConfidenceScore: keywordConfidence,
	})
}

// keywordRollup derives the portfolio outlook from entry counts.
func keywordRollup(entries []models.NewsEntry) models.PortfolioAnalysis {
	var high, positive, negative int
	for _, e := range entries {
		if e.ImpactMagnitude == models.MagnitudeHigh {
			high++
		}
		switch e.Sentiment {
		case models.SentimentPositive:
			positive++
		case models.SentimentNegative:
			negative++
		}
	}

	outlook := models.OutlookNeutral
	switch {
	case positive > negative:
		outlook = models.OutlookBullish
	case negative > positive:
		outlook = models.OutlookBearish
	}

	risk := models.MagnitudeLow
	switch {
	case high > 2:
		risk = models.MagnitudeHigh
	case high > 0:
		risk = models.MagnitudeMedium
	}

	return models.PortfolioAnalysis{
		TotalArticles:    len(entries),
		HighImpactCount:  high,
		OverallSentiment: outlook,
		RiskLevel:        risk,
		KeyConcerns: []string{
			"Market volatility based on recent news",
			"Asset-specific developments requiring monitoring",
		},
		Opportunities: []string{
			"Potential market corrections for entry points",
			"Diversification opportunities across assets",
		},
		Recommendations: []string{
			"Monitor news developments closely",
			"Consider position sizing based on sentiment",
			"Maintain diversified portfolio approach",
		},
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
