package analyzer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/news-impact-tracker/internal/models"
	"github.com/user/news-impact-tracker/internal/news"
)

func TestKeywordStrategy_Classification(t *testing.T) {
	s := NewKeywordStrategy(0, zerolog.Nop())

	articles := []news.RawArticle{
		{Asset: "AAPL", Title: "Apple shares gain on major launch", URL: "https://www.reuters.com/1", Source: "reuters.com"},
		{Asset: "AAPL", Title: "Apple stock falls slightly", Description: "a small move", URL: "https://www.reuters.com/2", Source: "reuters.com"},
		{Asset: "AAPL", Title: "Apple holds event", URL: "https://www.reuters.com/3", Source: "reuters.com"},
	}

	entries, analysis, err := s.Analyze(context.Background(), articles, []string{"AAPL"})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, models.SentimentPositive, entries[0].Sentiment)
	assert.Equal(t, models.MagnitudeHigh, entries[0].ImpactMagnitude)
	assert.Equal(t, models.SentimentNegative, entries[1].Sentiment)
	assert.Equal(t, models.MagnitudeLow, entries[1].ImpactMagnitude)
	assert.Equal(t, models.SentimentNeutral, entries[2].Sentiment)
	assert.Equal(t, models.MagnitudeMedium, entries[2].ImpactMagnitude)

	for _, e := range entries {
		assert.Equal(t, models.TimeframeMedium, e.ImpactTimeframe)
		assert.InDelta(t, 0.6, e.ConfidenceScore, 1e-9)
		assert.Equal(t, "News impact analysis for AAPL based on recent developments.", e.Summary)
	}

	assert.Equal(t, 3, analysis.TotalArticles)
	assert.Equal(t, 1, analysis.HighImpactCount)
	assert.Equal(t, models.OutlookNeutral, analysis.OverallSentiment)
	assert.Equal(t, models.MagnitudeMedium, analysis.RiskLevel)
	assert.Len(t, analysis.Recommendations, 3)
}

func TestKeywordStrategy_Rollup(t *testing.T) {
	tests := []struct {
		name    string
		titles  []string
		outlook models.Outlook
		risk    models.Magnitude
	}{
		{"bullish", []string{"growth", "rise", "drop"}, models.OutlookBullish, models.MagnitudeLow},
		{"bearish", []string{"decline", "bear market"}, models.OutlookBearish, models.MagnitudeLow},
		{"high risk", []string{"major", "massive", "breaking"}, models.OutlookNeutral, models.MagnitudeHigh},
		{"medium risk", []string{"huge", "significant"}, models.OutlookNeutral, models.MagnitudeMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var articles []news.RawArticle
			for _, title := range tt.titles {
				articles = append(articles, news.RawArticle{Asset: "SPY", Title: title, URL: "https://www.cnbc.com/x", Source: "cnbc.com"})
			}

			_, analysis, err := NewKeywordStrategy(0, zerolog.Nop()).Analyze(context.Background(), articles, []string{"SPY"})
			require.NoError(t, err)
			assert.Equal(t, tt.outlook, analysis.OverallSentiment)
			assert.Equal(t, tt.risk, analysis.RiskLevel)
		})
	}
}

func TestKeywordStrategy_LimitsAndDefaults(t *testing.T) {
	s := NewKeywordStrategy(0, zerolog.Nop())
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	articles := makeArticles("BTC", 20)
	articles[0] = news.RawArticle{Title: strings.Repeat("x", 300)}

	entries, analysis, err := s.Analyze(context.Background(), articles, []string{"BTC"})
	require.NoError(t, err)
	require.Len(t, entries, DefaultMaxArticles)
	assert.Equal(t, DefaultMaxArticles, analysis.TotalArticles)

	first := entries[0]
	assert.Equal(t, "MARKET", first.Asset)
	assert.Len(t, first.Title, 200)
	assert.Equal(t, "financial-news.com", first.Source)
	assert.Equal(t, "https://example.com", first.URL)
	assert.Equal(t, "2024-05-01T12:00:00Z", first.PublishedAt)
	assert.Equal(t, "News impact analysis for market based on recent developments.", first.Summary)
}

func TestKeywordStrategy_Empty(t *testing.T) {
	entries, analysis, err := NewKeywordStrategy(0, zerolog.Nop()).Analyze(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, EmptyAnalysis(), analysis)
}
