package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/news-impact-tracker/internal/models"
)

func TestWriteSummary(t *testing.T) {
	result := &models.AnalysisResult{
		AssetsAnalyzed: []string{"AAPL", "MSFT"},
		NewsEntries: []models.NewsEntry{
			{Asset: "AAPL", Title: "Apple gains", Sentiment: models.SentimentPositive, ImpactMagnitude: models.MagnitudeHigh},
		},
		PortfolioAnalysis: models.PortfolioAnalysis{
			TotalArticles:    1,
			HighImpactCount:  1,
			OverallSentiment: models.OutlookBullish,
			RiskLevel:        models.MagnitudeMedium,
			KeyConcerns:      []string{"valuation"},
			Opportunities:    []string{"services"},
			Recommendations:  []string{"hold"},
		},
		AssetMetrics: []models.AssetMetrics{
			{Asset: "AAPL", ArticleCount: 1, DominantSentiment: models.SentimentPositive, AverageImpact: models.MagnitudeHigh, AverageConfidence: 0.6},
			{Asset: "MSFT", DominantSentiment: models.SentimentNeutral, AverageImpact: models.MagnitudeLow},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, result))
	out := buf.String()

	assert.Contains(t, out, "Assets Analyzed: AAPL, MSFT")
	assert.Contains(t, out, "Overall Sentiment: Bullish")
	assert.Contains(t, out, "Sentiment Mix: 1 positive, 0 negative, 0 neutral")
	assert.Contains(t, out, "   • valuation")
	assert.Contains(t, out, "| AAPL  | 1        | Positive  | High   | 0.60       |")
	assert.Contains(t, out, "| MSFT  | 0        | Neutral   | Low    | 0.00       |")
	assert.Contains(t, out, "[AAPL] Apple gains")
}

func TestTable_WideCharacters(t *testing.T) {
	lines := Table([][]string{{"Name", "X"}, {"日本", "1"}})
	require.Len(t, lines, 3)

	width := runewidth.StringWidth(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, runewidth.StringWidth(line), line)
	}
	assert.True(t, strings.HasPrefix(lines[1], "| ----"))
}

func TestWriteConnectivity(t *testing.T) {
	var buf bytes.Buffer
	keys := []string{"news_scraping", "ai_analysis"}

	require.NoError(t, WriteConnectivity(&buf, map[string]bool{"news_scraping": true, "ai_analysis": false}, keys))
	assert.Equal(t, "News Scraping: Available\nAi Analysis: Unavailable\n\nSome systems are unavailable. Check configuration.\n", buf.String())
}
