package tracker

import (
	"github.com/shopspring/decimal"

	"github.com/user/news-impact-tracker/internal/models"
)

// sentimentPriority breaks ties between equally frequent sentiments.
var sentimentPriority = []models.Sentiment{
	models.SentimentPositive,
	models.SentimentNeutral,
	models.SentimentNegative,
}

var impactWeights = map[models.Magnitude]float64{
	models.MagnitudeHigh:   3,
	models.MagnitudeMedium: 2,
	models.MagnitudeLow:    1,
}

// Aggregate returns one AssetMetrics per asset, in order. Assets without
// entries get zero counts, a Neutral sentiment and a Low impact.
func Aggregate(entries []models.NewsEntry, assets []string) []models.AssetMetrics {
	byAsset := make(map[string][]models.NewsEntry, len(assets))
	for _, e := range entries {
		byAsset[e.Asset] = append(byAsset[e.Asset], e)
	}

	metrics := make([]models.AssetMetrics, 0, len(assets))
	for _, asset := range assets {
		metrics = append(metrics, assetMetrics(asset, byAsset[asset]))
	}
	return metrics
}

func assetMetrics(asset string, entries []models.NewsEntry) models.AssetMetrics {
	if len(entries) == 0 {
		return models.AssetMetrics{
			Asset:             asset,
			DominantSentiment: models.SentimentNeutral,
			AverageImpact:     models.MagnitudeLow,
		}
	}

	counts := make(map[models.Sentiment]int, len(sentimentPriority))
	var weight float64
	confidence := decimal.Zero
	for _, e := range entries {
		counts[e.Sentiment]++
		weight += impactWeights[e.ImpactMagnitude]
		confidence = confidence.Add(decimal.NewFromFloat(e.ConfidenceScore))
	}

	n := int64(len(entries))
	avgConfidence, _ := confidence.Div(decimal.NewFromInt(n)).Round(2).Float64()

	return models.AssetMetrics{
		Asset:             asset,
		ArticleCount:      len(entries),
		DominantSentiment: dominantSentiment(counts),
		AverageImpact:     averageImpact(weight / float64(n)),
		AverageConfidence: avgConfidence,
	}
}

// dominantSentiment returns the most frequent sentiment, preferring
// Positive, then Neutral, then Negative on ties.
func dominantSentiment(counts map[models.Sentiment]int) models.Sentiment {
	best := models.SentimentNeutral
	bestCount := -1
	for _, s := range sentimentPriority {
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best
}

func averageImpact(avg float64) models.Magnitude {
	switch {
	case avg >= 2.5:
		return models.MagnitudeHigh
	case avg >= 1.5:
		return models.MagnitudeMedium
	default:
		return models.MagnitudeLow
	}
}
