package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/user/news-impact-tracker/internal/models"
)

// defaultConfidence replaces a missing or out-of-range model confidence.
const defaultConfidence = 0.7

// Defaults for missing string fields of model-returned entries.
const (
	defaultAsset   = "MARKET"
	defaultTitle   = "Market Update"
	defaultSummary = "News analysis summary"
	defaultSource  = "financial-news.com"
	defaultURL     = "https://example.com"
)

// NormalizeEntry maps a loosely typed entry returned by a model onto a
// NewsEntry. Enum values outside their domain are coerced to defaults and
// missing string fields are filled in. The asset symbol is upper-cased and
// trimmed to match the requested symbols; present but empty strings are kept so
// that validation can reject them. now supplies a missing published_at.
func NormalizeEntry(raw map[string]any, now string) models.NewsEntry {
	return models.NewsEntry{
		Asset:           strings.ToUpper(strings.TrimSpace(stringField(raw, "asset", defaultAsset))),
		Title:           stringField(raw, "title", defaultTitle),
		Summary:         stringField(raw, "summary", defaultSummary),
		Source:          stringField(raw, "source", defaultSource),
		URL:             stringField(raw, "url", defaultURL),
		PublishedAt:     stringField(raw, "published_at", now),
		Sentiment:       NormalizeSentiment(raw["sentiment"]),
		ImpactTimeframe: NormalizeTimeframe(raw["impact_timeframe"]),
		ImpactMagnitude: NormalizeMagnitude(raw["impact_magnitude"]),
		ConfidenceScore: NormalizeConfidence(raw["confidence_score"]),
	}
}

// NormalizeTimeframe appends "-Term" to a bare Short, Medium or Long and
// maps anything else that is not a valid timeframe to Medium-Term.
func NormalizeTimeframe(v any) models.Timeframe {
	s, _ := v.(string)
	switch s {
	case "Short", "Medium", "Long":
		return models.Timeframe(s + "-Term")
	case string(models.TimeframeShort), string(models.TimeframeMedium), string(models.TimeframeLong):
		return models.Timeframe(s)
	default:
		return models.TimeframeMedium
	}
}

// NormalizeSentiment maps anything but a valid sentiment to Neutral.
func NormalizeSentiment(v any) models.Sentiment {
	s, _ := v.(string)
	switch models.Sentiment(s) {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral:
		return models.Sentiment(s)
	default:
		return models.SentimentNeutral
	}
}

// NormalizeMagnitude maps anything but a valid magnitude to Medium.
func NormalizeMagnitude(v any) models.Magnitude {
	s, _ := v.(string)
	switch models.Magnitude(s) {
	case models.MagnitudeHigh, models.MagnitudeMedium, models.MagnitudeLow:
		return models.Magnitude(s)
	default:
		return models.MagnitudeMedium
	}
}

// NormalizeConfidence returns v when it is a number in [0,1] and 0.7
// otherwise.
func NormalizeConfidence(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return defaultConfidence
	}
	if math.IsNaN(f) || f < 0 || f > 1 {
		return defaultConfidence
	}
	return f
}

func stringField(raw map[string]any, key, def string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
