// Package sentiment provides keyword-based sentiment and impact
// classification of headlines.
package sentiment

import (
	"strings"

	"github.com/user/news-impact-tracker/internal/models"
)

// Keywords are matched as case-insensitive substrings, so "up" also matches
// "update" and "bull" matches "bullish".
var (
	positiveKeywords = []string{"gain", "up", "rise", "positive", "growth", "bull"}
	negativeKeywords = []string{"fall", "down", "drop", "negative", "decline", "bear"}

	highImpactKeywords = []string{"major", "significant", "huge", "massive", "breaking"}
	lowImpactKeywords  = []string{"minor", "slight", "small"}
)

// Result is the classification of one piece of text.
type Result struct {
	Sentiment       models.Sentiment `json:"sentiment"`
	Magnitude       models.Magnitude `json:"magnitude"`
	MatchedKeywords []string         `json:"matched_keywords"`
}

// Analyzer classifies text with fixed keyword dictionaries.
type Analyzer struct {
	positive []string
	negative []string
	high     []string
	low      []string
}

// NewAnalyzer creates an analyzer with the default dictionaries.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		positive: positiveKeywords,
		negative: negativeKeywords,
		high:     highImpactKeywords,
		low:      lowImpactKeywords,
	}
}

// Analyze classifies text. Positive keywords take precedence over negative
// ones and high-impact keywords over low-impact ones.
func (a *Analyzer) Analyze(text string) Result {
	lower := strings.ToLower(text)

	result := Result{
		Sentiment: models.SentimentNeutral,
		Magnitude: models.MagnitudeMedium,
	}

	if matched := matches(lower, a.positive); len(matched) > 0 {
		result.Sentiment = models.SentimentPositive
		result.MatchedKeywords = append(result.MatchedKeywords, matched...)
	} else if matched := matches(lower, a.negative); len(matched) > 0 {
		result.Sentiment = models.SentimentNegative
		result.MatchedKeywords = append(result.MatchedKeywords, matched...)
	}

	if matched := matches(lower, a.high); len(matched) > 0 {
		result.Magnitude = models.MagnitudeHigh
		result.MatchedKeywords = append(result.MatchedKeywords, matched...)
	} else if matched := matches(lower, a.low); len(matched) > 0 {
		result.Magnitude = models.MagnitudeLow
		result.MatchedKeywords = append(result.MatchedKeywords, matched...)
	}

	return result
}

// matches returns the keywords contained in text.
func matches(text string, keywords []string) []string {
	var found []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			found = append(found, kw)
		}
	}
	return found
}
