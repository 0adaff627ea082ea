// Package models defines the validated entities produced by one analysis run.
package models

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Sentiment represents the sentiment of a single article.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Timeframe represents the horizon over which an impact is expected.
type Timeframe string

const (
	TimeframeShort  Timeframe = "Short-Term"
	TimeframeMedium Timeframe = "Medium-Term"
	TimeframeLong   Timeframe = "Long-Term"
)

// Magnitude represents the severity of an expected market effect. It doubles
// as the portfolio risk level.
type Magnitude string

const (
	MagnitudeHigh   Magnitude = "High"
	MagnitudeMedium Magnitude = "Medium"
	MagnitudeLow    Magnitude = "Low"
)

// Outlook represents the overall sentiment of a portfolio.
type Outlook string

const (
	OutlookBullish Outlook = "Bullish"
	OutlookBearish Outlook = "Bearish"
	OutlookNeutral Outlook = "Neutral"
)

// Sentiments lists every sentiment in reporting order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral}

// MaxTitleLength is the longest title a NewsEntry accepts.
const MaxTitleLength = 500

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// NewsEntry is a validated judgment about one article.
type NewsEntry struct {
	Asset           string    `json:"asset" validate:"required"`
	Title           string    `json:"title" validate:"required,max=500"`
	Summary         string    `json:"summary" validate:"required"`
	Source          string    `json:"source" validate:"required"`
	URL             string    `json:"url" validate:"required"`
	PublishedAt     string    `json:"published_at" validate:"required"`
	Sentiment       Sentiment `json:"sentiment" validate:"required,oneof=Positive Negative Neutral"`
	ImpactTimeframe Timeframe `json:"impact_timeframe" validate:"required,oneof=Short-Term Medium-Term Long-Term"`
	ImpactMagnitude Magnitude `json:"impact_magnitude" validate:"required,oneof=High Medium Low"`
	ConfidenceScore float64   `json:"confidence_score" validate:"gte=0,lte=1"`
}

// NewNewsEntry trims the text fields, defaults an empty publication time to
// now and validates the result.
func NewNewsEntry(e NewsEntry) (NewsEntry, error) {
	e.Title = strings.TrimSpace(e.Title)
	e.Summary = strings.TrimSpace(e.Summary)
	if e.PublishedAt == "" {
		e.PublishedAt = Now()
	}
	if err := getValidator().Struct(e); err != nil {
		return NewsEntry{}, fmt.Errorf("invalid news entry: %w", err)
	}
	return e, nil
}

// PortfolioAnalysis is the portfolio-level roll-up of all entries.
type PortfolioAnalysis struct {
	TotalArticles    int       `json:"total_articles" validate:"gte=0"`
	HighImpactCount  int       `json:"high_impact_count" validate:"gte=0,ltefield=TotalArticles"`
	OverallSentiment Outlook   `json:"overall_sentiment" validate:"required,oneof=Bullish Bearish Neutral"`
	RiskLevel        Magnitude `json:"risk_level" validate:"required,oneof=High Medium Low"`
	KeyConcerns      []string  `json:"key_concerns"`
	Opportunities    []string  `json:"opportunities"`
	Recommendations  []string  `json:"recommendations"`
}

// NewPortfolioAnalysis validates p and replaces nil lists with empty ones.
func NewPortfolioAnalysis(p PortfolioAnalysis) (PortfolioAnalysis, error) {
	if err := getValidator().Struct(p); err != nil {
		return PortfolioAnalysis{}, fmt.Errorf("invalid portfolio analysis: %w", err)
	}
	if p.KeyConcerns == nil {
		p.KeyConcerns = []string{}
	}
	if p.Opportunities == nil {
		p.Opportunities = []string{}
	}
	if p.Recommendations == nil {
		p.Recommendations = []string{}
	}
	return p, nil
}

// AssetMetrics summarizes the entries of one asset.
type AssetMetrics struct {
	Asset             string    `json:"asset"`
	ArticleCount      int       `json:"article_count"`
	DominantSentiment Sentiment `json:"dominant_sentiment"`
	AverageImpact     Magnitude `json:"average_impact"`
	AverageConfidence float64   `json:"average_confidence"`
}

// AnalysisResult is the complete output of one portfolio analysis.
type AnalysisResult struct {
	Timestamp         string            `json:"timestamp"`
	AssetsAnalyzed    []string          `json:"assets_analyzed"`
	NewsEntries       []NewsEntry       `json:"news_entries"`
	PortfolioAnalysis PortfolioAnalysis `json:"portfolio_analysis"`
	AssetMetrics      []AssetMetrics    `json:"asset_metrics"`
}

// SummaryStats are headline counts derived from an AnalysisResult.
type SummaryStats struct {
	TotalAssets           int               `json:"total_assets"`
	TotalArticles         int               `json:"total_articles"`
	HighImpactArticles    int               `json:"high_impact_articles"`
	SentimentDistribution map[Sentiment]int `json:"sentiment_distribution"`
}

// SummaryStats computes headline counts for r.
func (r *AnalysisResult) SummaryStats() SummaryStats {
	stats := SummaryStats{
		TotalAssets:           len(r.AssetsAnalyzed),
		TotalArticles:         len(r.NewsEntries),
		SentimentDistribution: make(map[Sentiment]int, len(Sentiments)),
	}
	for _, s := range Sentiments {
		stats.SentimentDistribution[s] = 0
	}
	for _, e := range r.NewsEntries {
		if e.ImpactMagnitude == MagnitudeHigh {
			stats.HighImpactArticles++
		}
		stats.SentimentDistribution[e.Sentiment]++
	}
	return stats
}

// Now returns the current UTC time as an ISO-8601 string.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
