package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/user/news-impact-tracker/internal/llm"
	"github.com/user/news-impact-tracker/internal/models"
	"github.com/user/news-impact-tracker/internal/news"
)

// DefaultLLMTimeout bounds a whole LLM analysis call.
const DefaultLLMTimeout = 60 * time.Second

// promptDescriptionLength clips article descriptions in the prompt.
const promptDescriptionLength = 200

const systemPrompt = `You are a financial news analyst. Analyze news articles for a portfolio of assets.

Return a JSON object with:
1. "news_entries": Array of analyzed news items
2. "portfolio_analysis": Overall portfolio assessment

Each news entry must have: asset, title, summary, source, url, published_at,
sentiment (Positive/Negative/Neutral), impact_timeframe (Short-Term/Medium-Term/Long-Term),
impact_magnitude (High/Medium/Low), confidence_score (0.0-1.0)

Portfolio analysis must have: total_articles, high_impact_count,
overall_sentiment (Bullish/Bearish/Neutral), risk_level (High/Medium/Low),
key_concerns, opportunities, recommendations (all as arrays)

Be concise and return valid JSON only.`

// llmResponse is the document the model is asked to return.
type llmResponse struct {
	NewsEntries       []json.RawMessage         `json:"news_entries"`
	PortfolioAnalysis *models.PortfolioAnalysis `json:"portfolio_analysis"`
}

// LLMStrategy asks a language model for the whole analysis in one call.
type LLMStrategy struct {
	provider    llm.Provider
	maxArticles int
	timeout     time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewLLMStrategy creates an LLM strategy. maxArticles <= 0 uses
// DefaultMaxArticles and timeout <= 0 uses DefaultLLMTimeout.
func NewLLMStrategy(provider llm.Provider, maxArticles int, timeout time.Duration, logger zerolog.Logger) *LLMStrategy {
	if timeout <= 0 {
		timeout = DefaultLLMTimeout
	}
	return &LLMStrategy{
		provider:    provider,
		maxArticles: maxArticles,
		timeout:     timeout,
		logger:      logger.With().Str("component", "llm_strategy").Str("provider", provider.Name()).Logger(),
		now:         time.Now,
	}
}

// Name returns the strategy name.
func (s *LLMStrategy) Name() string {
	return "llm_" + s.provider.Name()
}

// Reachable reports whether the provider answers its availability check.
func (s *LLMStrategy) Reachable(ctx context.Context) bool {
	ok := s.provider.IsAvailable(ctx)
	if !ok {
		s.logger.Warn().Msg("provider unreachable")
	}
	return ok
}

// Analyze sends a bounded prompt to the provider and validates the reply.
// Individual malformed or invalid entries are dropped; an unparseable reply or invalid
// portfolio analysis fails the whole call.
func (s *LLMStrategy) Analyze(ctx context.Context, articles []news.RawArticle, assets []string) ([]models.NewsEntry, models.PortfolioAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := s.now().UTC().Format(time.RFC3339)
	text, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Prompt: buildPrompt(limitArticles(articles, s.maxArticles), assets, len(articles), now),
	})
	if err != nil {
		return nil, models.PortfolioAnalysis{}, fmt.Errorf("llm request failed: %w", err)
	}

	entries, analysis, err := s.parse(text, now)
	if err != nil {
		return nil, models.PortfolioAnalysis{}, err
	}
	return entries, analysis, nil
}

// parse extracts and validates the model reply.
func (s *LLMStrategy) parse(text, now string) ([]models.NewsEntry, models.PortfolioAnalysis, error) {
	var resp llmResponse
	if err := llm.ExtractJSON(text, &resp); err != nil {
		return nil, models.PortfolioAnalysis{}, err
	}
	if resp.PortfolioAnalysis == nil {
		return nil, models.PortfolioAnalysis{}, fmt.Errorf("%w: missing portfolio_analysis", llm.ErrUnparseableResponse)
	}

	entries := make([]models.NewsEntry, 0, len(resp.NewsEntries))
	for i, msg := range resp.NewsEntries {
		var raw map[string]any
		if err := json.Unmarshal(msg, &raw); err != nil || raw == nil {
			s.logger.Warn().Err(err).Int("index", i).Msg("skipping malformed news entry")
			continue
		}
		entry, err := models.NewNewsEntry(NormalizeEntry(raw, now))
		if err != nil {
			s.logger.Warn().Err(err).Int("index", i).Msg("skipping invalid news entry")
			continue
		}
		entries = append(entries, entry)
	}

	analysis, err := models.NewPortfolioAnalysis(*resp.PortfolioAnalysis)
	if err != nil {
		return nil, models.PortfolioAnalysis{}, err
	}
	return entries, analysis, nil
}

// buildPrompt lists the articles and embeds an example of the reply.
func buildPrompt(articles []news.RawArticle, assets []string, total int, now string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Analyze this financial news data for portfolio assets: %s\n\nNews Data:\n", strings.Join(assets, ", "))
	for _, a := range articles {
		fmt.Fprintf(&sb, "Asset: %s, Title: %s, Source: %s, URL: %s, Published: %s, Description: %s...\n",
			a.Asset, a.Title, a.Source, a.URL, a.PublishedAt, truncateRunes(a.Description, promptDescriptionLength))
	}

	fmt.Fprintf(&sb, `
Return JSON with this exact structure:
{
  "news_entries": [
    {
      "asset": "AAPL",
      "title": "Title",
      "summary": "Impact summary",
      "source": "source.com",
      "url": "https://...",
      "published_at": "%s",
      "sentiment": "Positive",
      "impact_timeframe": "Medium-Term",
      "impact_magnitude": "High",
      "confidence_score": 0.85
    }
  ],
  "portfolio_analysis": {
    "total_articles": %d,
    "high_impact_count": 0,
    "overall_sentiment": "Bullish",
    "risk_level": "Medium",
    "key_concerns": ["concern1", "concern2"],
    "opportunities": ["opportunity1", "opportunity2"],
    "recommendations": ["recommendation1", "recommendation2"]
  }
}

Respond ONLY with the JSON, no additional text.`, now, total)

	return sb.String()
}

// IsTimeout reports whether err came from the analysis deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
