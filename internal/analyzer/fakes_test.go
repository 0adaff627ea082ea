package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/news-impact-tracker/internal/llm"
	"github.com/user/news-impact-tracker/internal/models"
	"github.com/user/news-impact-tracker/internal/news"
)

type fakeProvider struct {
	reply       string
	err         error
	block       bool
	unavailable bool

	requests []llm.Request
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return !f.unavailable }

func (f *fakeProvider) Generate(ctx context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

type stubStrategy struct {
	name    string
	entries []models.NewsEntry
	err     error
	calls   int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Analyze(ctx context.Context, articles []news.RawArticle, assets []string) ([]models.NewsEntry, models.PortfolioAnalysis, error) {
	s.calls++
	if s.err != nil {
		return nil, models.PortfolioAnalysis{}, s.err
	}
	return s.entries, models.PortfolioAnalysis{TotalArticles: len(s.entries), OverallSentiment: models.OutlookNeutral, RiskLevel: models.MagnitudeLow}, nil
}

var errBoom = errors.New("boom")

func makeArticles(asset string, n int) []news.RawArticle {
	articles := make([]news.RawArticle, n)
	for i := range articles {
		articles[i] = news.RawArticle{
			Title:       fmt.Sprintf("%s headline %d", asset, i),
			Description: "Quarterly results",
			URL:         fmt.Sprintf("https://www.reuters.com/%s/%d", asset, i),
			Source:      "reuters.com",
			PublishedAt: "2024-05-01T12:00:00Z",
			Asset:       asset,
		}
	}
	return articles
}
