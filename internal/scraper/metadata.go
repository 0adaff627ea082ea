// Package scraper fetches article pages and checks their source domains.
package scraper

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/user/news-impact-tracker/internal/ratelimit"
)

// descriptionSelectors are tried in order; the first present tag wins.
var descriptionSelectors = []string{
	`meta[name="description"]`,
	`meta[property="og:description"]`,
	`meta[name="twitter:description"]`,
}

// MetadataFetcher scrapes the title and description of article pages.
type MetadataFetcher struct {
	client    *http.Client
	limiter   *ratelimit.Limiter
	userAgent string
	logger    zerolog.Logger
}

// NewMetadataFetcher creates a fetcher. The limiter is waited on before every
// request.
func NewMetadataFetcher(client *http.Client, limiter *ratelimit.Limiter, userAgent string, logger zerolog.Logger) *MetadataFetcher {
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	return &MetadataFetcher{
		client:    client,
		limiter:   limiter,
		userAgent: userAgent,
		logger:    logger.With().Str("component", "metadata_fetcher").Logger(),
	}
}

// Fetch returns the page title and description of url. Every failure
// degrades to empty strings; it never returns an error.
func (f *MetadataFetcher) Fetch(ctx context.Context, url string) (title, description string) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", ""
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", url).Msg("failed to build metadata request")
		return "", ""
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "429") || strings.Contains(msg, "rate") {
			f.logger.Warn().Str("url", url).Msg("rate limited while scraping")
		} else {
			f.logger.Warn().Err(err).Str("url", url).Msg("failed to scrape")
		}
		return "", ""
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		f.logger.Warn().Str("url", url).Msg("rate limited while scraping")
		return "", ""
	}
	if resp.StatusCode != http.StatusOK {
		f.logger.Debug().Int("status", resp.StatusCode).Str("url", url).Msg("metadata fetch returned non-200")
		return "", ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", url).Msg("failed to parse HTML")
		return "", ""
	}

	if sel := doc.Find("title").First(); sel.Length() > 0 {
		title = strings.TrimSpace(sel.Text())
	}

	for _, selector := range descriptionSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		content, _ := sel.Attr("content")
		description = strings.TrimSpace(content)
		break
	}

	return title, description
}
