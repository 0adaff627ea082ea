package news

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/user/news-impact-tracker/internal/ratelimit"
	"github.com/user/news-impact-tracker/internal/scraper"
)

// NoTitle replaces a missing article title.
const NoTitle = "(No title available)"

// maxBackendResults caps the number of hits requested per attempt.
const maxBackendResults = 30

// Client searches a Backend and turns its hits into trusted articles.
type Client struct {
	backend  Backend
	filter   *scraper.DomainFilter
	metadata MetadataSource
	limiter  *ratelimit.Limiter
	policy   RetryPolicy
	region   string
	logger   zerolog.Logger
	now      func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *Client) {
		c.policy = p
	}
}

// WithRegion sets the backend region, e.g. "us-en".
func WithRegion(region string) ClientOption {
	return func(c *Client) {
		c.region = region
	}
}

// NewClient creates a search client. metadata may be nil to disable page
// augmentation.
func NewClient(backend Backend, filter *scraper.DomainFilter, metadata MetadataSource, limiter *ratelimit.Limiter, logger zerolog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		backend:  backend,
		filter:   filter,
		metadata: metadata,
		limiter:  limiter,
		policy:   DefaultRetryPolicy(),
		region:   "us-en",
		logger:   logger.With().Str("component", "news_client").Logger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.limiter == nil {
		c.limiter = ratelimit.New(0)
	}
	return c
}

// Search returns up to maxResults allow-listed articles for query. Backend
// failures are retried and, once the attempts are exhausted, replaced by
// FallbackArticles. The error is non-nil only when ctx is done.
func (c *Client) Search(ctx context.Context, query string, maxResults, timeFilterDays int) ([]RawArticle, error) {
	q := Query{
		Text:       query,
		Region:     c.region,
		TimeLimit:  TimeLimitForDays(timeFilterDays),
		MaxResults: min(2*maxResults, maxBackendResults),
	}

	policy := c.policy
	policy.OnRetry = func(attempt int, delay time.Duration, lastErr error) {
		if IsRateLimitError(lastErr) {
			c.logger.Warn().Err(lastErr).Int("attempt", attempt+1).Dur("backoff", delay).Str("query", query).Msg("rate limited, backing off")
			return
		}
		c.logger.Warn().Err(lastErr).Int("attempt", attempt+1).Dur("backoff", delay).Str("query", query).Msg("search failed, retrying")
	}

	var articles []RawArticle
	err := Retry(ctx, policy, func(ctx context.Context, attempt int) error {
		found, err := c.searchOnce(ctx, q, maxResults)
		if err != nil {
			return err
		}
		articles = found
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error().Err(err).Str("query", query).Msg("all search attempts failed, using fallback articles")
		return FallbackArticles(query, c.now()), nil
	}

	c.logger.Debug().Str("query", query).Int("articles", len(articles)).Msg("search completed")
	return articles, nil
}

// searchOnce performs a single rate-limited backend call and filters its
// hits.
func (c *Client) searchOnce(ctx context.Context, q Query, maxResults int) ([]RawArticle, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	hits, err := c.backend.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	now := c.now()
	articles := make([]RawArticle, 0, maxResults)
	for _, hit := range hits {
		if len(articles) >= maxResults {
			break
		}
		article, ok := c.accept(ctx, hit, now)
		if !ok {
			continue
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// accept applies the domain allow-list and metadata augmentation to hit.
func (c *Client) accept(ctx context.Context, hit Hit, now time.Time) (RawArticle, bool) {
	url := strings.TrimSpace(hit.URL)
	if url == "" {
		return RawArticle{}, false
	}
	domain, ok := c.filter.Allow(url)
	if !ok {
		c.logger.Debug().Str("url", url).Str("domain", domain).Msg("skipping non-allow-listed domain")
		return RawArticle{}, false
	}

	title := strings.TrimSpace(hit.Title)
	description := strings.TrimSpace(hit.Body)
	if (title == "" || description == "") && c.metadata != nil {
		scrapedTitle, scrapedDescription := c.metadata.Fetch(ctx, url)
		if title == "" {
			title = strings.TrimSpace(scrapedTitle)
		}
		if description == "" {
			description = strings.TrimSpace(scrapedDescription)
		}
	}
	if title == "" && description == "" {
		return RawArticle{}, false
	}
	if title == "" {
		title = NoTitle
	}

	date := strings.TrimSpace(hit.Date)
	if date == "" {
		date = now.UTC().Format(time.DateOnly)
	}

	return RawArticle{
		Title:       title,
		Description: description,
		URL:         url,
		Source:      domain,
		PublishedAt: NormalizeTimestamp(date, now),
	}, true
}
