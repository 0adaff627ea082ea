package news

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/user/news-impact-tracker/internal/ratelimit"
)

// DefaultMaxAssets is the number of assets searched per portfolio when none
// is configured.
const DefaultMaxAssets = 10

// Searcher is the single-query search used by the Collector.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults, timeFilterDays int) ([]RawArticle, error)
}

// Collector gathers news for every asset of a portfolio.
type Collector struct {
	searcher  Searcher
	limiter   *ratelimit.Limiter
	maxAssets int
	logger    zerolog.Logger
}

// NewCollector creates a collector. limiter spaces the per-asset searches;
// maxAssets <= 0 uses DefaultMaxAssets.
func NewCollector(searcher Searcher, limiter *ratelimit.Limiter, maxAssets int, logger zerolog.Logger) *Collector {
	if limiter == nil {
		limiter = ratelimit.New(0)
	}
	if maxAssets <= 0 {
		maxAssets = DefaultMaxAssets
	}
	return &Collector{
		searcher:  searcher,
		limiter:   limiter,
		maxAssets: maxAssets,
		logger:    logger.With().Str("component", "collector").Logger(),
	}
}

// SearchPortfolio searches each asset in order and tags the articles with
// their asset. A failing asset is logged and skipped. When ctx is done the
// articles collected so far are returned with ctx's error.
func (c *Collector) SearchPortfolio(ctx context.Context, assets []string, maxArticlesPerAsset, timeFilterDays int) ([]RawArticle, error) {
	if len(assets) > c.maxAssets {
		c.logger.Warn().Int("requested", len(assets)).Int("max", c.maxAssets).Msg("too many assets, truncating")
		assets = assets[:c.maxAssets]
	}

	var all []RawArticle
	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		articles, err := c.searcher.Search(ctx, fmt.Sprintf("%s financial news", asset), maxArticlesPerAsset, timeFilterDays)
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			c.logger.Warn().Err(err).Str("asset", asset).Msg("news search failed for asset")
		} else {
			for i := range articles {
				articles[i].Asset = asset
			}
			all = append(all, articles...)
			c.logger.Info().Str("asset", asset).Int("articles", len(articles)).Msg("collected news")
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return all, err
		}
	}

	return all, nil
}
