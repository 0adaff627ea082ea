package news

import (
	"fmt"
	"strings"
	"time"
)

// fallbackTickers are matched against the query, in order, to name the
// asset of the canned fallback articles.
var fallbackTickers = []string{"AAPL", "MSFT", "GOOGL", "TSLA", "BTC", "GOLD", "SPY", "QQQ"}

// InferTicker returns the first well-known ticker contained in query, or
// "MARKET".
func InferTicker(query string) string {
	upper := strings.ToUpper(query)
	for _, ticker := range fallbackTickers {
		if strings.Contains(upper, ticker) {
			return ticker
		}
	}
	return "MARKET"
}

// FallbackArticles returns placeholder articles used when the search
// backends cannot be reached.
func FallbackArticles(query string, now time.Time) []RawArticle {
	asset := InferTicker(query)
	today := now.UTC().Format(time.DateOnly)

	return []RawArticle{
		{
			Title:       fmt.Sprintf("Market Analysis: %s Shows Mixed Signals Amid Economic Uncertainty", asset),
			Description: fmt.Sprintf("Recent market movements for %s reflect broader economic trends.", asset),
			URL:         "https://www.marketwatch.com/fallback-demo",
			Source:      "marketwatch.com",
			PublishedAt: today,
		},
		{
			Title:       fmt.Sprintf("Institutional Investors Adjust %s Holdings as Market Volatility Persists", asset),
			Description: fmt.Sprintf("Portfolio managers are reassessing positions in %s.", asset),
			URL:         "https://www.bloomberg.com/fallback-demo",
			Source:      "bloomberg.com",
			PublishedAt: today,
		},
	}
}
