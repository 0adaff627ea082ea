// Package news searches external backends for asset news and filters the
// results down to trusted, normalized articles.
package news

import "context"

// RawArticle is an accepted search result before analysis. URL and Source
// are never empty.
type RawArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	Asset       string `json:"asset"`
}

// Query is a request to a search backend.
type Query struct {
	Text       string
	Region     string
	TimeLimit  string // "d" or "w"
	MaxResults int
}

// Hit is an unfiltered result as returned by a backend.
type Hit struct {
	Title string
	Body  string
	URL   string
	Date  string
}

// Backend is a news search capability. Implementations report rate limiting
// through the error text (see IsRateLimitError).
type Backend interface {
	Name() string
	Search(ctx context.Context, q Query) ([]Hit, error)
}

// MetadataSource returns the title and description of a page, empty when
// unavailable.
type MetadataSource interface {
	Fetch(ctx context.Context, url string) (title, description string)
}
