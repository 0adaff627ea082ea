package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DuckDuckGoURL is the endpoint of DuckDuckGo's JavaScript-free results page.
const DuckDuckGoURL = "https://html.duckduckgo.com/html/"

// RateLimitError is returned when a backend signals throttling.
type RateLimitError struct {
	Backend    string
	StatusCode int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited (status %d)", e.Backend, e.StatusCode)
}

// DuckDuckGo searches DuckDuckGo's HTML results page.
type DuckDuckGo struct {
	baseURL   string
	client    *http.Client
	userAgent string
}

// NewDuckDuckGo creates a DuckDuckGo backend. An empty baseURL uses
// DuckDuckGoURL.
func NewDuckDuckGo(baseURL string, client *http.Client, userAgent string) *DuckDuckGo {
	if baseURL == "" {
		baseURL = DuckDuckGoURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &DuckDuckGo{
		baseURL:   baseURL,
		client:    client,
		userAgent: userAgent,
	}
}

// Name returns the backend name.
func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

// Search runs q against DuckDuckGo and returns the organic results.
func (d *DuckDuckGo) Search(ctx context.Context, q Query) ([]Hit, error) {
	params := url.Values{}
	params.Set("q", q.Text)
	if q.Region != "" {
		params.Set("kl", q.Region)
	}
	if q.TimeLimit != "" {
		params.Set("df", q.TimeLimit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer resp.Body.Close()

	switch {
	// DuckDuckGo answers throttled clients with a 202 anomaly page.
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusAccepted:
		return nil, &RateLimitError{Backend: d.Name(), StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("duckduckgo returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}

	var hits []Hit
	doc.Find(".result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if sel.HasClass("result--ad") {
			return true
		}
		link := sel.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}

		hits = append(hits, Hit{
			Title: strings.TrimSpace(link.Text()),
			Body:  strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
			URL:   unwrapRedirect(href),
			Date:  strings.TrimSpace(sel.Find(".result__timestamp").First().Text()),
		})
		return q.MaxResults <= 0 || len(hits) < q.MaxResults
	})

	return hits, nil
}

// unwrapRedirect resolves DuckDuckGo's /l/?uddg= tracking links to the
// target URL.
func unwrapRedirect(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
