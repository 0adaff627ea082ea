package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rssFeed(items ...string) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>test</title>`
	for _, item := range items {
		body += item
	}
	return body + `</channel></rss>`
}

func rssItem(title, link, description string, published time.Time) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link><description>%s</description><pubDate>%s</pubDate></item>`,
		title, link, description, published.Format(time.RFC1123Z))
}

func TestFeeds_Search(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var gotSymbol string
	mux := http.NewServeMux()
	mux.HandleFunc("/symbol", func(w http.ResponseWriter, r *http.Request) {
		gotSymbol = r.URL.Query().Get("s")
		fmt.Fprint(w, rssFeed(
			rssItem("Apple earnings", "https://finance.yahoo.com/news/apple-earnings", "&lt;p&gt;Strong &amp;amp; steady&lt;/p&gt;", now.Add(-2*time.Hour)),
			rssItem("Old Apple story", "https://finance.yahoo.com/news/old", "stale", now.Add(-72*time.Hour)),
		))
	})
	mux.HandleFunc("/general", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(
			rssItem("AAPL hits record", "https://www.cnbc.com/aapl-record", "tech rally", now.Add(-time.Hour)),
			rssItem("Oil slides", "https://www.cnbc.com/oil", "crude falls", now.Add(-time.Hour)),
			rssItem("Snapple sales", "https://www.cnbc.com/snapple", "not a match", now.Add(-time.Hour)),
		))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewFeeds([]string{srv.URL + "/symbol?s={symbol}", srv.URL + "/general"}, srv.Client(), "test-agent")
	f.now = func() time.Time { return now }

	hits, err := f.Search(context.Background(), Query{Text: "aapl financial news", TimeLimit: "d", MaxResults: 10})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", gotSymbol)
	require.Len(t, hits, 2)
	assert.Equal(t, "Apple earnings", hits[0].Title)
	assert.Equal(t, "Strong & steady", hits[0].Body)
	assert.Equal(t, now.Add(-2*time.Hour).Format(time.RFC3339), hits[0].Date)
	assert.Equal(t, "https://www.cnbc.com/aapl-record", hits[1].URL)
}

func TestFeeds_WeekWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(rssItem("MSFT update", "https://www.reuters.com/msft", "cloud", now.Add(-72*time.Hour))))
	}))
	defer srv.Close()

	f := NewFeeds([]string{srv.URL + "/{symbol}"}, srv.Client(), "")
	f.now = func() time.Time { return now }

	hits, err := f.Search(context.Background(), Query{Text: "MSFT financial news", TimeLimit: "w"})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestFeeds_AllFeedsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewFeeds([]string{srv.URL + "/a", srv.URL + "/b"}, srv.Client(), "")
	_, err := f.Search(context.Background(), Query{Text: "AAPL"})
	assert.Error(t, err)
}

func TestFeeds_NoTemplates(t *testing.T) {
	_, err := NewFeeds(nil, nil, "").Search(context.Background(), Query{Text: "AAPL"})
	require.Error(t, err)
	assert.False(t, IsRetryable(err))
}
