package news

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// SymbolPlaceholder in a feed template is replaced with the query symbol.
const SymbolPlaceholder = "{symbol}"

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// Feeds searches a fixed set of RSS/Atom feeds. Templates containing
// SymbolPlaceholder are per-symbol feeds; the others are general feeds whose
// items are kept only when they mention the symbol.
type Feeds struct {
	templates []string
	parser    *gofeed.Parser
	now       func() time.Time
}

// NewFeeds creates a feed backend over the given URL templates.
func NewFeeds(templates []string, client *http.Client, userAgent string) *Feeds {
	parser := gofeed.NewParser()
	if client != nil {
		parser.Client = client
	}
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &Feeds{
		templates: templates,
		parser:    parser,
		now:       time.Now,
	}
}

// Name returns the backend name.
func (f *Feeds) Name() string {
	return "feeds"
}

// Search collects recent feed items about the query's symbol. It fails only
// when every feed fails.
func (f *Feeds) Search(ctx context.Context, q Query) ([]Hit, error) {
	if len(f.templates) == 0 {
		return nil, Permanent(errors.New("no feeds configured"))
	}

	symbol := querySymbol(q.Text)
	cutoff := f.now().Add(-windowForTimeLimit(q.TimeLimit))
	mention := mentionPattern(symbol)

	var hits []Hit
	var errs []error
	for _, tmpl := range f.templates {
		perSymbol := strings.Contains(tmpl, SymbolPlaceholder)
		feedURL := strings.ReplaceAll(tmpl, SymbolPlaceholder, url.QueryEscape(symbol))

		feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to parse feed %s: %w", feedURL, err))
			continue
		}

		for _, item := range feed.Items {
			published := item.PublishedParsed
			if published == nil {
				published = item.UpdatedParsed
			}
			if published != nil && published.Before(cutoff) {
				continue
			}

			description := stripHTML(item.Description)
			if !perSymbol && (mention == nil || !mention.MatchString(item.Title+" "+description)) {
				continue
			}

			hit := Hit{
				Title: strings.TrimSpace(item.Title),
				Body:  description,
				URL:   strings.TrimSpace(item.Link),
			}
			if published != nil {
				hit.Date = published.UTC().Format(time.RFC3339)
			}
			hits = append(hits, hit)

			if q.MaxResults > 0 && len(hits) >= q.MaxResults {
				return hits, nil
			}
		}
	}

	if len(errs) == len(f.templates) {
		return nil, errors.Join(errs...)
	}
	return hits, nil
}

// querySymbol returns the first token of a query such as "AAPL financial news".
func querySymbol(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// mentionPattern matches symbol as a whole word, case-insensitively.
func mentionPattern(symbol string) *regexp.Regexp {
	if symbol == "" {
		return nil
	}
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(symbol) + `\b`)
}

// stripHTML removes HTML tags and entities from feed text.
func stripHTML(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(s)
}
