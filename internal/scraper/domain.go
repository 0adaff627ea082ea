package scraper

import (
	"regexp"
	"strings"
)

// domainPattern captures the host of scheme://[www.]host/...
var domainPattern = regexp.MustCompile(`(?i)^https?://(?:www\.)?([^/]+)/`)

// ExtractDomain returns the canonical host of rawURL, or "" when the URL does
// not match the expected shape. The host is lower-cased and stripped of a
// leading "www.".
func ExtractDomain(rawURL string) string {
	match := domainPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if len(match) < 2 {
		return ""
	}
	return strings.ToLower(match[1])
}

// DomainFilter checks domains against an allow-list of trusted sources.
type DomainFilter struct {
	allowed map[string]struct{}
}

// NewDomainFilter creates a filter over the given domains.
func NewDomainFilter(domains []string) *DomainFilter {
	allowed := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			allowed[d] = struct{}{}
		}
	}
	return &DomainFilter{allowed: allowed}
}

// IsAllowed reports whether domain is exactly one of the allow-listed
// domains. Subdomains are not matched.
func (f *DomainFilter) IsAllowed(domain string) bool {
	if domain == "" {
		return false
	}
	_, ok := f.allowed[domain]
	return ok
}

// Allow extracts the domain of rawURL and returns it with its allow-list
// verdict.
func (f *DomainFilter) Allow(rawURL string) (string, bool) {
	domain := ExtractDomain(rawURL)
	return domain, f.IsAllowed(domain)
}
