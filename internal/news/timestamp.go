package news

import (
	"regexp"
	"strings"
	"time"
)

var (
	relativeTimePattern = regexp.MustCompile(`(?i)^\d+\s*(second|sec|minute|min|hour|hr|day|week|month|year)s?\b`)
	isoDatePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// NormalizeTimestamp keeps values that already start with an ISO date and
// replaces everything else (empty, relative "3 hours ago", free text) with
// now in UTC.
func NormalizeTimestamp(value string, now time.Time) string {
	value = strings.TrimSpace(value)
	current := now.UTC().Format(time.RFC3339)

	switch {
	case value == "":
		return current
	case relativeTimePattern.MatchString(value):
		return current
	case isoDatePattern.MatchString(value):
		return value
	default:
		return current
	}
}

// TimeLimitForDays maps a look-back window to the backend's coarse recency
// filter: up to three days searches the last day, four to seven the last week.
func TimeLimitForDays(days int) string {
	if days >= 4 && days <= 7 {
		return "w"
	}
	return "d"
}

// windowForTimeLimit is the look-back duration a time limit stands for.
func windowForTimeLimit(limit string) time.Duration {
	if limit == "w" {
		return 7 * 24 * time.Hour
	}
	return 24 * time.Hour
}
