package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoBackends is returned when no search backend is configured.
var ErrNoBackends = errors.New("no search backends configured")

// MultiBackend queries several backends in order and merges their hits.
type MultiBackend struct {
	backends []Backend
}

// NewMultiBackend creates a backend over the given backends.
func NewMultiBackend(backends ...Backend) *MultiBackend {
	return &MultiBackend{backends: backends}
}

// Name returns the backend name.
func (m *MultiBackend) Name() string {
	return "multi"
}

// Search merges hits de-duplicated by URL until q.MaxResults is reached. It
// fails only if every backend fails, returning all their errors joined.
func (m *MultiBackend) Search(ctx context.Context, q Query) ([]Hit, error) {
	if len(m.backends) == 0 {
		return nil, Permanent(ErrNoBackends)
	}

	var hits []Hit
	var errs []error
	seen := make(map[string]struct{})
	succeeded := false

	for _, b := range m.backends {
		if q.MaxResults > 0 && len(hits) >= q.MaxResults {
			break
		}

		found, err := b.Search(ctx, q)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		succeeded = true

		for _, hit := range found {
			if _, dup := seen[hit.URL]; dup {
				continue
			}
			seen[hit.URL] = struct{}{}
			hits = append(hits, hit)
			if q.MaxResults > 0 && len(hits) >= q.MaxResults {
				break
			}
		}
	}

	if !succeeded {
		return nil, errors.Join(errs...)
	}
	return hits, nil
}

// NewBackend builds the backend named by names: a single backend directly,
// several wrapped in a MultiBackend.
func NewBackend(names []string, client *http.Client, userAgent string, feeds []string) (Backend, error) {
	var backends []Backend
	for _, name := range names {
		switch name {
		case "duckduckgo":
			backends = append(backends, NewDuckDuckGo("", client, userAgent))
		case "feeds":
			backends = append(backends, NewFeeds(feeds, client, userAgent))
		default:
			return nil, fmt.Errorf("unknown search backend: %s", name)
		}
	}

	switch len(backends) {
	case 0:
		return nil, ErrNoBackends
	case 1:
		return backends[0], nil
	default:
		return NewMultiBackend(backends...), nil
	}
}
