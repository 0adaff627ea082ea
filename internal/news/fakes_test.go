package news

import (
	"context"
	"sync"
)

type fakeBackend struct {
	name string
	hits []Hit
	errs []error

	mu      sync.Mutex
	calls   int
	queries []Query
}

func (f *fakeBackend) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeBackend) Search(ctx context.Context, q Query) ([]Hit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := f.calls
	f.calls++
	f.queries = append(f.queries, q)
	if call < len(f.errs) && f.errs[call] != nil {
		return nil, f.errs[call]
	}
	return f.hits, nil
}

type fakeMetadata struct {
	title, description string
	calls              []string
}

func (f *fakeMetadata) Fetch(ctx context.Context, url string) (string, string) {
	f.calls = append(f.calls, url)
	return f.title, f.description
}
