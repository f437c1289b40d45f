package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
)

// MockArtifactFetcher serves artifacts from memory. Unknown URLs fail.
// It is safe for concurrent use.
type MockArtifactFetcher struct {
	mu        sync.Mutex
	artifacts map[string][]byte
	errs      map[string]error
	calls     map[string]int

	// FetchFunc, when set, replaces the lookup.
	FetchFunc func(ctx context.Context, url string) ([]byte, error)
}

// NewMockArtifactFetcher creates an empty fetcher.
func NewMockArtifactFetcher() *MockArtifactFetcher {
	return &MockArtifactFetcher{
		artifacts: make(map[string][]byte),
		errs:      make(map[string]error),
		calls:     make(map[string]int),
	}
}

// WithArtifact serves data at url.
func (m *MockArtifactFetcher) WithArtifact(url string, data []byte) *MockArtifactFetcher {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts[url] = data
	return m
}

// WithError makes url fail with err.
func (m *MockArtifactFetcher) WithError(url string, err error) *MockArtifactFetcher {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[url] = err
	return m
}

// FetchArtifact returns the artifact registered for url.
func (m *MockArtifactFetcher) FetchArtifact(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	m.calls[url]++
	fn := m.FetchFunc
	data, ok := m.artifacts[url]
	err := m.errs[url]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, url)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("artifact %s: status 404", url)
	}
	return data, nil
}

// Calls returns how often url was fetched.
func (m *MockArtifactFetcher) Calls(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[url]
}

// TotalCalls returns the number of fetches across all URLs.
func (m *MockArtifactFetcher) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

var _ ports.ArtifactFetcher = (*MockArtifactFetcher)(nil)
