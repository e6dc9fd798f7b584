package fingerprint

import (
	"context"
	"sync"
)

// Mock is a Fingerprinter backed by fixed results, for tests.
type Mock struct {
	Results map[string]Result
	Errors  map[string]error

	mu    sync.Mutex
	calls []string
}

// Verify Mock implements Fingerprinter at compile time.
var _ Fingerprinter = (*Mock)(nil)

// Fingerprint returns the configured result for path. Paths with neither a
// result nor an error yield ErrNoFingerprint.
func (m *Mock) Fingerprint(ctx context.Context, path string) (Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, path)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err, ok := m.Errors[path]; ok {
		return Result{}, err
	}
	if res, ok := m.Results[path]; ok {
		return res, nil
	}
	return Result{}, ErrNoFingerprint
}

// Calls returns the paths fingerprinted so far, in call order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
