// Package fingerprint computes acoustic fingerprints of audio files.
package fingerprint

import (
	"context"
	"errors"
)

var (
	// ErrNotInstalled means the fingerprinting tool is not on PATH.
	ErrNotInstalled = errors.New("fpcalc not found in PATH (install chromaprint)")
	// ErrNoFingerprint means the tool ran but produced no usable result.
	ErrNoFingerprint = errors.New("no fingerprint produced")
)

// Result is the content identity of one audio file.
type Result struct {
	Duration    string
	Fingerprint string
}

// Fingerprinter computes a Result for one file. Implementations must be safe
// for concurrent use.
type Fingerprinter interface {
	Fingerprint(ctx context.Context, path string) (Result, error)
}
