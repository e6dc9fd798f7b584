package library

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/llehouerou/trackerhelper/internal/dedupe"
)

// Scan phases reported on ScanOptions.Progress.
const (
	PhaseDiscovering    = "discovering"
	PhaseFingerprinting = "fingerprinting"
	PhaseCaching        = "caching"
	PhaseDone           = "done"
)

// ScanProgress reports the progress of a scan.
type ScanProgress struct {
	Phase   string
	Current int
	Total   int
}

// ScanStats holds counters for a completed scan.
type ScanStats struct {
	Files    int // audio files discovered
	Cached   int // fingerprints reused from the cache
	Computed int // fingerprints computed this run
	Failed   int // files the fingerprinter could not handle
	Pruned   int // cache entries dropped for vanished files
}

// Failure is a file that could not be fingerprinted.
type Failure struct {
	Path string
	Err  error
}

// ScanResult is the full set of fingerprint rows of one scan, sorted by path.
type ScanResult struct {
	Rows     []dedupe.Row
	Failures []Failure
	Stats    ScanStats
}

// ScanOptions controls a scan.
type ScanOptions struct {
	Roots []string
	Exts  ExtSet
	Jobs  int
	// Progress, when set, receives updates and is closed when Scan returns.
	Progress chan<- ScanProgress
}

// Scan discovers audio files under the roots and fingerprints them. Files
// whose size and mtime match the cache reuse the stored fingerprint.
// Fingerprint failures are counted and skipped; a scan producing no rows at
// all fails with ErrNoFingerprints.
func (l *Library) Scan(ctx context.Context, opts ScanOptions) (*ScanResult, error) {
	if opts.Progress != nil {
		defer close(opts.Progress)
	}

	sendProgress(ctx, opts.Progress, ScanProgress{Phase: PhaseDiscovering})
	files, err := Discover(opts.Roots, opts.Exts)
	if err != nil {
		return nil, err
	}
	l.log.Info("audio files discovered", zap.Int("files", len(files)), zap.Strings("roots", opts.Roots))

	result := &ScanResult{Stats: ScanStats{Files: len(files)}}

	// Cache keys are absolute so relative roots survive a change of directory.
	absRoots := make([]string, len(opts.Roots))
	for i, r := range opts.Roots {
		absRoots[i] = absPath(r)
	}

	var cached map[string]cacheEntry
	if l.db != nil {
		cached, err = l.cachedEntries(ctx, absRoots)
		if err != nil {
			return nil, fmt.Errorf("read fingerprint cache: %w", err)
		}
	}

	// Split into cache hits and files to fingerprint
	toProcess := make([]File, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		key := absPath(f.Path)
		seen[key] = struct{}{}
		if e, ok := cached[key]; ok && e.matches(f) {
			result.Rows = append(result.Rows, dedupe.Row{
				Duration:    e.duration,
				Fingerprint: e.fingerprint,
				Path:        f.Path,
			})
			result.Stats.Cached++
			continue
		}
		toProcess = append(toProcess, f)
	}

	results, err := l.fingerprintFiles(ctx, toProcess, opts.Jobs, opts.Progress)
	if err != nil {
		return nil, err
	}

	fresh := make([]cacheEntry, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			result.Failures = append(result.Failures, Failure{Path: r.file.Path, Err: r.err})
			result.Stats.Failed++
			continue
		}
		result.Rows = append(result.Rows, dedupe.Row{
			Duration:    r.res.Duration,
			Fingerprint: r.res.Fingerprint,
			Path:        r.file.Path,
		})
		result.Stats.Computed++
		fresh = append(fresh, cacheEntry{
			path:        absPath(r.file.Path),
			size:        r.file.Size,
			mtime:       r.file.MTime,
			duration:    r.res.Duration,
			fingerprint: r.res.Fingerprint,
		})
	}

	if l.db != nil {
		sendProgress(ctx, opts.Progress, ScanProgress{Phase: PhaseCaching, Total: len(fresh)})
		if err := l.storeEntries(ctx, fresh); err != nil {
			l.log.Warn("failed to update fingerprint cache", zap.Error(err))
		}
		var vanished []string
		for path := range cached {
			if _, ok := seen[path]; !ok {
				vanished = append(vanished, path)
			}
		}
		if err := l.pruneEntries(ctx, vanished); err != nil {
			l.log.Warn("failed to prune fingerprint cache", zap.Error(err))
		} else {
			result.Stats.Pruned = len(vanished)
		}
	}

	dedupe.SortRows(result.Rows)
	sortFailures(result.Failures)

	l.log.Info("fingerprinting finished",
		zap.Int("rows", len(result.Rows)),
		zap.Int("cached", result.Stats.Cached),
		zap.Int("computed", result.Stats.Computed),
		zap.Int("failed", result.Stats.Failed),
	)

	sendProgress(ctx, opts.Progress, ScanProgress{Phase: PhaseDone, Current: len(files), Total: len(files)})

	if len(result.Rows) == 0 {
		return result, ErrNoFingerprints
	}
	return result, nil
}
