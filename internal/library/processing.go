package library

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/trackerhelper/internal/fingerprint"
)

// fileResult is the outcome of fingerprinting one file.
type fileResult struct {
	file File
	res  fingerprint.Result
	err  error
}

// fingerprintFiles runs the fingerprinter over files with at most jobs
// concurrent invocations. Results come back in completion order. Per-file
// failures are carried in the results; only cancellation aborts the pool.
func (l *Library) fingerprintFiles(
	ctx context.Context,
	files []File,
	jobs int,
	progress chan<- ScanProgress,
) ([]fileResult, error) {
	total := len(files)
	if jobs <= 0 {
		jobs = 1
	}

	resultCh := make(chan fileResult, total)
	var processed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	// Progress reporter
	done := make(chan struct{})
	reporterDone := make(chan struct{})
	go func() {
		defer close(reporterDone)
		if progress == nil {
			return
		}
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sendProgress(ctx, progress, ScanProgress{
					Phase:   PhaseFingerprinting,
					Current: int(processed.Load()),
					Total:   total,
				})
			case <-done:
				return
			}
		}
	}()

	for _, f := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := l.fp.Fingerprint(gctx, f.Path)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			resultCh <- fileResult{file: f, res: res, err: err}
			processed.Add(1)
			return nil
		})
	}

	err := g.Wait()
	close(done)
	<-reporterDone
	close(resultCh)

	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	results := make([]fileResult, 0, total)
	for r := range resultCh {
		if r.err != nil {
			if errors.Is(r.err, fingerprint.ErrNotInstalled) {
				return nil, r.err
			}
			l.log.Debug("fingerprint failed", zap.String("path", r.file.Path), zap.Error(r.err))
		}
		results = append(results, r)
	}

	sendProgress(ctx, progress, ScanProgress{Phase: PhaseFingerprinting, Current: total, Total: total})
	return results, nil
}

// sendProgress delivers p unless the consumer is gone.
func sendProgress(ctx context.Context, progress chan<- ScanProgress, p ScanProgress) {
	if progress == nil {
		return
	}
	select {
	case progress <- p:
	case <-ctx.Done():
	}
}

func sortFailures(failures []Failure) {
	slices.SortFunc(failures, func(a, b Failure) int { return strings.Compare(a.Path, b.Path) })
}
