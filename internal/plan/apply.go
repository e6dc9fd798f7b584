package plan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrConflictingModes means both move and delete were requested.
	ErrConflictingModes = errors.New("choose either move or delete, not both")
	// ErrNoMode means neither move nor delete was requested.
	ErrNoMode = errors.New("no apply mode: set a move target or delete")
)

// collisionLayout is appended to a moved release's name when the target
// already exists.
const collisionLayout = "20060102-150405"

// Options controls how a plan is applied.
type Options struct {
	MoveTo string // directory receiving moved releases
	Delete bool
	DryRun bool
	Logger *zap.Logger
	Now    func() time.Time // collision suffix clock; nil means time.Now
}

// Failure is a release that could not be moved or deleted.
type Failure struct {
	Release string
	Err     error
}

// Outcome counts what Apply did.
type Outcome struct {
	Moved    int
	Deleted  int
	Skipped  int // already gone from disk
	Failures []Failure
	Bytes    int64 // size of the releases moved or deleted
}

// Applied is the number of releases actually moved or deleted.
func (o Outcome) Applied() int {
	return o.Moved + o.Deleted
}

func (o Options) validate() error {
	switch {
	case o.MoveTo != "" && o.Delete:
		return ErrConflictingModes
	case o.MoveTo == "" && !o.Delete:
		return ErrNoMode
	}
	return nil
}

// Apply moves or deletes every redundant release of p that still exists.
// A failing release is recorded and the rest are still processed; nothing
// is rolled back. Cancelling ctx stops before the next release.
func Apply(ctx context.Context, p *Plan, opts Options) (Outcome, error) {
	var out Outcome
	if err := opts.validate(); err != nil {
		return out, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	if opts.MoveTo != "" && !opts.DryRun {
		if err := os.MkdirAll(opts.MoveTo, 0o755); err != nil {
			return out, fmt.Errorf("create move target: %w", err)
		}
	}

	for _, release := range p.Redundant {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		if _, err := os.Lstat(release); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug("release already gone", zap.String("release", release))
				out.Skipped++
				continue
			}
			out.Failures = append(out.Failures, Failure{Release: release, Err: err})
			continue
		}

		size := dirSize(release)

		if opts.Delete {
			if !opts.DryRun {
				if err := os.RemoveAll(release); err != nil {
					log.Warn("delete failed", zap.String("release", release), zap.Error(err))
					out.Failures = append(out.Failures, Failure{Release: release, Err: err})
					continue
				}
			}
			log.Info("deleted release", zap.String("release", release), zap.Bool("dry_run", opts.DryRun))
			out.Deleted++
			out.Bytes += size
			continue
		}

		var target string
		if opts.DryRun {
			target = freeTarget(filepath.Join(opts.MoveTo, filepath.Base(release)), now())
		} else {
			var err error
			target, err = moveRelease(release, opts.MoveTo, now())
			if err != nil {
				log.Warn("move failed", zap.String("release", release), zap.Error(err))
				out.Failures = append(out.Failures, Failure{Release: release, Err: err})
				continue
			}
		}
		log.Info("moved release",
			zap.String("release", release),
			zap.String("target", target),
			zap.Bool("dry_run", opts.DryRun))
		out.Moved++
		out.Bytes += size
	}
	return out, nil
}

// moveRelease moves src into dir and returns the final path. An existing
// entry with the same name gets a timestamp suffix instead of being replaced.
func moveRelease(src, dir string, now time.Time) (string, error) {
	target := freeTarget(filepath.Join(dir, filepath.Base(src)), now)

	err := os.Rename(src, target)
	if err == nil {
		return target, nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return "", err
	}

	// Different filesystem: copy then remove.
	if err := os.CopyFS(target, os.DirFS(src)); err != nil {
		_ = os.RemoveAll(target)
		return "", fmt.Errorf("copy to %s: %w", target, err)
	}
	if err := os.RemoveAll(src); err != nil {
		return target, fmt.Errorf("remove after copy: %w", err)
	}
	return target, nil
}

func freeTarget(target string, now time.Time) string {
	if !exists(target) {
		return target
	}
	base := target + "__" + now.Format(collisionLayout)
	candidate := base
	for n := 2; exists(candidate); n++ {
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return candidate
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// dirSize sums regular file sizes under root, ignoring unreadable entries.
func dirSize(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return nil //nolint:nilerr // best-effort size
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
