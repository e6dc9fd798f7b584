package main

import (
	"context"
	"database/sql"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/trackerhelper/internal/dedupe"
	"github.com/llehouerou/trackerhelper/internal/errmsg"
	"github.com/llehouerou/trackerhelper/internal/fingerprint"
	"github.com/llehouerou/trackerhelper/internal/library"
	"github.com/llehouerou/trackerhelper/internal/plan"
	"github.com/llehouerou/trackerhelper/internal/report"
	"github.com/llehouerou/trackerhelper/internal/state"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Find releases whose audio is fully present elsewhere",
	Long: `Fingerprint every audio file under the roots with Chromaprint (fpcalc),
group files into releases and find releases that are redundant:

  - exact duplicates: same set of tracks as another release; the best
    named one (Albums over Singles, Deluxe/Edition preferred) is kept
  - fully contained: every track is present in one other release

A release holding a track that exists nowhere else is never removed.

Reports and a plan are written to the output directory. Nothing is moved or
deleted unless --move-to or --delete is given.

Example:
  $ trackerhelper dedupe --roots Albums Singles --move-to _trash`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := dedupeOptionsFromFlags(cmd)
		if err != nil {
			return err
		}

		fc := cfg.GetFpcalcConfig()
		fp := &fingerprint.Fpcalc{Path: fc.Path, Timeout: cfg.FpcalcTimeout(), Length: fc.Length}
		if err := fp.CheckInstalled(); err != nil {
			return fail(errmsg.OpFpcalcLookup, err)
		}

		return runDedupe(cmd.Context(), opts, fp, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	f := dedupeCmd.Flags()
	f.StringSlice("roots", nil, "Root folders to scan (default: Albums, Singles)")
	f.StringSlice("ext", nil, "Extra audio extensions, added to the built-in list")
	f.String("out-dir", "", "Where to write reports (default: _dedupe_reports)")
	f.IntP("jobs", "j", 0, "Parallel fpcalc processes (default: number of CPUs)")
	f.String("move-to", "", "Move redundant releases into this folder")
	f.Bool("delete", false, "Delete redundant releases (dangerous)")
	f.Bool("dry-run", false, "With --move-to or --delete, only report what would happen")
	f.Bool("no-cache", false, "Ignore the fingerprint cache")
	rootCmd.AddCommand(dedupeCmd)
}

type dedupeOptions struct {
	Roots       []string
	Exts        library.ExtSet
	OutDir      string
	Jobs        int
	Collections []string
	CachePath   string // used when UseCache is set; empty means the default location
	UseCache    bool
	Apply       plan.Options
	Quiet       bool
}

// dedupeOptionsFromFlags merges config values with the flags that were set.
func dedupeOptionsFromFlags(cmd *cobra.Command) (dedupeOptions, error) {
	dc := cfg.GetDedupeConfig()
	f := cmd.Flags()

	opts := dedupeOptions{
		Roots:       dc.Roots,
		OutDir:      dc.OutDir,
		Jobs:        dc.Jobs,
		Collections: dc.Collections,
		CachePath:   cfg.Cache.Path,
		UseCache:    cfg.CacheEnabled(),
		Quiet:       quiet,
	}
	exts := slices.Clone(dc.Exts)

	if f.Changed("roots") {
		opts.Roots, _ = f.GetStringSlice("roots")
	}
	if f.Changed("ext") {
		extra, _ := f.GetStringSlice("ext")
		exts = append(exts, extra...)
	}
	if f.Changed("out-dir") {
		opts.OutDir, _ = f.GetString("out-dir")
	}
	if f.Changed("jobs") {
		opts.Jobs, _ = f.GetInt("jobs")
	}
	if noCache, _ := f.GetBool("no-cache"); noCache {
		opts.UseCache = false
	}
	opts.Exts = library.MergeExts(exts)

	opts.Apply.MoveTo, _ = f.GetString("move-to")
	opts.Apply.Delete, _ = f.GetBool("delete")
	opts.Apply.DryRun, _ = f.GetBool("dry-run")
	if opts.Apply.MoveTo != "" && opts.Apply.Delete {
		return opts, usage(plan.ErrConflictingModes)
	}
	if len(opts.Roots) == 0 {
		return opts, usage(errNoRoots)
	}
	return opts, nil
}

// runDedupe runs the whole pipeline: scan, resolve, write reports and plan,
// then optionally apply the plan.
func runDedupe(ctx context.Context, opts dedupeOptions, fp fingerprint.Fingerprinter, stdout, stderr io.Writer) error {
	if opts.Apply.MoveTo != "" && opts.Apply.Delete {
		return usage(plan.ErrConflictingModes)
	}

	var cacheDB *sql.DB
	if opts.UseCache {
		m, err := state.Open(opts.CachePath)
		if err != nil {
			// The cache only saves time; run without it.
			log.Warn(errmsg.Format(errmsg.OpCacheOpen, err))
		} else {
			defer m.Close()
			cacheDB = m.DB()
		}
	}
	lib := library.New(fp, cacheDB, log)

	scanOpts := library.ScanOptions{
		Roots: opts.Roots,
		Exts:  opts.Exts,
		Jobs:  opts.Jobs,
	}
	var progressDone chan struct{}
	if !opts.Quiet {
		progress := make(chan library.ScanProgress, 16)
		scanOpts.Progress = progress
		progressDone = make(chan struct{})
		go func() {
			defer close(progressDone)
			renderProgress(stderr, progress)
		}()
	}

	scan, err := lib.Scan(ctx, scanOpts)
	if progressDone != nil {
		<-progressDone
	}
	if err != nil {
		return fail(errmsg.OpScan, err)
	}

	catalog := dedupe.BuildCatalog(scan.Rows, library.ReleaseResolver{Collections: opts.Collections})
	res := dedupe.Resolve(catalog)
	p := plan.FromResult(res, plan.Meta{Roots: opts.Roots, Exts: opts.Exts.Sorted()})

	files, err := report.WriteAll(opts.OutDir, scan.Rows, res, p)
	if err != nil {
		return fail(errmsg.OpReportWrite, err)
	}
	log.Info("resolution done",
		zap.String("run_id", p.RunID),
		zap.Int("releases", catalog.Len()),
		zap.Int("tracks", catalog.Tracks()),
		zap.Int("redundant", len(p.Redundant)))

	if !opts.Quiet {
		printScanStats(stdout, scan)
		printResolution(stdout, opts.OutDir, files, res)
	}

	if opts.Apply.MoveTo == "" && !opts.Apply.Delete {
		return nil
	}
	return applyPlan(ctx, p, opts.Apply, opts.Quiet, stdout, stderr)
}

// applyPlan applies p and prints the outcome.
func applyPlan(ctx context.Context, p *plan.Plan, opts plan.Options, quiet bool, stdout, stderr io.Writer) error {
	opts.Logger = log
	out, err := plan.Apply(ctx, p, opts)
	if err != nil {
		return fail(errmsg.OpPlanApply, err)
	}
	if !quiet {
		printOutcome(stdout, opts, out)
	}
	if len(out.Failures) > 0 {
		printFailures(stderr, opts, out.Failures)
		return errApplyFailures
	}
	return nil
}

func noArgs(cmd *cobra.Command, args []string) error {
	return usage(cobra.NoArgs(cmd, args))
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usage(cobra.ExactArgs(n)(cmd, args))
	}
}
