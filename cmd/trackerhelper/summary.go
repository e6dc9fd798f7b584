package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/trackerhelper/internal/dedupe"
	"github.com/llehouerou/trackerhelper/internal/errmsg"
	"github.com/llehouerou/trackerhelper/internal/library"
	"github.com/llehouerou/trackerhelper/internal/plan"
	"github.com/llehouerou/trackerhelper/internal/report"
)

// releaseColumn is the display width of release names in the summary.
const releaseColumn = 56

func fitColumn(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// renderProgress draws a single updating progress line until ch closes.
func renderProgress(w io.Writer, ch <-chan library.ScanProgress) {
	drawn := false
	for p := range ch {
		switch p.Phase {
		case library.PhaseFingerprinting:
			fmt.Fprintf(w, "\rFingerprinting %s/%s", humanize.Comma(int64(p.Current)), humanize.Comma(int64(p.Total)))
			drawn = true
		case library.PhaseCaching:
			fmt.Fprintf(w, "\rSaving %s fingerprints to cache", humanize.Comma(int64(p.Total)))
			drawn = true
		}
	}
	if drawn {
		fmt.Fprintln(w)
	}
}

func printScanStats(w io.Writer, scan *library.ScanResult) {
	s := scan.Stats
	fmt.Fprintf(w, "Audio files: %s (cached %s, fingerprinted %s, failed %s)\n",
		humanize.Comma(int64(s.Files)),
		humanize.Comma(int64(s.Cached)),
		humanize.Comma(int64(s.Computed)),
		humanize.Comma(int64(s.Failed)))
	if s.Failed > 0 {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(w, "%s %d files could not be fingerprinted (run with --log-level debug for details)\n",
			yellow("⚠"), s.Failed)
	}
}

func printResolution(w io.Writer, outDir string, files report.Files, res *dedupe.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(w, "Done. Reports in: %s\n", outDir)
	for _, p := range []string{files.Fingerprints, files.Report, files.List, files.PostCheck, files.CSV, files.Plan} {
		if p != "" {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}

	redundant := res.Redundant()
	fmt.Fprintf(w, "Releases: %s, candidates to remove/move: %s\n",
		humanize.Comma(int64(len(res.Releases()))), humanize.Comma(int64(len(redundant))))
	for _, id := range redundant {
		reason, target := report.ReasonContained, ""
		if canon, ok := res.DuplicateOf(id); ok {
			reason, target = report.ReasonDuplicate, canon
		} else {
			target, _ = res.ContainedIn(id)
		}
		fmt.Fprintf(w, "  %s %s %-9s %s\n", cyan("→"), fitColumn(id, releaseColumn), reason, target)
	}

	for _, u := range res.Unsafe() {
		fmt.Fprintf(w, "%s kept %s: %d of %d tracks exist nowhere else\n",
			yellow("⚠"), u.Release, u.UniqueTracks, u.TotalTracks)
	}

	if pairs := res.PostContained(); len(pairs) > 0 {
		fmt.Fprintf(w, "%s Post-check: %d subset relationships remain (see %s)\n",
			yellow("⚠"), len(pairs), files.PostCheck)
	} else {
		fmt.Fprintf(w, "%s Post-check: no remaining subset relationships\n", green("✓"))
	}
}

func printOutcome(w io.Writer, opts plan.Options, out plan.Outcome) {
	green := color.New(color.FgGreen).SprintFunc()

	prefix := ""
	if opts.DryRun {
		prefix = "[dry run] "
	}
	size := humanize.Bytes(uint64(max(out.Bytes, 0)))
	if opts.Delete {
		fmt.Fprintf(w, "%s %sDeleted releases: %d (%s)\n", green("✓"), prefix, out.Deleted, size)
	} else {
		fmt.Fprintf(w, "%s %sMoved releases: %d -> %s (%s)\n", green("✓"), prefix, out.Moved, opts.MoveTo, size)
	}
	if out.Skipped > 0 {
		fmt.Fprintf(w, "  skipped %d releases already gone\n", out.Skipped)
	}
}

func printFailures(w io.Writer, opts plan.Options, failures []plan.Failure) {
	red := color.New(color.FgRed).SprintFunc()
	op := errmsg.OpReleaseMove
	if opts.Delete {
		op = errmsg.OpReleaseDelete
	}
	for _, f := range failures {
		fmt.Fprintf(w, "%s %s\n", red("✗"), errmsg.FormatWith(op, f.Release, f.Err))
	}
}
