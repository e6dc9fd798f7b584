// Package report renders resolution results into the files left next to
// a dedupe run: a readable report, plain lists, a CSV and the fingerprint
// table the run was computed from.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/trackerhelper/internal/dedupe"
	"github.com/llehouerou/trackerhelper/internal/plan"
)

// File names written into the output directory.
const (
	FingerprintFile = "discog_audiofp.tsv"
	ReportFile      = "discog_redundancy_report.txt"
	ListFile        = "discog_redundant_dirs.txt"
	PostCheckFile   = "discog_postcheck_contained.txt"
	CSVFile         = "discog_redundancy.csv"
	PlanFile        = "discog_dedupe_plan.json"
)

// Files holds the paths of one run's outputs.
type Files struct {
	Fingerprints string // empty when no fingerprint table was written
	Report       string
	List         string
	PostCheck    string
	CSV          string
	Plan         string
}

// WriteAll writes every report for res into dir, creating it if needed.
// rows may be nil when the run did not compute fingerprints itself.
func WriteAll(dir string, rows []dedupe.Row, res *dedupe.Result, p *plan.Plan) (Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("create output dir: %w", err)
	}

	files := Files{
		Report:    filepath.Join(dir, ReportFile),
		List:      filepath.Join(dir, ListFile),
		PostCheck: filepath.Join(dir, PostCheckFile),
		CSV:       filepath.Join(dir, CSVFile),
		Plan:      filepath.Join(dir, PlanFile),
	}

	if rows != nil {
		files.Fingerprints = filepath.Join(dir, FingerprintFile)
		if err := writeFile(files.Fingerprints, func(w io.Writer) error {
			return WriteFingerprintTSV(w, rows)
		}); err != nil {
			return files, err
		}
	}

	writers := []struct {
		path  string
		write func(io.Writer) error
	}{
		{files.Report, func(w io.Writer) error { return WriteReport(w, res) }},
		{files.List, func(w io.Writer) error { return WriteRedundantList(w, res) }},
		{files.PostCheck, func(w io.Writer) error { return WritePostCheck(w, res) }},
		{files.CSV, func(w io.Writer) error { return WriteCSV(w, res) }},
	}
	for _, wr := range writers {
		if err := writeFile(wr.path, wr.write); err != nil {
			return files, err
		}
	}

	if err := p.Write(files.Plan); err != nil {
		return files, fmt.Errorf("write %s: %w", files.Plan, err)
	}
	return files, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// WriteReport writes the human-readable redundancy report.
func WriteReport(w io.Writer, res *dedupe.Result) error {
	ew := &errWriter{w: w}

	ew.printf("=== DISCOGRAPHY REDUNDANCY REPORT (audio-content) ===\n")
	ew.printf("Rule: a release is removed only if ALL its tracks exist in ONE other release.\n")
	ew.printf("Exact duplicates keep the best release (Albums over Singles, Deluxe/Edition preferred).\n")
	ew.printf("Releases: %s  redundant: %s  unsafe: %s  post-check pairs: %s\n\n",
		humanize.Comma(int64(len(res.Releases()))),
		humanize.Comma(int64(len(res.Redundant()))),
		humanize.Comma(int64(len(res.Unsafe()))),
		humanize.Comma(int64(len(res.PostContained()))))

	if unsafe := res.Unsafe(); len(unsafe) > 0 {
		ew.printf("!!! SAFETY: these releases were candidates but hold unique tracks and are NOT removed:\n")
		for _, u := range unsafe {
			ew.printf("UNSAFE: %s  unique_tracks=%d  total_tracks=%d\n", u.Release, u.UniqueTracks, u.TotalTracks)
		}
		ew.printf("\n")
	}

	if len(res.Redundant()) == 0 {
		ew.printf("Nothing to remove: no releases fully covered by others.\n")
		return ew.err
	}

	if dups := res.Duplicates(); len(dups) > 0 {
		ew.printf("== EXACT DUPLICATES (same track set) ==\n")
		for _, id := range dups {
			canon, _ := res.DuplicateOf(id)
			ew.printf("DELETE: %s\n  identical_to: %s\n  tracks: %d\n\n", id, canon, res.Size(id))
		}
	}

	if subs := res.Contained(); len(subs) > 0 {
		ew.printf("== FULLY CONTAINED (release is a subset of another release) ==\n")
		for _, id := range subs {
			sup, _ := res.ContainedIn(id)
			ew.printf("DELETE: %s\n  contained_in: %s\n  tracks: %d -> %d\n  unique_tracks_in_release: %d\n\n",
				id, sup, res.Size(id), res.Size(sup), res.UniqueCount(id))
		}
	}
	return ew.err
}

// WriteRedundantList writes one redundant release id per line, sorted.
func WriteRedundantList(w io.Writer, res *dedupe.Result) error {
	ew := &errWriter{w: w}
	for _, id := range res.Redundant() {
		ew.printf("%s\n", id)
	}
	return ew.err
}

// WritePostCheck writes the subset pairs left among surviving releases.
func WritePostCheck(w io.Writer, res *dedupe.Result) error {
	ew := &errWriter{w: w}
	for _, c := range res.PostContained() {
		ew.printf("%s\t<=\t%s\n", c.Subset, c.Superset)
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func itoa(n int) string { return strconv.Itoa(n) }
