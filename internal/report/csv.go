package report

import (
	"encoding/csv"
	"io"
	"slices"
	"strings"

	"github.com/llehouerou/trackerhelper/internal/dedupe"
)

// CSVHeader is the first record of the CSV report.
var CSVHeader = []string{"release", "action", "reason", "target", "tracks", "target_tracks", "unique_tracks"}

// CSV actions and reasons.
const (
	ActionDelete = "delete"
	ActionKeep   = "keep"

	ReasonDuplicate = "duplicate"
	ReasonContained = "contained"
	ReasonUnsafe    = "unsafe"
)

// WriteCSV writes one record per redundant or vetoed release, ordered by
// release id.
func WriteCSV(w io.Writer, res *dedupe.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	var records [][]string
	for _, id := range res.Redundant() {
		reason, target := ReasonContained, ""
		if canon, ok := res.DuplicateOf(id); ok {
			reason, target = ReasonDuplicate, canon
		} else if sup, ok := res.ContainedIn(id); ok {
			target = sup
		}
		records = append(records, record(res, id, ActionDelete, reason, target))
	}
	for _, u := range res.Unsafe() {
		target, ok := res.DuplicateOf(u.Release)
		if !ok {
			target, _ = res.ContainedIn(u.Release)
		}
		records = append(records, record(res, u.Release, ActionKeep, ReasonUnsafe, target))
	}
	slices.SortFunc(records, func(a, b []string) int {
		return strings.Compare(a[0], b[0])
	})

	return cw.WriteAll(records)
}

func record(res *dedupe.Result, id, action, reason, target string) []string {
	targetTracks := ""
	if target != "" {
		targetTracks = itoa(res.Size(target))
	}
	return []string{
		id,
		action,
		reason,
		target,
		itoa(res.Size(id)),
		targetTracks,
		itoa(res.UniqueCount(id)),
	}
}
