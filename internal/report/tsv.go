package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/llehouerou/trackerhelper/internal/dedupe"
)

// Fingerprints of long tracks exceed bufio.Scanner's default token size.
const maxLineSize = 16 << 20

// WriteFingerprintTSV writes rows as "duration\tfingerprint\tpath" lines.
func WriteFingerprintTSV(w io.Writer, rows []dedupe.Row) error {
	ew := &errWriter{w: w}
	for _, r := range rows {
		ew.printf("%s\t%s\t%s\n", r.Duration, r.Fingerprint, r.Path)
	}
	return ew.err
}

// ReadFingerprintTSV parses a table written by WriteFingerprintTSV. Blank
// lines are skipped; any other malformed line is an error.
func ReadFingerprintTSV(r io.Reader) ([]dedupe.Row, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var rows []dedupe.Row
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.SplitN(text, "\t", 3)
		if len(fields) != 3 || fields[0] == "" || fields[1] == "" || fields[2] == "" {
			return nil, fmt.Errorf("line %d: want duration, fingerprint and path separated by tabs", line)
		}
		rows = append(rows, dedupe.Row{
			Duration:    fields[0],
			Fingerprint: fields[1],
			Path:        fields[2],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", line+1, err)
	}
	return rows, nil
}
