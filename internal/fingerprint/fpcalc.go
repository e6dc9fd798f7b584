package fingerprint

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single fpcalc run; long files can be slow.
const DefaultTimeout = 2 * time.Minute

// Fpcalc runs the Chromaprint command line tool.
type Fpcalc struct {
	Path    string        // binary name or path, "fpcalc" when empty
	Timeout time.Duration // per-file limit, DefaultTimeout when zero
	Length  int           // seconds of audio to analyse, tool default when zero
}

func (f *Fpcalc) binary() string {
	if f.Path == "" {
		return "fpcalc"
	}
	return f.Path
}

// CheckInstalled returns ErrNotInstalled if the binary cannot be found.
func (f *Fpcalc) CheckInstalled() error {
	if _, err := exec.LookPath(f.binary()); err != nil {
		return ErrNotInstalled
	}
	return nil
}

// Fingerprint runs fpcalc on path. A non-zero exit or output without both
// DURATION and FINGERPRINT is reported as ErrNoFingerprint.
func (f *Fpcalc) Fingerprint(ctx context.Context, path string) (Result, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := make([]string, 0, 4)
	if f.Length > 0 {
		args = append(args, "-length", strconv.Itoa(f.Length))
	}
	args = append(args, "--", path)

	out, err := exec.CommandContext(ctx, f.binary(), args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return Result{}, fmt.Errorf("fpcalc timed out after %s: %w", timeout, ErrNoFingerprint)
		case ctx.Err() != nil:
			return Result{}, ctx.Err()
		case errors.As(err, &exitErr):
			return Result{}, fmt.Errorf("fpcalc exit %d: %w", exitErr.ExitCode(), ErrNoFingerprint)
		case errors.Is(err, exec.ErrNotFound):
			return Result{}, ErrNotInstalled
		}
		return Result{}, fmt.Errorf("run fpcalc: %w", err)
	}

	return parseOutput(out)
}

// parseOutput reads the DURATION= and FINGERPRINT= lines of fpcalc output.
func parseOutput(out []byte) (Result, error) {
	var res Result
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if v, ok := strings.CutPrefix(line, "DURATION="); ok {
			res.Duration = strings.TrimSpace(v)
			continue
		}
		if v, ok := strings.CutPrefix(line, "FINGERPRINT="); ok {
			res.Fingerprint = strings.TrimSpace(v)
		}
	}
	if err := sc.Err(); err != nil {
		return Result{}, fmt.Errorf("read fpcalc output: %w", err)
	}
	if res.Duration == "" || res.Fingerprint == "" {
		return Result{}, ErrNoFingerprint
	}
	return res, nil
}
