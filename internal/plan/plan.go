// Package plan is the contract between deciding and acting: a versioned
// JSON record of the releases to remove, and the step that applies it.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/llehouerou/trackerhelper/internal/dedupe"
)

// Version is the plan schema version written by this build.
const Version = 1

var (
	// ErrInvalidPlan means the plan file is unreadable or malformed.
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrUnsupportedVersion means the plan was written by a newer build.
	ErrUnsupportedVersion = errors.New("unsupported plan version")
)

// Pair is a surviving subset relationship.
type Pair struct {
	Subset   string `json:"subset"`
	Superset string `json:"superset"`
}

// Unsafe is a vetoed removal candidate.
type Unsafe struct {
	Release      string `json:"release"`
	UniqueTracks int    `json:"unique_tracks"`
	TotalTracks  int    `json:"total_tracks"`
}

// Plan lists the releases to remove and why.
type Plan struct {
	Version       int               `json:"version"`
	GeneratedAt   time.Time         `json:"generated_at"`
	RunID         string            `json:"run_id"`
	Roots         []string          `json:"roots,omitempty"`
	Exts          []string          `json:"exts,omitempty"`
	Redundant     []string          `json:"redundant"`
	DuplicateOf   map[string]string `json:"duplicate_of,omitempty"`
	ContainedIn   map[string]string `json:"contained_in,omitempty"`
	Unsafe        []Unsafe          `json:"unsafe,omitempty"`
	PostContained []Pair            `json:"post_contained,omitempty"`
}

// Meta describes the scan a plan came from.
type Meta struct {
	Roots []string
	Exts  []string
	Now   time.Time // zero means time.Now()
}

// FromResult builds a plan from a resolution result.
func FromResult(res *dedupe.Result, meta Meta) *Plan {
	now := meta.Now
	if now.IsZero() {
		now = time.Now()
	}

	p := &Plan{
		Version:     Version,
		GeneratedAt: now.UTC().Truncate(time.Second),
		RunID:       uuid.NewString(),
		Roots:       meta.Roots,
		Exts:        meta.Exts,
		Redundant:   res.Redundant(),
		DuplicateOf: make(map[string]string),
		ContainedIn: make(map[string]string),
	}
	if p.Redundant == nil {
		p.Redundant = []string{}
	}
	// Only reasons for releases actually being removed.
	for _, id := range p.Redundant {
		if c, ok := res.DuplicateOf(id); ok {
			p.DuplicateOf[id] = c
		} else if c, ok := res.ContainedIn(id); ok {
			p.ContainedIn[id] = c
		}
	}
	for _, u := range res.Unsafe() {
		p.Unsafe = append(p.Unsafe, Unsafe{
			Release:      u.Release,
			UniqueTracks: u.UniqueTracks,
			TotalTracks:  u.TotalTracks,
		})
	}
	for _, c := range res.PostContained() {
		p.PostContained = append(p.PostContained, Pair{Subset: c.Subset, Superset: c.Superset})
	}
	return p
}

// Write stores the plan as indented JSON. The file is replaced atomically.
func (p *Plan) Write(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".plan-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}

	var raw struct {
		Plan
		Redundant *[]string `json:"redundant"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPlan, path, err)
	}
	if raw.Redundant == nil {
		return nil, fmt.Errorf("%w: %s: missing \"redundant\" list", ErrInvalidPlan, path)
	}
	if raw.Version > Version {
		return nil, fmt.Errorf("%w: %d (this build reads up to %d)", ErrUnsupportedVersion, raw.Version, Version)
	}

	p := raw.Plan
	p.Redundant = *raw.Redundant
	for i, r := range p.Redundant {
		if r == "" {
			return nil, fmt.Errorf("%w: %s: empty release at index %d", ErrInvalidPlan, path, i)
		}
	}
	return &p, nil
}
