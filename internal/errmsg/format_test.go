//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpScan,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpScan,
			err:      errors.New("no audio files found"),
			expected: "Failed to scan library: no audio files found",
		},
		{
			name:     "plan operation",
			op:       OpPlanLoad,
			err:      errors.New("invalid plan"),
			expected: "Failed to load plan: invalid plan",
		},
		{
			name:     "fpcalc lookup",
			op:       OpFpcalcLookup,
			err:      errors.New("not installed"),
			expected: "Failed to find fpcalc: not installed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpReleaseMove,
			context:  "Singles/Record",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpReleaseMove,
			context:  "Singles/Record",
			err:      errors.New("permission denied"),
			expected: "Failed to move release 'Singles/Record': permission denied",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpReleaseDelete,
			context:  "",
			err:      errors.New("permission denied"),
			expected: "Failed to delete release: permission denied",
		},
		{
			name:     "plan with path context",
			op:       OpPlanLoad,
			context:  "_dedupe_reports/discog_dedupe_plan.json",
			err:      errors.New("unexpected end of JSON input"),
			expected: "Failed to load plan '_dedupe_reports/discog_dedupe_plan.json': unexpected end of JSON input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpConfigLoad, OpLoggerInit, OpCacheOpen,
		OpScan, OpFingerprint, OpFpcalcLookup, OpReadTable,
		OpReportWrite,
		OpPlanLoad, OpPlanApply,
		OpReleaseMove, OpReleaseDelete,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
