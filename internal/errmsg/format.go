// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Setup
	OpConfigLoad Op = "load config"
	OpLoggerInit Op = "initialize logging"
	OpCacheOpen  Op = "open fingerprint cache"

	// Scanning
	OpScan         Op = "scan library"
	OpFingerprint  Op = "fingerprint audio"
	OpFpcalcLookup Op = "find fpcalc"
	OpReadTable    Op = "read fingerprint table"

	// Resolution output
	OpReportWrite Op = "write reports"

	// Plan
	OpPlanLoad  Op = "load plan"
	OpPlanApply Op = "apply plan"

	// Release actions
	OpReleaseMove   Op = "move release"
	OpReleaseDelete Op = "delete release"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
