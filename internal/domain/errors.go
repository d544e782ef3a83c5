package domain

import "fmt"

// MissingKeyError reports a required configuration key that was not set.
// It is returned during configuration resolution, before the pipeline
// performs any action, so a missing key never leaves side effects.
type MissingKeyError struct {
	// Key is the environment variable name of the missing input.
	Key string
}

func (e MissingKeyError) Error() string {
	return fmt.Sprintf("configuration: %s is required", e.Key)
}

// PreflightError reports a failed precondition check. The pipeline halts
// on it before installing anything; Reason carries the operator-facing
// explanation of what to fix.
type PreflightError struct {
	// Check names the check that failed (for example "dns" or "port 443").
	Check string

	// Reason is the actionable failure description.
	Reason string
}

func (e PreflightError) Error() string {
	return fmt.Sprintf("preflight: %s: %s", e.Check, e.Reason)
}
