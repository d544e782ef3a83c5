package domain

// CheckStatus is the outcome of a single preflight check.
type CheckStatus string

const (
	// CheckPass means the precondition holds.
	CheckPass CheckStatus = "pass"

	// CheckFail means the precondition is violated and provisioning
	// must not proceed.
	CheckFail CheckStatus = "fail"
)

// CheckResult is the outcome of one non-mutating preflight check.
type CheckResult struct {
	// Name identifies the check (for example "dns" or "port 80").
	Name string `json:"name"`

	// Status is pass or fail.
	Status CheckStatus `json:"status"`

	// Reason explains a failure in operator terms. Empty on pass.
	Reason string `json:"reason,omitempty"`
}

// AllPassed reports whether every check in the set passed.
func AllPassed(results []CheckResult) bool {
	for _, r := range results {
		if r.Status != CheckPass {
			return false
		}
	}
	return true
}

// FirstFailure returns the first failed check, or nil if all passed.
func FirstFailure(results []CheckResult) *CheckResult {
	for i := range results {
		if results[i].Status == CheckFail {
			return &results[i]
		}
	}
	return nil
}
