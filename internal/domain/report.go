package domain

import "time"

// StepStatus is the outcome of a single provisioning step.
type StepStatus string

const (
	// StepOK means the step completed successfully.
	StepOK StepStatus = "ok"

	// StepFailed means the step failed and halted the pipeline.
	StepFailed StepStatus = "failed"

	// StepTolerated means the step failed but its failure is declared
	// tolerable, so the pipeline continued.
	StepTolerated StepStatus = "tolerated"

	// StepSkipped means the step never ran because an earlier step
	// halted the pipeline.
	StepSkipped StepStatus = "skipped"
)

// StepResult records the outcome of one pipeline step.
type StepResult struct {
	// Name is the step identifier as logged (for example "nginx").
	Name string `json:"name"`

	// Status is the step outcome.
	Status StepStatus `json:"status"`

	// Error holds the failure message for failed or tolerated steps.
	Error string `json:"error,omitempty"`

	// Duration is how long the step ran.
	Duration time.Duration `json:"duration_ns"`
}

// RunReport is the persisted record of one provisioning pass. It is
// written atomically into the data directory once the pipeline starts
// mutating the host, and replaces the report of any earlier pass.
type RunReport struct {
	// RunID uniquely identifies this pass.
	RunID string `json:"run_id"`

	// StartedAt and FinishedAt bound the pass in wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Mutated is true once any state-changing step has begun. A report
	// with Mutated == false is never persisted.
	Mutated bool `json:"mutated"`

	// Steps holds one result per pipeline step, in execution order.
	Steps []StepResult `json:"steps"`
}

// Empty reports whether the report carries no run at all (the zero value,
// as returned when no previous report exists on disk).
func (r RunReport) Empty() bool {
	return r.RunID == "" && len(r.Steps) == 0
}

// Failed reports whether the pass halted on a fatal step failure.
func (r RunReport) Failed() bool {
	for _, s := range r.Steps {
		if s.Status == StepFailed {
			return true
		}
	}
	return false
}
