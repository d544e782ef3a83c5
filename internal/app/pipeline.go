// Package app orchestrates the provisioning run: it executes steps in
// order, applies the per-step failure policy and records the outcome.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/webclasher/n8nwithtele3.0/internal/domain"
	"github.com/webclasher/n8nwithtele3.0/internal/ports"
)

// Step is a single provisioning action.
type Step interface {
	// Name identifies the step in logs and the run report.
	Name() string
	// Tolerable reports whether a failure of this step is recorded
	// and skipped over instead of halting the run.
	Tolerable() bool
	// Mutating reports whether the step changes the host. The run
	// report is only persisted once a mutating step has started.
	Mutating() bool
	Run(ctx context.Context) error
}

// Pipeline runs steps in order and builds the run report.
type Pipeline struct {
	steps       []Step
	store       ports.ReportStore
	logger      ports.Logger
	stepTimeout time.Duration
}

// NewPipeline creates a pipeline over the given steps. A zero
// stepTimeout disables the per-step deadline.
func NewPipeline(steps []Step, store ports.ReportStore, logger ports.Logger, stepTimeout time.Duration) *Pipeline {
	return &Pipeline{
		steps:       steps,
		store:       store,
		logger:      logger,
		stepTimeout: stepTimeout,
	}
}

// Run executes the steps in order. The first intolerable failure halts
// the run; remaining steps are recorded as skipped. Failures of
// tolerable steps are recorded and the run continues. The report is
// persisted once any mutating step has started, so a run that fails
// in validation leaves nothing behind.
func (p *Pipeline) Run(ctx context.Context) (domain.RunReport, error) {
	report := domain.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	var runErr error
	for _, step := range p.steps {
		if runErr != nil {
			report.Steps = append(report.Steps, domain.StepResult{
				Name:   step.Name(),
				Status: domain.StepSkipped,
			})
			continue
		}

		if step.Mutating() {
			report.Mutated = true
		}

		p.logger.Info("step started", ports.String("step", step.Name()))
		result := p.runStep(ctx, step)
		report.Steps = append(report.Steps, result)

		switch result.Status {
		case domain.StepOK:
			p.logger.Info("step completed",
				ports.String("step", step.Name()),
				ports.Duration("duration", result.Duration))
		case domain.StepTolerated:
			p.logger.Warn("step failed, continuing",
				ports.String("step", step.Name()),
				ports.String("error", result.Error))
		case domain.StepFailed:
			p.logger.Error("step failed, halting",
				ports.String("step", step.Name()),
				ports.String("error", result.Error))
			runErr = fmt.Errorf("step %s: %s", step.Name(), result.Error)
		}
	}

	report.FinishedAt = time.Now().UTC()
	p.persist(ctx, report)
	return report, runErr
}

// runStep executes one step under the per-step deadline and maps its
// outcome to a step result.
func (p *Pipeline) runStep(ctx context.Context, step Step) domain.StepResult {
	stepCtx := ctx
	if p.stepTimeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, p.stepTimeout)
		defer cancel()
	}

	start := time.Now()
	err := step.Run(stepCtx)
	duration := time.Since(start)

	result := domain.StepResult{
		Name:     step.Name(),
		Status:   domain.StepOK,
		Duration: duration,
	}
	if err == nil {
		return result
	}

	result.Error = err.Error()
	// An interrupted run halts no matter what the step tolerates.
	if step.Tolerable() && ctx.Err() == nil {
		result.Status = domain.StepTolerated
	} else {
		result.Status = domain.StepFailed
	}
	return result
}

// persist saves the report if the run touched the host. Persistence
// failures are logged, not returned: the report must never mask the
// run's own outcome.
func (p *Pipeline) persist(ctx context.Context, report domain.RunReport) {
	if !report.Mutated || p.store == nil {
		return
	}
	// Saving still has to work when the run was cancelled.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.store.Save(saveCtx, report); err != nil {
		p.logger.Error("failed to save run report", ports.Err(err))
	}
}
