package ports

import (
	"context"

	"github.com/webclasher/n8nwithtele3.0/internal/domain"
)

// ReportStore persists provisioning run reports so a later run (or an
// operator) can see what the last pass did.
type ReportStore interface {
	// Load retrieves the report of the previous run.
	// Returns an empty report and nil error if none exists.
	Load(ctx context.Context) (domain.RunReport, error)

	// Save persists the report atomically (write to temp file, then
	// rename) so a crash never leaves a truncated report behind.
	Save(ctx context.Context, report domain.RunReport) error
}
