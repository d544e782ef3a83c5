// Package fs contains filesystem-backed adapters.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/webclasher/n8nwithtele3.0/internal/domain"
)

const reportFileName = "provision-report.json"

// ReportFileStore implements ports.ReportStore using a JSON file.
type ReportFileStore struct {
	dir string
}

// NewReportFileStore creates a new ReportFileStore for the given directory.
func NewReportFileStore(dir string) *ReportFileStore {
	return &ReportFileStore{dir: dir}
}

// Load retrieves the last saved run report from disk.
// Returns an empty report and nil error if no report file exists.
func (s *ReportFileStore) Load(ctx context.Context) (domain.RunReport, error) {
	path := filepath.Join(s.dir, reportFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.RunReport{}, nil
		}
		return domain.RunReport{}, err
	}

	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return domain.RunReport{}, err
	}

	return report, nil
}

// Save persists the run report atomically.
// Uses atomic write (write to temp file, then rename) to prevent corruption.
func (s *ReportFileStore) Save(ctx context.Context, report domain.RunReport) error {
	// Ensure directory exists
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}

	path := filepath.Join(s.dir, reportFileName)
	tmp := path + ".tmp"

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmp, path)
}

// Path returns the full path to the report file.
func (s *ReportFileStore) Path() string {
	return filepath.Join(s.dir, reportFileName)
}
