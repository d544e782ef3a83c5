package botsrc

import (
	"context"
	"fmt"
	"os"

	"github.com/webclasher/n8nwithtele3.0/internal/ports"
)

// LocalFetcher copies bot sources from a directory on this host.
type LocalFetcher struct {
	dir    string
	logger ports.Logger
}

// NewLocalFetcher creates a fetcher reading from dir.
func NewLocalFetcher(dir string, logger ports.Logger) *LocalFetcher {
	return &LocalFetcher{dir: dir, logger: logger}
}

// Fetch copies bot.py and requirements.txt from the source directory
// into dest, overwriting files from a previous run.
func (f *LocalFetcher) Fetch(ctx context.Context, dest string) error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("bot source %s: %w", f.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("bot source %s is not a directory", f.dir)
	}

	f.logger.Info("copying bot sources",
		ports.String("from", f.dir),
		ports.String("to", dest))
	return placeSources(f.dir, dest)
}
