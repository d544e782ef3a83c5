package botsrc

import (
	"context"
	"fmt"
	"os"

	"github.com/webclasher/n8nwithtele3.0/internal/ports"
)

// GitFetcher clones a git repository and copies bot sources out of it.
type GitFetcher struct {
	url    string
	runner ports.CommandRunner
	logger ports.Logger
}

// NewGitFetcher creates a fetcher cloning from url.
func NewGitFetcher(url string, runner ports.CommandRunner, logger ports.Logger) *GitFetcher {
	return &GitFetcher{url: url, runner: runner, logger: logger}
}

// Fetch shallow-clones the repository into a temporary directory and
// copies bot.py and requirements.txt into dest, overwriting files from
// a previous run. The clone is removed afterwards.
func (f *GitFetcher) Fetch(ctx context.Context, dest string) error {
	tmp, err := os.MkdirTemp("", "n8ntele-bot-*")
	if err != nil {
		return fmt.Errorf("create clone dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	f.logger.Info("cloning bot repository",
		ports.String("url", f.url),
		ports.String("to", dest))
	if err := f.runner.Run(ctx, "git", "clone", "--depth", "1", f.url, tmp); err != nil {
		return fmt.Errorf("clone %s: %w", f.url, err)
	}

	return placeSources(tmp, dest)
}
