// Package botsrc fetches the Telegram bot sources that get deployed
// under the bot directory. The source is either a git repository URL
// or a local directory; both yield bot.py and, when present,
// requirements.txt.
package botsrc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/webclasher/n8nwithtele3.0/internal/ports"
)

const (
	botFileName          = "bot.py"
	requirementsFileName = "requirements.txt"
)

// ForSource selects a fetcher for the given source. Anything shaped
// like a git URL clones; everything else is treated as a local path.
func ForSource(source string, runner ports.CommandRunner, logger ports.Logger) ports.BotSourceFetcher {
	if IsGitSource(source) {
		return NewGitFetcher(source, runner, logger)
	}
	return NewLocalFetcher(source, logger)
}

// IsGitSource reports whether source looks like a git remote rather
// than a local directory.
func IsGitSource(source string) bool {
	for _, prefix := range []string{"http://", "https://", "git@", "ssh://", "git://"} {
		if strings.HasPrefix(source, prefix) {
			return true
		}
	}
	return strings.HasSuffix(source, ".git")
}

// placeSources copies bot.py and requirements.txt from srcDir to dest.
// bot.py is required; requirements.txt is optional.
func placeSources(srcDir, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}

	botSrc := filepath.Join(srcDir, botFileName)
	if _, err := os.Stat(botSrc); err != nil {
		return fmt.Errorf("bot source has no %s: %w", botFileName, err)
	}
	if err := copyFile(botSrc, filepath.Join(dest, botFileName)); err != nil {
		return fmt.Errorf("copy %s: %w", botFileName, err)
	}

	reqSrc := filepath.Join(srcDir, requirementsFileName)
	if _, err := os.Stat(reqSrc); err == nil {
		if err := copyFile(reqSrc, filepath.Join(dest, requirementsFileName)); err != nil {
			return fmt.Errorf("copy %s: %w", requirementsFileName, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
