package ports

import "context"

// BotSourceFetcher obtains the Telegram bot's source file and dependency
// manifest and places them in a destination directory.
//
// Two historical deployment modes exist: copying a pre-staged local
// directory, and cloning a remote git repository. Both are implementations
// of this single port; the pipeline does not care which one runs.
type BotSourceFetcher interface {
	// Fetch places bot.py (and requirements.txt when the source provides
	// one) into dest, creating dest if needed and overwriting files from
	// a previous run.
	Fetch(ctx context.Context, dest string) error
}
