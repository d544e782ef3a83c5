package botsrc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webclasher/n8nwithtele3.0/internal/adapters/log"
)

func TestIsGitSource(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://github.com/webclasher/n8nwithtele3.0.git", true},
		{"http://example.com/bot.git", true},
		{"git@github.com:webclasher/n8nwithtele3.0.git", true},
		{"ssh://git@example.com/bot", true},
		{"/root/local/bot", false},
		{"./relative/bot", false},
		{"/opt/checkouts/bot.git", true},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGitSource(tt.source))
		})
	}
}

func TestLocalFetcher(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "bot.py"), []byte("print('bot')\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "requirements.txt"), []byte("python-telegram-bot\n"), 0o644))

	dest := filepath.Join(t.TempDir(), "bot")
	f := NewLocalFetcher(src, log.NewNoopLogger())
	require.NoError(t, f.Fetch(context.Background(), dest))

	bot, err := os.ReadFile(filepath.Join(dest, "bot.py"))
	require.NoError(t, err)
	assert.Equal(t, "print('bot')\n", string(bot))

	req, err := os.ReadFile(filepath.Join(dest, "requirements.txt"))
	require.NoError(t, err)
	assert.Equal(t, "python-telegram-bot\n", string(req))
}

func TestLocalFetcherOverwritesPreviousRun(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "bot.py"), []byte("new"), 0o644))

	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "bot.py"), []byte("old"), 0o644))

	f := NewLocalFetcher(src, log.NewNoopLogger())
	require.NoError(t, f.Fetch(context.Background(), dest))

	bot, err := os.ReadFile(filepath.Join(dest, "bot.py"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(bot))
}

func TestLocalFetcherRequirementsOptional(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "bot.py"), []byte("print('bot')\n"), 0o644))

	dest := filepath.Join(t.TempDir(), "bot")
	f := NewLocalFetcher(src, log.NewNoopLogger())
	require.NoError(t, f.Fetch(context.Background(), dest))

	_, err := os.Stat(filepath.Join(dest, "requirements.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalFetcherMissingBot(t *testing.T) {
	src := t.TempDir() // no bot.py

	f := NewLocalFetcher(src, log.NewNoopLogger())
	err := f.Fetch(context.Background(), filepath.Join(t.TempDir(), "bot"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot.py")
}

func TestLocalFetcherMissingSourceDir(t *testing.T) {
	f := NewLocalFetcher(filepath.Join(t.TempDir(), "absent"), log.NewNoopLogger())
	err := f.Fetch(context.Background(), t.TempDir())
	require.Error(t, err)
}

// fakeCloner pretends to be git by writing files into the clone target.
type fakeCloner struct {
	files map[string]string
	calls [][]string
}

func (f *fakeCloner) Run(ctx context.Context, name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	dir := args[len(args)-1]
	for name, content := range f.files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCloner) Output(ctx context.Context, name string, args ...string) (string, error) {
	return "", nil
}

func TestGitFetcher(t *testing.T) {
	runner := &fakeCloner{files: map[string]string{
		"bot.py":           "print('from git')\n",
		"requirements.txt": "docker\n",
	}}

	dest := filepath.Join(t.TempDir(), "bot")
	f := NewGitFetcher("https://example.com/bot.git", runner, log.NewNoopLogger())
	require.NoError(t, f.Fetch(context.Background(), dest))

	bot, err := os.ReadFile(filepath.Join(dest, "bot.py"))
	require.NoError(t, err)
	assert.Equal(t, "print('from git')\n", string(bot))

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, "git", call[0])
	assert.Contains(t, call, "clone")
	assert.Contains(t, call, "--depth")
	assert.Contains(t, call, "https://example.com/bot.git")
}

func TestForSource(t *testing.T) {
	logger := log.NewNoopLogger()
	runner := &fakeCloner{}

	_, isGit := ForSource("https://example.com/bot.git", runner, logger).(*GitFetcher)
	assert.True(t, isGit)

	_, isLocal := ForSource("/opt/bot", runner, logger).(*LocalFetcher)
	assert.True(t, isLocal)
}
