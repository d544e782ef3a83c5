// Package exec provides a CommandRunner backed by os/exec.
package exec

import (
	"context"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"strings"
)

// Runner executes external commands on the local host.
//
// Run streams the command's output to Stdout and Stderr so long
// operations like package installs stay visible. Output captures
// combined output instead and returns it trimmed.
type Runner struct {
	// ExtraEnv is appended to the current process environment for
	// every command, e.g. "DEBIAN_FRONTEND=noninteractive".
	ExtraEnv []string

	// Stdout and Stderr receive streamed command output.
	// Defaults to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner creates a Runner streaming to the process's stdout and stderr.
func NewRunner(extraEnv ...string) *Runner {
	return &Runner{
		ExtraEnv: extraEnv,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// Run executes the command, streaming its output.
func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Env = r.env()
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", name, ctx.Err())
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Output executes the command and captures its combined output.
func (r *Runner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Env = r.env()
	out, err := cmd.CombinedOutput()
	text := strings.TrimSpace(string(out))
	if err != nil {
		if ctx.Err() != nil {
			return text, fmt.Errorf("%s: %w", name, ctx.Err())
		}
		if text != "" {
			return text, fmt.Errorf("%s: %w: %s", name, err, lastLines(text, 5))
		}
		return text, fmt.Errorf("%s: %w", name, err)
	}
	return text, nil
}

func (r *Runner) env() []string {
	if len(r.ExtraEnv) == 0 {
		return nil // inherit process environment
	}
	return append(os.Environ(), r.ExtraEnv...)
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// lastLines returns at most n trailing lines of text, for error messages.
func lastLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= n {
		return text
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
