package ports

import "context"

// CommandRunner executes external programs on the host being provisioned.
// Every mutation the pipeline performs through the operating system
// (package installs, container runs, service reloads) goes through this
// port, so tests can script the host's behavior without touching it.
type CommandRunner interface {
	// Run executes the named program and waits for it to exit.
	// Returns nil on exit code zero. The context bounds the execution;
	// a canceled or expired context kills the process.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes the named program and returns its trimmed stdout.
	// Returns an error on non-zero exit, with stderr included in the
	// error message where available.
	Output(ctx context.Context, name string, args ...string) (string, error)
}
