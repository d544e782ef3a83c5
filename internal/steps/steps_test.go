package steps

import (
	"context"
	"path/filepath"

	"github.com/webclasher/n8nwithtele3.0/internal/cliconfig"
)

// fakeRunner records every command and fails the ones listed in
// failOn, keyed by "command first-arg" (e.g. "nginx -t"). failFn, when
// set, decides failures from the full argument list instead.
type fakeRunner struct {
	calls  [][]string
	failOn map[string]error
	failFn func(call []string) error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	return f.record(name, args)
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	return "", f.record(name, args)
}

func (f *fakeRunner) record(name string, args []string) error {
	call := append([]string{name}, args...)
	f.calls = append(f.calls, call)
	if f.failFn != nil {
		if err := f.failFn(call); err != nil {
			return err
		}
	}
	if f.failOn != nil {
		if err, ok := f.failOn[cmdKey(name, args)]; ok {
			return err
		}
	}
	return nil
}

// ran reports whether a command matching key was executed.
func (f *fakeRunner) ran(key string) bool {
	return f.call(key) != nil
}

// call returns the first recorded command matching key.
func (f *fakeRunner) call(key string) []string {
	for _, c := range f.calls {
		if cmdKey(c[0], c[1:]) == key {
			return c
		}
	}
	return nil
}

// keys returns the key of every recorded command, in order.
func (f *fakeRunner) keys() []string {
	var out []string
	for _, c := range f.calls {
		out = append(out, cmdKey(c[0], c[1:]))
	}
	return out
}

func cmdKey(name string, args []string) string {
	base := filepath.Base(name)
	if len(args) == 0 {
		return base
	}
	return base + " " + args[0]
}

// testConfig returns a validated config pointing at a real domain
// shape; directory fields get overridden per test.
func testConfig() cliconfig.Config {
	cfg := cliconfig.DefaultConfig()
	cfg.Domain = "n8n.example.com"
	cfg.Email = "ops@example.com"
	cfg.BotToken = "123456:ABC-secret"
	cfg.AuthorizedUserID = "987654321"
	return cfg
}
