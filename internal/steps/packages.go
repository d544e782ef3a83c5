package steps

import (
	"context"

	"github.com/webclasher/n8nwithtele3.0/internal/ports"
)

// aptPackages is the fixed set the stack needs. Already-installed
// packages make the install a no-op, which keeps re-runs cheap.
var aptPackages = []string{
	"curl",
	"git",
	"python3",
	"python3-pip",
	"python3-venv",
	"docker.io",
	"nginx",
	"certbot",
	"python3-certbot-nginx",
	"fail2ban",
	"tar",
	"dnsutils",
}

// Packages installs the system packages and starts the docker daemon.
type Packages struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewPackages creates the package installation step.
func NewPackages(runner ports.CommandRunner, logger ports.Logger) *Packages {
	return &Packages{runner: runner, logger: logger}
}

func (s *Packages) Name() string    { return "packages" }
func (s *Packages) Tolerable() bool { return false }
func (s *Packages) Mutating() bool  { return true }

// Run refreshes the package index, installs the stack and makes sure
// the docker daemon is running before the container step needs it.
func (s *Packages) Run(ctx context.Context) error {
	s.logger.Info("installing system packages", ports.Strings("packages", aptPackages))

	if err := s.runner.Run(ctx, "apt-get", "update"); err != nil {
		return err
	}
	args := append([]string{"install", "-y"}, aptPackages...)
	if err := s.runner.Run(ctx, "apt-get", args...); err != nil {
		return err
	}

	return s.runner.Run(ctx, "systemctl", "enable", "--now", "docker")
}
