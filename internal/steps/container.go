package steps

import (
	"context"
	"fmt"
	"os"

	"github.com/webclasher/n8nwithtele3.0/internal/cliconfig"
	"github.com/webclasher/n8nwithtele3.0/internal/ports"
)

// containerName is fixed; the bot finds the instance by this name.
const containerName = "n8n"

// Container deploys the n8n container, replacing any previous one.
type Container struct {
	cfg    cliconfig.Config
	runner ports.CommandRunner
	logger ports.Logger
}

// NewContainer creates the container deployment step.
func NewContainer(cfg cliconfig.Config, runner ports.CommandRunner, logger ports.Logger) *Container {
	return &Container{cfg: cfg, runner: runner, logger: logger}
}

func (s *Container) Name() string    { return "container" }
func (s *Container) Tolerable() bool { return false }
func (s *Container) Mutating() bool  { return true }

// Run ensures the data directories exist, removes the previous
// container by name and starts a fresh one. Removal failure is ignored
// since a first run has nothing to remove.
func (s *Container) Run(ctx context.Context) error {
	if err := s.ensureDirs(); err != nil {
		return err
	}

	if out, err := s.runner.Output(ctx, "docker", "rm", "-f", containerName); err != nil {
		s.logger.Debug("no previous container to remove",
			ports.String("container", containerName),
			ports.String("output", out))
	}

	s.logger.Info("starting n8n container",
		ports.String("image", s.cfg.Image),
		ports.Int("port", s.cfg.N8NPort))
	return s.runner.Run(ctx, "docker", s.runArgs()...)
}

// runArgs builds the docker run invocation.
func (s *Container) runArgs() []string {
	portMap := fmt.Sprintf("%d:%d", s.cfg.N8NPort, s.cfg.N8NPort)
	return []string{
		"run", "-d",
		"--name", containerName,
		"--restart", "unless-stopped",
		"-p", portMap,
		"-v", s.cfg.DataDir + ":/home/node/.n8n",
		"-v", s.cfg.LogsDir + ":/var/log/n8n",
		"-e", "N8N_HOST=" + s.cfg.Domain,
		"-e", fmt.Sprintf("N8N_PORT=%d", s.cfg.N8NPort),
		"-e", "N8N_PROTOCOL=https",
		"-e", "WEBHOOK_URL=" + s.cfg.SiteURL() + "/",
		"-e", "N8N_BASIC_AUTH_ACTIVE=true",
		"-e", "N8N_BASIC_AUTH_USER=" + s.cfg.N8NUser,
		"-e", "N8N_BASIC_AUTH_PASSWORD=" + s.cfg.N8NPassword,
		"-e", "NODE_ENV=production",
		s.cfg.Image,
	}
}

// ensureDirs creates the host directories the container and the bot
// mount and write. Data is restricted to root; logs and backups stay
// world-readable like the distribution defaults.
func (s *Container) ensureDirs() error {
	if err := os.MkdirAll(s.cfg.DataDir, 0o700); err != nil {
		return err
	}
	if err := os.MkdirAll(s.cfg.LogsDir, 0o755); err != nil {
		return err
	}
	return os.MkdirAll(s.cfg.BackupsDir, 0o755)
}
