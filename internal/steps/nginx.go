package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/webclasher/n8nwithtele3.0/internal/cliconfig"
	"github.com/webclasher/n8nwithtele3.0/internal/ports"
)

const (
	defaultSitesAvailable = "/etc/nginx/sites-available"
	defaultSitesEnabled   = "/etc/nginx/sites-enabled"
)

// Nginx writes the virtual host for the domain and reloads nginx once
// the configuration validates.
type Nginx struct {
	cfg    cliconfig.Config
	runner ports.CommandRunner
	logger ports.Logger

	// SitesAvailable and SitesEnabled default to the Debian layout.
	SitesAvailable string
	SitesEnabled   string
}

// NewNginx creates the reverse proxy configuration step.
func NewNginx(cfg cliconfig.Config, runner ports.CommandRunner, logger ports.Logger) *Nginx {
	return &Nginx{
		cfg:            cfg,
		runner:         runner,
		logger:         logger,
		SitesAvailable: defaultSitesAvailable,
		SitesEnabled:   defaultSitesEnabled,
	}
}

func (s *Nginx) Name() string    { return "nginx" }
func (s *Nginx) Tolerable() bool { return false }
func (s *Nginx) Mutating() bool  { return true }

// Run renders the site, installs it under sites-available, links it
// into sites-enabled, drops the distribution default site and reloads
// nginx. The reload only happens after nginx -t accepts the new
// configuration, so a bad render never takes the proxy down.
func (s *Nginx) Run(ctx context.Context) error {
	conf, err := renderString(nginxSiteTemplate, siteData{
		Domain: s.cfg.Domain,
		Port:   s.cfg.N8NPort,
	})
	if err != nil {
		return fmt.Errorf("render site %s: %w", s.cfg.Domain, err)
	}

	if err := os.MkdirAll(s.SitesAvailable, 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(s.SitesEnabled, 0o755); err != nil {
		return err
	}

	sitePath := filepath.Join(s.SitesAvailable, s.cfg.Domain)
	if err := os.WriteFile(sitePath, []byte(conf), 0o644); err != nil {
		return fmt.Errorf("write site %s: %w", sitePath, err)
	}

	// Replace the enabled link; a leftover from a previous run is fine.
	enabled := filepath.Join(s.SitesEnabled, s.cfg.Domain)
	_ = os.Remove(enabled)
	if err := os.Symlink(sitePath, enabled); err != nil {
		return fmt.Errorf("enable site %s: %w", s.cfg.Domain, err)
	}

	// The distribution default site answers on port 80 for any name
	// and would shadow the new vhost.
	_ = os.Remove(filepath.Join(s.SitesEnabled, "default"))

	if err := s.runner.Run(ctx, "nginx", "-t"); err != nil {
		return fmt.Errorf("nginx rejected the configuration: %w", err)
	}

	s.logger.Info("nginx site installed", ports.String("site", sitePath))
	return s.runner.Run(ctx, "systemctl", "reload", "nginx")
}
