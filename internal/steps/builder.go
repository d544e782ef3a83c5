package steps

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/webclasher/n8nwithtele3.0/internal/app"
	"github.com/webclasher/n8nwithtele3.0/internal/cliconfig"
	"github.com/webclasher/n8nwithtele3.0/internal/ports"
	"github.com/webclasher/n8nwithtele3.0/internal/preflight"
)

// Deps carries the adapters the steps run against. Tests swap in
// fakes; main wires the real ones.
type Deps struct {
	Runner  ports.CommandRunner
	Fetcher ports.BotSourceFetcher
	DNS     ports.DNSResolver
	Addr    ports.PublicAddressResolver
	Prober  ports.PortProber
	Logger  ports.Logger
}

// Build assembles the full install sequence in execution order.
func Build(cfg cliconfig.Config, d Deps) []app.Step {
	return []app.Step{
		preflight.NewChecker(cfg, d.DNS, d.Addr, d.Prober, d.Logger),
		NewPackages(d.Runner, d.Logger),
		NewContainer(cfg, d.Runner, d.Logger),
		NewNginx(cfg, d.Runner, d.Logger),
		NewCertificate(cfg, d.Runner, d.Logger),
		NewBot(cfg, d.Fetcher, d.Runner, d.Logger),
		NewBotService(d.Runner, d.Logger),
	}
}

// Plan describes what an install run would do with this configuration,
// one line per action, without touching the host.
func Plan(cfg cliconfig.Config) []string {
	return []string{
		fmt.Sprintf("preflight: check %s has an A record for this server's public IP (resolver %s)", cfg.Domain, cfg.DNSServer),
		fmt.Sprintf("preflight: check ports 80, 443 and %d are free", cfg.N8NPort),
		fmt.Sprintf("packages: apt-get install %s", strings.Join(aptPackages, " ")),
		"packages: systemctl enable --now docker",
		fmt.Sprintf("container: replace %q with %s publishing port %d, data in %s", containerName, cfg.Image, cfg.N8NPort, cfg.DataDir),
		fmt.Sprintf("nginx: install site %s and reload once nginx -t passes", filepath.Join(defaultSitesAvailable, cfg.Domain)),
		fmt.Sprintf("certificate: certbot --nginx -d %s -m %s unless a valid certificate is installed", cfg.Domain, cfg.Email),
		fmt.Sprintf("certificate: write renewal cron %s", filepath.Join(defaultCronDir, cronFileName)),
		fmt.Sprintf("bot: deploy sources from %s into %s with a virtualenv", cfg.BotSource, cfg.BotDir),
		fmt.Sprintf("bot: write secrets %s and unit %s", filepath.Join(cfg.BotDir, ".env"), filepath.Join(defaultUnitDir, botUnitName)),
		"bot-service: systemctl enable --now n8n-bot",
	}
}
