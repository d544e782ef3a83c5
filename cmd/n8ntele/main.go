package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/webclasher/n8nwithtele3.0/internal/adapters/botsrc"
	"github.com/webclasher/n8nwithtele3.0/internal/adapters/dnsq"
	execAdapter "github.com/webclasher/n8nwithtele3.0/internal/adapters/exec"
	"github.com/webclasher/n8nwithtele3.0/internal/adapters/fs"
	"github.com/webclasher/n8nwithtele3.0/internal/adapters/httpip"
	logAdapter "github.com/webclasher/n8nwithtele3.0/internal/adapters/log"
	"github.com/webclasher/n8nwithtele3.0/internal/adapters/netprobe"
	"github.com/webclasher/n8nwithtele3.0/internal/app"
	"github.com/webclasher/n8nwithtele3.0/internal/cliconfig"
	"github.com/webclasher/n8nwithtele3.0/internal/domain"
	"github.com/webclasher/n8nwithtele3.0/internal/preflight"
	"github.com/webclasher/n8nwithtele3.0/internal/steps"
)

const helpDescription = `
Turn a fresh Ubuntu/Debian host into a single-node n8n server with a
Telegram companion bot.

What a run does:
  - Verifies DNS and port preconditions before touching the host.
  - Installs packages, runs n8n in Docker behind nginx with a Let's
    Encrypt certificate and a daily renewal cron.
  - Deploys the Telegram bot as a systemd service (n8n-bot).

Required configuration: DOMAIN, EMAIL, TELEGRAM_BOT_TOKEN and
AUTHORIZED_USER_ID, via flags, environment, a .env file in the working
directory, or a TOML config file.

Re-running is safe: every mutation replaces what an earlier run left.
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  n8ntele --domain n8n.example.com --email ops@example.com --bot-token <token> --authorized-user <id>
  n8ntele --dry-run                 # show the plan, config from ./.env
  n8ntele preflight                 # DNS and port checks only, no root needed
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// resolveConfig fills cfg in precedence order: flags beat environment,
// environment beats the config file, the file beats defaults. A .env
// file in the working directory seeds the environment first, like the
// dotfile the shell installer kept next to the script.
func resolveConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	if err := cliconfig.LoadDotenv(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	// Build set of changed flags
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}

	return cfg.Validate()
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var dryRun bool

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "n8ntele",
		Short:         "Provision an n8n server with a Telegram bot on this host",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}

			// Log configuration (masking secrets)
			logCfg := cfg
			if len(logCfg.BotToken) > 0 {
				logCfg.BotToken = "*****"
			}
			if len(logCfg.N8NPassword) > 0 {
				logCfg.N8NPassword = "*****"
			}
			log.Info().Interface("config", logCfg).Msg("configuration")

			if dryRun {
				fmt.Println("install plan (dry-run):")
				for _, line := range steps.Plan(cfg) {
					fmt.Println("- " + line)
				}
				fmt.Println("re-run without --dry-run to execute")
				return nil
			}

			if os.Geteuid() != 0 {
				return fmt.Errorf("provisioning mutates the host and needs root; re-run with sudo (preflight and --dry-run do not)")
			}

			// Setup signal handling for graceful shutdown
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				log.Info().Msg("received signal, stopping...")
				cancel()
			}()

			logger := logAdapter.NewZerologAdapterWithLogger(log)
			runner := execAdapter.NewRunner("DEBIAN_FRONTEND=noninteractive")
			httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
			store := fs.NewReportFileStore(cfg.DataDir)

			if prev, err := store.Load(ctx); err != nil {
				log.Warn().Err(err).Str("path", store.Path()).Msg("previous run report unreadable")
			} else if !prev.Empty() {
				log.Info().
					Str("run_id", prev.RunID).
					Time("finished_at", prev.FinishedAt).
					Bool("failed", prev.Failed()).
					Msg("previous run")
			}

			deps := steps.Deps{
				Runner:  runner,
				Fetcher: botsrc.ForSource(cfg.BotSource, runner, logger),
				DNS:     dnsq.NewResolver(logger, cfg.DNSServer, cfg.DNSTimeout),
				Addr:    httpip.NewResolver(httpClient, logger, cfg.IPEndpoint),
				Prober:  netprobe.NewProber(),
				Logger:  logger,
			}

			pipeline := app.NewPipeline(steps.Build(cfg, deps), store, logger, cfg.StepTimeout)
			report, err := pipeline.Run(ctx)
			if err != nil {
				return err
			}

			log.Info().
				Str("run_id", report.RunID).
				Dur("took", report.FinishedAt.Sub(report.StartedAt)).
				Msg("provisioning complete")

			fmt.Printf("\nn8n is up at %s (user %s)\n", cfg.SiteURL(), cfg.N8NUser)
			fmt.Printf("bot service: n8n-bot (logs: journalctl -u n8n-bot -f)\n")
			fmt.Printf("run report: %s\n", store.Path())
			return nil
		},
	}

	preflightCmd := &cobra.Command{
		Use:   "preflight",
		Short: "Run the non-mutating DNS and port checks and report each result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				cancel()
			}()

			logger := logAdapter.NewZerologAdapterWithLogger(log)
			httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
			checker := preflight.NewChecker(cfg,
				dnsq.NewResolver(logger, cfg.DNSServer, cfg.DNSTimeout),
				httpip.NewResolver(httpClient, logger, cfg.IPEndpoint),
				netprobe.NewProber(),
				logger,
			)

			fmt.Printf("n8ntele preflight for %s\n", cfg.Domain)
			results := checker.Check(ctx)
			for _, r := range results {
				if r.Status == domain.CheckPass {
					fmt.Printf("[ OK ] %s\n", r.Name)
				} else {
					fmt.Printf("[FAIL] %s: %s\n", r.Name, r.Reason)
				}
			}
			if f := domain.FirstFailure(results); f != nil {
				return fmt.Errorf("preflight failed: %s", f.Name)
			}
			return nil
		},
	}
	root.AddCommand(preflightCmd)

	// Flags
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.n8ntele/config.toml)")
	root.PersistentFlags().StringVar(&cfg.Domain, "domain", "", "domain name the site is served on (must already point here)")
	root.PersistentFlags().StringVar(&cfg.Email, "email", "", "email for Let's Encrypt registration and expiry notices")
	root.PersistentFlags().StringVar(&cfg.BotToken, "bot-token", "", "Telegram bot token from @BotFather")
	root.PersistentFlags().StringVar(&cfg.AuthorizedUserID, "authorized-user", "", "numeric Telegram user ID allowed to use the bot")

	root.PersistentFlags().StringVar(&cfg.N8NUser, "n8n-user", cfg.N8NUser, "n8n basic auth user")
	root.PersistentFlags().StringVar(&cfg.N8NPassword, "n8n-password", cfg.N8NPassword, "n8n basic auth password")
	root.PersistentFlags().IntVar(&cfg.N8NPort, "n8n-port", cfg.N8NPort, "local port n8n listens on")

	root.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "n8n data directory (also holds the run report)")
	root.PersistentFlags().StringVar(&cfg.BackupsDir, "backups-dir", cfg.BackupsDir, "backup directory the bot writes into")
	root.PersistentFlags().StringVar(&cfg.LogsDir, "logs-dir", cfg.LogsDir, "log directory mounted into the container")
	root.PersistentFlags().StringVar(&cfg.BotDir, "bot-dir", cfg.BotDir, "directory the bot is deployed into")
	root.PersistentFlags().StringVar(&cfg.BotSource, "bot-source", cfg.BotSource, "git URL or local path the bot sources come from")
	root.PersistentFlags().StringVar(&cfg.Image, "image", cfg.Image, "n8n container image")

	root.PersistentFlags().StringVar(&cfg.DNSServer, "dns-server", cfg.DNSServer, "resolver used for the preflight DNS check")
	root.PersistentFlags().StringVar(&cfg.IPEndpoint, "ip-endpoint", cfg.IPEndpoint, fmt.Sprintf("endpoint that echoes this host's public IP (defaults to %s; override only for internal testing)", cliconfig.DefaultIPEndpoint))
	if err := root.PersistentFlags().MarkHidden("ip-endpoint"); err != nil {
		log.Info().Err(err).Msg("failed to hide ip-endpoint flag")
	}
	root.PersistentFlags().DurationVar(&cfg.DNSTimeout, "dns-timeout", cfg.DNSTimeout, "DNS query timeout")
	root.PersistentFlags().DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "HTTP timeout for the public IP lookup")
	root.PersistentFlags().DurationVar(&cfg.StepTimeout, "step-timeout", cfg.StepTimeout, "budget for a single provisioning step")

	root.Flags().BoolVar(&dryRun, "dry-run", false, "print what would happen without executing")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("n8ntele")
		os.Exit(1)
	}
}
