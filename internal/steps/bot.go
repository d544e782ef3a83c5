package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/webclasher/n8nwithtele3.0/internal/cliconfig"
	"github.com/webclasher/n8nwithtele3.0/internal/ports"
)

const (
	defaultUnitDir = "/etc/systemd/system"
	botUnitName    = "n8n-bot.service"
)

// fallbackRequirements covers what bot.py imports when the source
// ships no requirements.txt.
var fallbackRequirements = []string{"python-telegram-bot", "docker", "requests"}

// Bot deploys the Telegram bot: sources, virtualenv, secrets and the
// systemd unit. Starting the service is a separate step so its
// failure can be tolerated.
type Bot struct {
	cfg     cliconfig.Config
	fetcher ports.BotSourceFetcher
	runner  ports.CommandRunner
	logger  ports.Logger

	// UnitDir defaults to the systemd layout.
	UnitDir string
}

// NewBot creates the bot deployment step.
func NewBot(cfg cliconfig.Config, fetcher ports.BotSourceFetcher, runner ports.CommandRunner, logger ports.Logger) *Bot {
	return &Bot{
		cfg:     cfg,
		fetcher: fetcher,
		runner:  runner,
		logger:  logger,
		UnitDir: defaultUnitDir,
	}
}

func (s *Bot) Name() string    { return "bot" }
func (s *Bot) Tolerable() bool { return false }
func (s *Bot) Mutating() bool  { return true }

// Run fetches the bot sources, prepares the virtualenv, writes the
// secrets file and installs the unit.
func (s *Bot) Run(ctx context.Context) error {
	if err := s.fetcher.Fetch(ctx, s.cfg.BotDir); err != nil {
		return fmt.Errorf("fetch bot source: %w", err)
	}

	if err := s.installDependencies(ctx); err != nil {
		return err
	}

	if err := s.writeSecrets(); err != nil {
		return err
	}

	if err := s.installUnit(); err != nil {
		return err
	}

	return s.runner.Run(ctx, "systemctl", "daemon-reload")
}

// installDependencies creates the virtualenv if missing and installs
// the bot's Python dependencies into it.
func (s *Bot) installDependencies(ctx context.Context) error {
	venv := filepath.Join(s.cfg.BotDir, "venv")
	if _, err := os.Stat(venv); os.IsNotExist(err) {
		if err := s.runner.Run(ctx, "python3", "-m", "venv", venv); err != nil {
			return fmt.Errorf("create virtualenv: %w", err)
		}
	}

	pip := filepath.Join(venv, "bin", "pip")
	requirements := filepath.Join(s.cfg.BotDir, "requirements.txt")
	if cliconfig.FileExists(requirements) {
		return s.runner.Run(ctx, pip, "install", "-r", requirements)
	}

	s.logger.Info("no requirements.txt in bot source, installing fallback set",
		ports.Strings("packages", fallbackRequirements))
	args := append([]string{"install"}, fallbackRequirements...)
	return s.runner.Run(ctx, pip, args...)
}

// writeSecrets writes the .env file the bot's unit loads. It carries
// exactly the keys bot.py reads.
func (s *Bot) writeSecrets() error {
	path := filepath.Join(s.cfg.BotDir, ".env")
	secrets := map[string]string{
		"TELEGRAM_BOT_TOKEN": s.cfg.BotToken,
		"AUTHORIZED_USER_ID": s.cfg.AuthorizedUserID,
		"N8N_API_URL":        s.cfg.APIURL(),
		"N8N_CONTAINER":      containerName,
		"N8N_DATA":           s.cfg.DataDir,
		"N8N_BACKUPS":        s.cfg.BackupsDir,
		"N8N_LOGS":           s.cfg.LogsDir,
	}
	if err := godotenv.Write(secrets, path); err != nil {
		return fmt.Errorf("write bot secrets: %w", err)
	}
	// The file holds the bot token; keep it to root.
	return os.Chmod(path, 0o600)
}

// installUnit renders and writes the systemd unit for the bot.
func (s *Bot) installUnit() error {
	unit, err := renderString(botUnitTemplate, unitData{BotDir: s.cfg.BotDir})
	if err != nil {
		return fmt.Errorf("render unit: %w", err)
	}
	if err := os.MkdirAll(s.UnitDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.UnitDir, botUnitName)
	if err := os.WriteFile(path, []byte(unit), 0o644); err != nil {
		return fmt.Errorf("write unit %s: %w", path, err)
	}
	s.logger.Info("bot unit installed", ports.String("unit", path))
	return nil
}

// BotService enables and starts the bot unit. It is the only tolerable
// step: everything the bot needs is already on disk when it runs, so a
// start failure does not invalidate the install.
type BotService struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewBotService creates the bot start step.
func NewBotService(runner ports.CommandRunner, logger ports.Logger) *BotService {
	return &BotService{runner: runner, logger: logger}
}

func (s *BotService) Name() string    { return "bot-service" }
func (s *BotService) Tolerable() bool { return true }
func (s *BotService) Mutating() bool  { return true }

// Run enables and starts the bot unit.
func (s *BotService) Run(ctx context.Context) error {
	return s.runner.Run(ctx, "systemctl", "enable", "--now", "n8n-bot")
}
