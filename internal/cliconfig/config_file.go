package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Domain           string `toml:"domain"`
	Email            string `toml:"email"`
	BotToken         string `toml:"bot_token"`
	AuthorizedUserID string `toml:"authorized_user_id"`
	N8NUser          string `toml:"n8n_user"`
	N8NPassword      string `toml:"n8n_password"`
	N8NPort          int    `toml:"n8n_port"`
	DataDir          string `toml:"data_dir"`
	BackupsDir       string `toml:"backups_dir"`
	LogsDir          string `toml:"logs_dir"`
	BotDir           string `toml:"bot_dir"`
	BotSource        string `toml:"bot_source"`
	Image            string `toml:"image"`
	DNSServer        string `toml:"dns_server"`
	IPEndpoint       string `toml:"ip_endpoint"`
	DNSTimeout       string `toml:"dns_timeout"`
	HTTPTimeout      string `toml:"http_timeout"`
	StepTimeout      string `toml:"step_timeout"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.n8ntele/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".n8ntele", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("domain", fc.Domain, &cfg.Domain)
	s.setString("email", fc.Email, &cfg.Email)
	s.setString("bot-token", fc.BotToken, &cfg.BotToken)
	s.setString("authorized-user", fc.AuthorizedUserID, &cfg.AuthorizedUserID)
	s.setString("n8n-user", fc.N8NUser, &cfg.N8NUser)
	s.setString("n8n-password", fc.N8NPassword, &cfg.N8NPassword)
	s.setString("data-dir", fc.DataDir, &cfg.DataDir)
	s.setString("backups-dir", fc.BackupsDir, &cfg.BackupsDir)
	s.setString("logs-dir", fc.LogsDir, &cfg.LogsDir)
	s.setString("bot-dir", fc.BotDir, &cfg.BotDir)
	s.setString("bot-source", fc.BotSource, &cfg.BotSource)
	s.setString("image", fc.Image, &cfg.Image)
	s.setString("dns-server", fc.DNSServer, &cfg.DNSServer)
	s.setString("ip-endpoint", fc.IPEndpoint, &cfg.IPEndpoint)

	s.setInt("n8n-port", fc.N8NPort, &cfg.N8NPort)

	if err := s.setDuration("dns-timeout", fc.DNSTimeout, &cfg.DNSTimeout); err != nil {
		return err
	}
	if err := s.setDuration("http-timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("step-timeout", fc.StepTimeout, &cfg.StepTimeout); err != nil {
		return err
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
