// Package cliconfig holds the installer configuration and the layering
// rules that fill it: defaults, then config file, then environment,
// then command line flags.
package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/webclasher/n8nwithtele3.0/internal/domain"
)

// Defaults mirror the interactive installer this tool replaces.
const (
	DefaultN8NUser     = "admin"
	DefaultN8NPassword = "password"
	DefaultN8NPort     = 5678
	DefaultDataDir     = "/root/n8n_data"
	DefaultBackupsDir  = "/root/n8n_backups"
	DefaultLogsDir     = "/var/log/n8n"
	DefaultBotDir      = "/root/n8n_bot"
	DefaultBotSource   = "https://github.com/webclasher/n8nwithtele3.0.git"
	DefaultImage       = "n8nio/n8n"
	DefaultDNSServer   = "8.8.8.8:53"
	DefaultIPEndpoint  = "https://api.ipify.org"
)

// Config holds CLI configuration for n8ntele.
type Config struct {
	Domain string
	Email  string

	BotToken         string
	AuthorizedUserID string

	N8NUser     string
	N8NPassword string
	N8NPort     int

	DataDir    string
	BackupsDir string
	LogsDir    string
	BotDir     string

	BotSource string
	Image     string

	DNSServer  string
	IPEndpoint string

	DNSTimeout  time.Duration
	HTTPTimeout time.Duration
	StepTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		N8NUser:     DefaultN8NUser,
		N8NPassword: DefaultN8NPassword,
		N8NPort:     DefaultN8NPort,
		DataDir:     DefaultDataDir,
		BackupsDir:  DefaultBackupsDir,
		LogsDir:     DefaultLogsDir,
		BotDir:      DefaultBotDir,
		BotSource:   DefaultBotSource,
		Image:       DefaultImage,
		DNSServer:   DefaultDNSServer,
		IPEndpoint:  DefaultIPEndpoint,
		DNSTimeout:  5 * time.Second,
		HTTPTimeout: 10 * time.Second,
		StepTimeout: 20 * time.Minute,
	}
}

// Validate checks the configuration for errors and normalizes derived
// values. Missing required keys surface as domain.MissingKeyError.
func (c *Config) Validate() error {
	c.Domain = strings.TrimSuffix(strings.TrimSpace(c.Domain), ".")
	if c.Domain == "" {
		return domain.MissingKeyError{Key: "DOMAIN"}
	}
	if strings.ContainsAny(c.Domain, "/ ") || strings.Contains(c.Domain, "://") {
		return fmt.Errorf("DOMAIN must be a bare host name like n8n.example.com, got %q", c.Domain)
	}

	c.Email = strings.TrimSpace(c.Email)
	if c.Email == "" {
		return domain.MissingKeyError{Key: "EMAIL"}
	}

	if c.BotToken == "" {
		return domain.MissingKeyError{Key: "TELEGRAM_BOT_TOKEN"}
	}

	c.AuthorizedUserID = strings.TrimSpace(c.AuthorizedUserID)
	if c.AuthorizedUserID == "" {
		return domain.MissingKeyError{Key: "AUTHORIZED_USER_ID"}
	}
	if _, err := strconv.ParseInt(c.AuthorizedUserID, 10, 64); err != nil {
		return fmt.Errorf("AUTHORIZED_USER_ID must be a numeric Telegram user ID, got %q", c.AuthorizedUserID)
	}

	if c.N8NPort < 1 || c.N8NPort > 65535 {
		return fmt.Errorf("n8n port %d out of range", c.N8NPort)
	}

	if c.DataDir == "" || c.BackupsDir == "" || c.LogsDir == "" || c.BotDir == "" {
		return fmt.Errorf("data, backups, logs and bot directories must not be empty")
	}
	if c.BotSource == "" {
		return fmt.Errorf("bot source must not be empty")
	}

	// A bare resolver address gets the standard DNS port.
	if !strings.Contains(c.DNSServer, ":") {
		c.DNSServer = c.DNSServer + ":53"
	}

	// Ensure no trailing slash
	c.IPEndpoint = strings.TrimSuffix(c.IPEndpoint, "/")

	if c.DNSTimeout <= 0 {
		return fmt.Errorf("dns timeout must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if c.StepTimeout <= 0 {
		return fmt.Errorf("step timeout must be positive")
	}

	return nil
}

// SiteURL returns the public HTTPS URL the instance will serve on.
func (c *Config) SiteURL() string {
	return "https://" + c.Domain
}

// APIURL returns the loopback URL the bot uses to reach n8n directly.
func (c *Config) APIURL() string {
	return fmt.Sprintf("http://localhost:%d", c.N8NPort)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}
