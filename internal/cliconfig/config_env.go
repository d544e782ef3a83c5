package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables.
// The install contract keys (DOMAIN, EMAIL, TELEGRAM_BOT_TOKEN, ...)
// are unprefixed for compatibility with existing .env files; knobs
// specific to this tool carry the N8NTELE_ prefix.
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("domain", os.Getenv("DOMAIN"), &cfg.Domain)
	s.setString("email", os.Getenv("EMAIL"), &cfg.Email)
	s.setString("bot-token", os.Getenv("TELEGRAM_BOT_TOKEN"), &cfg.BotToken)
	s.setString("authorized-user", os.Getenv("AUTHORIZED_USER_ID"), &cfg.AuthorizedUserID)

	s.setString("n8n-user", os.Getenv("N8N_USER"), &cfg.N8NUser)
	s.setString("n8n-password", os.Getenv("N8N_PASSWORD"), &cfg.N8NPassword)
	if err := s.setIntFromString("n8n-port", os.Getenv("N8N_PORT"), &cfg.N8NPort); err != nil {
		return err
	}

	s.setString("data-dir", os.Getenv("N8N_DATA"), &cfg.DataDir)
	s.setString("backups-dir", os.Getenv("N8N_BACKUPS"), &cfg.BackupsDir)
	s.setString("logs-dir", os.Getenv("N8N_LOGS"), &cfg.LogsDir)
	s.setString("bot-dir", os.Getenv("BOT_DIR"), &cfg.BotDir)

	s.setString("bot-source", os.Getenv("N8NTELE_BOT_SOURCE"), &cfg.BotSource)
	s.setString("image", os.Getenv("N8NTELE_IMAGE"), &cfg.Image)
	s.setString("dns-server", os.Getenv("N8NTELE_DNS_SERVER"), &cfg.DNSServer)
	s.setString("ip-endpoint", os.Getenv("N8NTELE_IP_ENDPOINT"), &cfg.IPEndpoint)

	if err := s.setDuration("dns-timeout", os.Getenv("N8NTELE_DNS_TIMEOUT"), &cfg.DNSTimeout); err != nil {
		return err
	}
	if err := s.setDuration("http-timeout", os.Getenv("N8NTELE_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("step-timeout", os.Getenv("N8NTELE_STEP_TIMEOUT"), &cfg.StepTimeout); err != nil {
		return err
	}

	return nil
}
