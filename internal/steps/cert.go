package steps

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/webclasher/n8nwithtele3.0/internal/cliconfig"
	"github.com/webclasher/n8nwithtele3.0/internal/ports"
)

const (
	defaultLetsEncryptLive = "/etc/letsencrypt/live"
	defaultCronDir         = "/etc/cron.d"
	cronFileName           = "n8ntele-certbot-renew"
)

// Certificate obtains the Let's Encrypt certificate through certbot
// and installs the renewal cron job.
type Certificate struct {
	cfg    cliconfig.Config
	runner ports.CommandRunner
	logger ports.Logger

	// LiveDir and CronDir default to the certbot and cron layouts.
	LiveDir string
	CronDir string
}

// NewCertificate creates the certificate step.
func NewCertificate(cfg cliconfig.Config, runner ports.CommandRunner, logger ports.Logger) *Certificate {
	return &Certificate{
		cfg:     cfg,
		runner:  runner,
		logger:  logger,
		LiveDir: defaultLetsEncryptLive,
		CronDir: defaultCronDir,
	}
}

func (s *Certificate) Name() string    { return "certificate" }
func (s *Certificate) Tolerable() bool { return false }
func (s *Certificate) Mutating() bool  { return true }

// Run requests a certificate unless a valid one is already installed,
// then writes the renewal cron file. Issuance failure is fatal: the
// site is unreachable over HTTPS without it and the container already
// advertises an https webhook URL.
func (s *Certificate) Run(ctx context.Context) error {
	if expiry, ok := s.currentExpiry(); ok {
		s.logger.Info("certificate still valid, skipping issuance",
			ports.String("domain", s.cfg.Domain),
			ports.String("expires", expiry.Format(time.RFC3339)))
	} else {
		s.logger.Info("requesting certificate", ports.String("domain", s.cfg.Domain))
		err := s.runner.Run(ctx, "certbot",
			"--nginx",
			"-d", s.cfg.Domain,
			"--non-interactive",
			"--agree-tos",
			"-m", s.cfg.Email,
			"--redirect",
		)
		if err != nil {
			return fmt.Errorf("issue certificate for %s: %w", s.cfg.Domain, err)
		}
	}

	return s.writeRenewCron()
}

// currentExpiry reads the installed certificate and reports whether it
// is still valid.
func (s *Certificate) currentExpiry() (time.Time, bool) {
	path := filepath.Join(s.LiveDir, s.cfg.Domain, "fullchain.pem")
	data, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, false
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return time.Time{}, false
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return time.Time{}, false
	}
	if !time.Now().Before(cert.NotAfter) {
		return time.Time{}, false
	}
	return cert.NotAfter, true
}

// writeRenewCron installs the daily renewal job, replacing any
// previous version of the file.
func (s *Certificate) writeRenewCron() error {
	if err := os.MkdirAll(s.CronDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.CronDir, cronFileName)
	if err := os.WriteFile(path, []byte(certRenewCron), 0o644); err != nil {
		return fmt.Errorf("write renewal cron %s: %w", path, err)
	}
	return nil
}
