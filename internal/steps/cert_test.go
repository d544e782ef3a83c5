package steps

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webclasher/n8nwithtele3.0/internal/adapters/log"
)

// writeCert drops a self-signed certificate for domain into the
// letsencrypt live layout under liveDir.
func writeCert(t *testing.T, liveDir, domain string, notAfter time.Time) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	serial, _ := rand.Int(rand.Reader, big.NewInt(1<<62))
	tmpl := x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: domain},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     notAfter,
		DNSNames:     []string{domain},
		KeyUsage:     x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)

	dir := filepath.Join(liveDir, domain)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	out, err := os.Create(filepath.Join(dir, "fullchain.pem"))
	require.NoError(t, err)
	defer out.Close()
	require.NoError(t, pem.Encode(out, &pem.Block{Type: "CERTIFICATE", Bytes: der}))
}

func newCertStep(t *testing.T, runner *fakeRunner) *Certificate {
	t.Helper()
	s := NewCertificate(testConfig(), runner, log.NewNoopLogger())
	dir := t.TempDir()
	s.LiveDir = filepath.Join(dir, "live")
	s.CronDir = filepath.Join(dir, "cron.d")
	return s
}

func TestCertificateIssuesWhenMissing(t *testing.T) {
	runner := &fakeRunner{}
	s := newCertStep(t, runner)

	require.NoError(t, s.Run(context.Background()))

	call := runner.call("certbot --nginx")
	require.NotNil(t, call, "certbot should run when no certificate is installed")
	assert.Equal(t, []string{
		"certbot", "--nginx",
		"-d", "n8n.example.com",
		"--non-interactive",
		"--agree-tos",
		"-m", "ops@example.com",
		"--redirect",
	}, call)

	cron, err := os.ReadFile(filepath.Join(s.CronDir, "n8ntele-certbot-renew"))
	require.NoError(t, err)
	assert.Contains(t, string(cron), "0 3 * * * root certbot renew --quiet")
	assert.Contains(t, string(cron), `--deploy-hook "systemctl reload nginx"`)
}

func TestCertificateSkipsWhenValid(t *testing.T) {
	runner := &fakeRunner{}
	s := newCertStep(t, runner)
	writeCert(t, s.LiveDir, "n8n.example.com", time.Now().Add(60*24*time.Hour))

	require.NoError(t, s.Run(context.Background()))

	assert.False(t, runner.ran("certbot --nginx"), "valid certificate must not be re-issued")
	_, err := os.Stat(filepath.Join(s.CronDir, "n8ntele-certbot-renew"))
	assert.NoError(t, err, "renewal cron is written even when issuance is skipped")
}

func TestCertificateReissuesWhenExpired(t *testing.T) {
	runner := &fakeRunner{}
	s := newCertStep(t, runner)
	writeCert(t, s.LiveDir, "n8n.example.com", time.Now().Add(-24*time.Hour))

	require.NoError(t, s.Run(context.Background()))
	assert.True(t, runner.ran("certbot --nginx"))
}

func TestCertificateIssuesWhenUnreadable(t *testing.T) {
	runner := &fakeRunner{}
	s := newCertStep(t, runner)

	dir := filepath.Join(s.LiveDir, "n8n.example.com")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fullchain.pem"), []byte("not a pem"), 0o600))

	require.NoError(t, s.Run(context.Background()))
	assert.True(t, runner.ran("certbot --nginx"), "garbage certificate counts as absent")
}

func TestCertificateIssuanceFailureIsFatal(t *testing.T) {
	runner := &fakeRunner{failOn: map[string]error{
		"certbot --nginx": errors.New("too many failed authorizations"),
	}}
	s := newCertStep(t, runner)

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "n8n.example.com")

	_, statErr := os.Stat(filepath.Join(s.CronDir, "n8ntele-certbot-renew"))
	assert.True(t, os.IsNotExist(statErr), "no cron after failed issuance")
}

func TestCertificateStepContract(t *testing.T) {
	s := NewCertificate(testConfig(), &fakeRunner{}, log.NewNoopLogger())
	assert.Equal(t, "certificate", s.Name())
	assert.False(t, s.Tolerable())
	assert.True(t, s.Mutating())
	assert.Equal(t, "/etc/letsencrypt/live", s.LiveDir)
	assert.Equal(t, "/etc/cron.d", s.CronDir)
}
