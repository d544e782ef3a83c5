package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNginxSite(t *testing.T) {
	conf, err := renderString(nginxSiteTemplate, siteData{Domain: "n8n.example.com", Port: 5678})
	require.NoError(t, err)

	assert.Contains(t, conf, "server_name n8n.example.com;")
	assert.Contains(t, conf, "proxy_pass http://127.0.0.1:5678;")
	assert.Contains(t, conf, "listen 80;")
	assert.Contains(t, conf, `proxy_set_header X-Forwarded-Proto $scheme;`)
}

func TestRenderBotUnit(t *testing.T) {
	unit, err := renderString(botUnitTemplate, unitData{BotDir: "/root/n8n_bot"})
	require.NoError(t, err)

	assert.Contains(t, unit, "WorkingDirectory=/root/n8n_bot")
	assert.Contains(t, unit, "EnvironmentFile=/root/n8n_bot/.env")
	assert.Contains(t, unit, "ExecStart=/root/n8n_bot/venv/bin/python /root/n8n_bot/bot.py")
	assert.Contains(t, unit, "Restart=always")
	assert.Contains(t, unit, "RestartSec=5")
	assert.Contains(t, unit, "After=network-online.target docker.service")
}

func TestRenderMissingKeyFails(t *testing.T) {
	_, err := renderString("{{.absent}}", map[string]string{})
	require.Error(t, err)
}
