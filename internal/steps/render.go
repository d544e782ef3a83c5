// Package steps contains the provisioning steps an install run
// executes: system packages, the n8n container, the nginx virtual
// host, the TLS certificate and the Telegram bot service.
package steps

import (
	"bytes"
	"text/template"
)

// siteData fills the nginx virtual host template.
type siteData struct {
	Domain string
	Port   int
}

// unitData fills the bot systemd unit template.
type unitData struct {
	BotDir string
}

const nginxSiteTemplate = `server {
    listen 80;
    server_name {{.Domain}};

    location / {
        proxy_pass http://127.0.0.1:{{.Port}};
        proxy_http_version 1.1;
        proxy_set_header Connection "";
        proxy_set_header Host $host;
        proxy_set_header X-Real-IP $remote_addr;
        proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
        proxy_set_header X-Forwarded-Proto $scheme;
    }
}
`

const botUnitTemplate = `[Unit]
Description=n8n Telegram bot
After=network-online.target docker.service
Wants=network-online.target

[Service]
WorkingDirectory={{.BotDir}}
EnvironmentFile={{.BotDir}}/.env
ExecStart={{.BotDir}}/venv/bin/python {{.BotDir}}/bot.py
Restart=always
RestartSec=5

[Install]
WantedBy=multi-user.target
`

const certRenewCron = `0 3 * * * root certbot renew --quiet --deploy-hook "systemctl reload nginx"
`

func renderString(content string, data interface{}) (string, error) {
	tmpl, err := template.New("").Option("missingkey=error").Parse(content)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
