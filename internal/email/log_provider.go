package email

import (
	"strings"

	"jobportal/internal/logger"
)

// LogProvider пишет письма в лог вместо отправки (development без SMTP)
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(email *Email) error {
	logger.Info("📧 email (log provider)",
		"to", strings.Join(email.To, ","),
		"subject", email.Subject,
		"body", email.Body,
	)
	return nil
}

func (p *LogProvider) Validate() error { return nil }

func (p *LogProvider) Close() error { return nil }
