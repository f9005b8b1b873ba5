package email

// Provider доставляет письма. Реализации: SMTPProvider (gomail) и LogProvider.
type Provider interface {
	Send(email *Email) error

	// Validate - проверка настроек до первой отправки (при старте)
	Validate() error

	Close() error
}

// TemplateRenderer рендерит HTML-версию письма по имени шаблона
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}
