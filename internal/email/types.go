package email

// Email - исходящее письмо. Если From пустой, провайдер подставляет адрес из конфигурации.
// Body - текстовая версия, HTMLBody - необязательная альтернатива.
type Email struct {
	From     string
	To       []string
	ReplyTo  string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData - переменные HTML-шаблона письма
type TemplateData map[string]interface{}
