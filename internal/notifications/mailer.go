package notifications

import (
	"context"
	"fmt"
	"time"

	"jobportal/internal/email"
	"jobportal/internal/queue"
)

// Mailer собирает письма и отправляет их через email.Provider
type Mailer struct {
	provider email.Provider
	renderer email.TemplateRenderer
	siteURL  string
	resetTTL time.Duration
}

func NewMailer(provider email.Provider, renderer email.TemplateRenderer, siteURL string, resetTTL time.Duration) *Mailer {
	return &Mailer{
		provider: provider,
		renderer: renderer,
		siteURL:  siteURL,
		resetTTL: resetTTL,
	}
}

// WelcomeSubject - тема приветственного письма
func WelcomeSubject(username string) string {
	return fmt.Sprintf("Welcome to Job Portal, %s 🎉", username)
}

// WelcomeBody - текстовое тело приветственного письма
func WelcomeBody(username string) string {
	return fmt.Sprintf("Hi %s,\n\nThank you for registering on Job Portal. Explore jobs and apply today!", username)
}

func (m *Mailer) SendWelcome(p WelcomePayload) error {
	msg := &email.Email{
		To:      []string{p.Email},
		Subject: WelcomeSubject(p.Username),
		Body:    WelcomeBody(p.Username),
	}
	if m.renderer != nil {
		html, err := m.renderer.Render("welcome", email.TemplateData{
			"Username": p.Username,
			"SiteURL":  m.siteURL,
		})
		if err != nil {
			return err
		}
		msg.HTMLBody = html
	}
	return m.provider.Send(msg)
}

func (m *Mailer) SendPasswordReset(p PasswordResetPayload) error {
	msg := &email.Email{
		To:      []string{p.Email},
		Subject: "Job Portal password reset",
		Body: fmt.Sprintf("Hi %s,\n\nUse the link below to reset your password:\n%s\n\nThe link expires in %s.",
			p.Username, p.ResetLink, m.resetTTL),
	}
	if m.renderer != nil {
		html, err := m.renderer.Render("password_reset", email.TemplateData{
			"Username":  p.Username,
			"ResetLink": p.ResetLink,
			"ExpiresIn": m.resetTTL.String(),
		})
		if err != nil {
			return err
		}
		msg.HTMLBody = html
	}
	return m.provider.Send(msg)
}

// Dispatch выполняет задачу из очереди уведомлений
func (m *Mailer) Dispatch(_ context.Context, task queue.Task) error {
	switch task.Type {
	case TaskWelcomeEmail:
		var p WelcomePayload
		if err := task.Decode(&p); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTask, err)
		}
		return m.SendWelcome(p)
	case TaskPasswordResetEmail:
		var p PasswordResetPayload
		if err := task.Decode(&p); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTask, err)
		}
		return m.SendPasswordReset(p)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTask, task.Type)
	}
}
