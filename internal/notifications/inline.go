package notifications

import (
	"context"

	"jobportal/internal/logger"
)

// InlineSender отправляет письмо в потоке запроса; ошибка видна вызывающему
type InlineSender struct {
	mailer *Mailer
}

func NewInlineSender(mailer *Mailer) *InlineSender {
	return &InlineSender{mailer: mailer}
}

func (s *InlineSender) NotifyWelcome(ctx context.Context, username, email string) error {
	if err := s.mailer.SendWelcome(WelcomePayload{Username: username, Email: email}); err != nil {
		logger.CtxWithError(ctx, "welcome email failed", err, "username", username)
		return err
	}
	logger.CtxInfo(ctx, "welcome email sent", "username", username)
	return nil
}

func (s *InlineSender) NotifyPasswordReset(ctx context.Context, username, email, resetLink string) error {
	err := s.mailer.SendPasswordReset(PasswordResetPayload{Username: username, Email: email, ResetLink: resetLink})
	if err != nil {
		logger.CtxWithError(ctx, "password reset email failed", err, "username", username)
	}
	return err
}
