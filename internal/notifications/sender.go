package notifications

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidTask - задачу нельзя выполнить ни с какой попытки (неизвестный тип, битый payload)
var ErrInvalidTask = errors.New("invalid notification task")

// Типы задач в очереди уведомлений
const (
	TaskWelcomeEmail       = "send_welcome_email"
	TaskPasswordResetEmail = "send_password_reset_email"
)

// Sender отправляет пользовательские уведомления.
// Реализация (inline или через очередь) выбирается один раз при старте.
type Sender interface {
	NotifyWelcome(ctx context.Context, username, email string) error
	NotifyPasswordReset(ctx context.Context, username, email, resetLink string) error
}

// WelcomePayload - данные задачи приветственного письма
type WelcomePayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PasswordResetPayload - данные задачи письма со ссылкой сброса пароля
type PasswordResetPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	ResetLink string `json:"reset_link"`
}

// Mode - режим доставки уведомлений
type Mode string

const (
	ModeInline Mode = "inline"
	ModeQueued Mode = "queued"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeInline, ModeQueued:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown notifications mode %q", s)
	}
}
