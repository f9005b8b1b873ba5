package notifications

import (
	"context"

	"jobportal/internal/logger"
	"jobportal/internal/queue"
)

// QueuedSender ставит задачу в очередь и не ждет отправки.
// Ошибка публикации логируется и не возвращается вызывающему.
type QueuedSender struct {
	publisher queue.Publisher
}

func NewQueuedSender(publisher queue.Publisher) *QueuedSender {
	return &QueuedSender{publisher: publisher}
}

func (s *QueuedSender) NotifyWelcome(ctx context.Context, username, email string) error {
	s.enqueue(ctx, TaskWelcomeEmail, WelcomePayload{Username: username, Email: email})
	return nil
}

func (s *QueuedSender) NotifyPasswordReset(ctx context.Context, username, email, resetLink string) error {
	s.enqueue(ctx, TaskPasswordResetEmail, PasswordResetPayload{Username: username, Email: email, ResetLink: resetLink})
	return nil
}

func (s *QueuedSender) enqueue(ctx context.Context, taskType string, payload any) {
	task, err := queue.NewTask(taskType, payload)
	if err != nil {
		logger.CtxWithError(ctx, "failed to build notification task", err, "type", taskType)
		return
	}
	if err := s.publisher.Publish(ctx, task); err != nil {
		logger.CtxWithError(ctx, "failed to enqueue notification", err, "type", taskType, "task_id", task.ID)
		return
	}
	logger.CtxDebug(ctx, "notification enqueued", "type", taskType, "task_id", task.ID)
}
