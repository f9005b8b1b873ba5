package workers

import (
	"context"
	"errors"
	"time"

	"jobportal/internal/logger"
	"jobportal/internal/notifications"
	"jobportal/internal/queue"

	"github.com/sethvargo/go-retry"
)

const notificationWorkerName = "notification_worker"

// TaskDispatcher выполняет задачу уведомления (реализуется notifications.Mailer)
type TaskDispatcher interface {
	Dispatch(ctx context.Context, task queue.Task) error
}

// NotificationWorker читает задачи из очереди и отправляет письма.
// Неудачная отправка повторяется MaxRetries раз с экспоненциальной паузой,
// после чего задача отбрасывается с записью в лог.
type NotificationWorker struct {
	consumer   queue.Consumer
	dispatcher TaskDispatcher
	maxRetries uint64
	baseDelay  time.Duration
}

func NewNotificationWorker(consumer queue.Consumer, dispatcher TaskDispatcher, maxRetries int, baseDelay time.Duration) *NotificationWorker {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return &NotificationWorker{
		consumer:   consumer,
		dispatcher: dispatcher,
		maxRetries: uint64(maxRetries),
		baseDelay:  baseDelay,
	}
}

// Start запускает обработку в отдельной горутине; канал закрывается по остановке
func (w *NotificationWorker) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- w.Run(ctx)
	}()
	return done
}

// Run блокирует до отмены ctx
func (w *NotificationWorker) Run(ctx context.Context) error {
	logger.Info("Notification worker started", "max_retries", w.maxRetries)
	err := w.consumer.Consume(ctx, w.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Notification worker stopped with error", "error", err)
		return err
	}
	logger.Info("Notification worker stopped")
	return nil
}

// Handle выполняет одну задачу с повторами. Ошибка возвращается транспорту,
// только если задача окончательно не выполнена.
func (w *NotificationWorker) Handle(ctx context.Context, task queue.Task) error {
	ctx = logger.WithTaskID(ctx, task.ID)

	attempt := 0
	backoff := retry.WithMaxRetries(w.maxRetries, retry.NewExponential(w.baseDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := w.dispatcher.Dispatch(ctx, task)
		if err == nil {
			logger.TaskLog(notificationWorkerName, task.Type, attempt, nil)
			return nil
		}
		logger.TaskLog(notificationWorkerName, task.Type, attempt, err)
		if errors.Is(err, notifications.ErrInvalidTask) {
			return err
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		logger.CtxError(ctx, "📧 notification dropped",
			"task_type", task.Type,
			"attempts", attempt,
			"error", err,
		)
	}
	return err
}
