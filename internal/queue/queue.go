package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrClosed - транспорт очереди закрыт
var ErrClosed = errors.New("queue closed")

// Task - задача в очереди. Payload - JSON, структура зависит от Type.
type Task struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// NewTask сериализует payload и присваивает задаче ID
func NewTask(taskType string, payload any) (Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Task{}, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return Task{
		ID:         uuid.NewString(),
		Type:       taskType,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

// Decode разбирает payload задачи
func (t Task) Decode(out any) error {
	if err := json.Unmarshal(t.Payload, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", t.Type, err)
	}
	return nil
}

// Handler обрабатывает одну задачу. Ошибка означает, что задача не выполнена.
type Handler func(ctx context.Context, task Task) error

// Publisher ставит задачи в очередь
type Publisher interface {
	Publish(ctx context.Context, task Task) error
	Close() error
}

// Consumer читает задачи и передает их handler, пока ctx не отменен
type Consumer interface {
	Consume(ctx context.Context, handler Handler) error
	Close() error
}
