package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"jobportal/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPQueue - durable очередь RabbitMQ с ручным подтверждением
type AMQPQueue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue

	mu sync.Mutex // amqp.Channel не потокобезопасен для публикации
}

func NewAMQPQueue(url, name string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		name,  // queue name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logger.Info("✅ Connected to RabbitMQ and declared queue", "queue", q.Name)

	return &AMQPQueue{conn: conn, channel: ch, queue: q}, nil
}

func (q *AMQPQueue) Publish(ctx context.Context, task Task) error {
	body, err := json.Marshal(task)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	return q.channel.PublishWithContext(
		ctx,
		"",           // exchange
		q.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    task.ID,
			Type:         task.Type,
			Body:         body,
		},
	)
}

func (q *AMQPQueue) Consume(ctx context.Context, handler Handler) error {
	if err := q.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := q.channel.Consume(
		q.queue.Name,
		"",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return ErrClosed
			}

			q.handle(ctx, d, handler)
		}
	}
}

// handle подтверждает доставку по результату handler.
// Если задачу прервала остановка воркера, сообщение возвращается в очередь.
func (q *AMQPQueue) handle(ctx context.Context, d amqp.Delivery, handler Handler) {
	var task Task
	if err := json.Unmarshal(d.Body, &task); err != nil {
		logger.Error("invalid task format", "queue", q.queue.Name, "error", err)
		_ = d.Nack(false, false)
		return
	}

	if err := handler(ctx, task); err != nil {
		if ctx.Err() != nil {
			logger.Warn("task requeued on shutdown", "queue", q.queue.Name, "task_id", task.ID, "type", task.Type)
			_ = d.Nack(false, true)
			return
		}
		logger.Error("task dropped", "queue", q.queue.Name, "task_id", task.ID, "type", task.Type, "error", err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (q *AMQPQueue) Close() error {
	if err := q.channel.Close(); err != nil {
		_ = q.conn.Close()
		return err
	}
	return q.conn.Close()
}
