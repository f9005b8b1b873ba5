package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobportal/internal/logger"

	"github.com/redis/go-redis/v9"
)

const defaultPollTimeout = time.Second

// RedisQueue - очередь на списке Redis: LPUSH для публикации, BRPOP для чтения
type RedisQueue struct {
	client      *redis.Client
	key         string
	pollTimeout time.Duration
}

func NewRedisQueue(client *redis.Client, name string) *RedisQueue {
	return &RedisQueue{
		client:      client,
		key:         "queue:" + name,
		pollTimeout: defaultPollTimeout,
	}
}

func (q *RedisQueue) Publish(ctx context.Context, task Task) error {
	body, err := json.Marshal(task)
	if err != nil {
		return err
	}
	if err := q.client.LPush(ctx, q.key, body).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Len - число задач, ожидающих обработки
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

func (q *RedisQueue) Consume(ctx context.Context, handler Handler) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		res, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, redis.ErrClosed) {
				return ErrClosed
			}
			logger.Warn("redis queue read failed", "queue", q.key, "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(q.pollTimeout):
			}
			continue
		}

		// res[0] - ключ, res[1] - значение
		if len(res) != 2 {
			continue
		}
		var task Task
		if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
			logger.Error("invalid task format", "queue", q.key, "error", err)
			continue
		}
		if err := handler(ctx, task); err != nil {
			if ctx.Err() != nil {
				// RPUSH кладет задачу туда, откуда ее заберет следующий BRPOP
				if pushErr := q.client.RPush(context.WithoutCancel(ctx), q.key, res[1]).Err(); pushErr != nil {
					logger.Error("task lost on shutdown", "queue", q.key, "task_id", task.ID, "error", pushErr)
				} else {
					logger.Warn("task requeued on shutdown", "queue", q.key, "task_id", task.ID, "type", task.Type)
				}
				return nil
			}
			logger.Error("task dropped", "queue", q.key, "task_id", task.ID, "type", task.Type, "error", err)
		}
	}
}

// Close не закрывает клиент: он общий с кэшем
func (q *RedisQueue) Close() error {
	return nil
}
